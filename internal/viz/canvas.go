package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// bayer thresholds one braille cell for ordered dithering.
var bayer = [4][2]float64{
	{1.0 / 16, 9.0 / 16},
	{13.0 / 16, 5.0 / 16},
	{3.0 / 16, 11.0 / 16},
	{15.0 / 16, 7.0 / 16},
}

const blank = rune(0x2800)

// Canvas is a braille pixel grid of Width x Height cells, each holding 2x4
// dots. Dots carry a depth; cells carry the color of their nearest dot.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color

	depth     []float64
	cellDepth []float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:     w,
		Height:    h,
		Grid:      make([][]rune, h),
		Colors:    make([][]colorful.Color, h),
		depth:     make([]float64, w*2*h*4),
		cellDepth: make([]float64, w*h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Set turns on the dot at (x, y), ignoring depth.
func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Plot writes the dot at (x, y) if z is nearer than what is there. The dot
// is lit when brightness beats its dither threshold; a nearer dark dot
// clears whatever was behind it.
func (c *Canvas) Plot(x, y int, z, brightness float64, col colorful.Color) {
	cx, cy, ok := c.cell(x, y)
	if !ok {
		return
	}
	i := y*c.Width*2 + x
	if z >= c.depth[i] {
		return
	}
	c.depth[i] = z
	if brightness > bayer[y%4][x%2] {
		c.Set(x, y)
	} else {
		c.Unset(x, y)
	}
	if j := cy*c.Width + cx; z < c.cellDepth[j] {
		c.cellDepth[j] = z
		c.Colors[cy][cx] = col
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = colorful.Color{R: 1, G: 1, B: 1}
		}
	}
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
	}
	for i := range c.cellDepth {
		c.cellDepth[i] = math.Inf(1)
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r dots with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Colored renders the grid with each run of equally colored cells styled
// once.
func (c *Canvas) Colored() string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[row][start].Hex()))
			b.WriteString(style.Render(string(c.Grid[row][start:col])))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
