package analysis

type Point struct{ X, Y float64 }

// Trajectory pairs two equally long series into a path. Extra samples in
// the longer one are ignored.
func Trajectory(xs, ys []float64) []Point {
	n := min(len(xs), len(ys))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{xs[i], ys[i]}
	}
	return pts
}

// TrajectoryToASCII plots points on a width x height grid with 10% padding
// and draws the axes where they are in view. The last point is marked '@'.
func TrajectoryToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cell := func(p Point) (int, int) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		return row, col
	}

	if minX <= 0 && maxX >= 0 {
		_, col := cell(Point{})
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _ := cell(Point{})
		for col := range canvas[row] {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range points {
		row, col := cell(p)
		canvas[row][col] = '•'
	}
	row, col := cell(points[len(points)-1])
	canvas[row][col] = '@'

	out := make([]rune, 0, (width+1)*height)
	for _, line := range canvas {
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}
