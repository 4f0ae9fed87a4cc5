package field

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/physics"
)

var ErrEmptyPalette = errors.New("field: palette has no colours")

// DefaultPalette is the body colour set as hex strings.
var DefaultPalette = []string{
	"#0067b1", "#4e99ce", "#9bcbeb", "#55d7e2", "#ffffff",
	"#9ca9b2", "#4e6676", "#f69230", "#f5d81f",
}

// Spawn parameters for the body pool.
const (
	BodyRadius  = 0.2
	BodyDensity = 0.5
	SpawnRange  = 6.0
	SpawnLift   = 3.0
)

// ParsePalette decodes hex colours.
func ParsePalette(hex []string) ([]colorful.Color, error) {
	if len(hex) == 0 {
		return nil, ErrEmptyPalette
	}
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// NewPool creates n dynamic bodies in world, scattered over a cube above
// the origin, each with a random palette colour and fresh seeds.
func NewPool(world *physics.World, n int, rng *rand.Rand, palette []colorful.Color) ([]*Body, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	bodies := make([]*Body, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Float64()*SpawnRange - SpawnRange/2
		y := rng.Float64()*SpawnRange - SpawnRange/2 + SpawnLift
		z := rng.Float64()*SpawnRange - SpawnRange/2

		rigid := world.CreateRigidBody(physics.DynamicDesc().SetTranslation(x, y, z))
		if err := world.CreateCollider(physics.Ball(BodyRadius).SetDensity(BodyDensity), rigid); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, &Body{
			Rigid:     rigid,
			Size:      BodyRadius,
			Color:     palette[rng.Intn(len(palette))],
			SizeSeed:  seed(rng),
			SpeedSeed: seed(rng),
			SwirlSeed: seed(rng),
		})
	}
	return bodies, nil
}

func seed(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}
