package field

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// noise is a smooth per-axis drift with every component in [-1, 1]. Each
// axis runs at its own rate so the path never closes quickly.
func noise(t, sizeSeed, speedSeed float64) r3.Vec {
	return r3.Vec{
		X: dynamo.FastSin(t + sizeSeed*2*math.Pi),
		Y: dynamo.FastSin(1.3*t + speedSeed*2*math.Pi),
		Z: dynamo.FastSin(0.7*t + (sizeSeed-speedSeed)*math.Pi),
	}
}
