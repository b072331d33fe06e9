package gen

import "math"

// CaveProcessor carves caves where two 3D fields agree. Runs on the
// Surface to Features transition.
type CaveProcessor struct {
	terrain  TerrainGenerator
	tunnels  *field
	chambers *field
}

// NewCaveProcessor creates a CaveProcessor from a seed. terrain supplies the
// height field that keeps caves from breaching the surface.
func NewCaveProcessor(seed int64, terrain TerrainGenerator) *CaveProcessor {
	return &CaveProcessor{
		terrain:  terrain,
		tunnels:  newField(seed+300, 32, 24, 1),
		chambers: newField(seed+400, 48, 32, 1),
	}
}

// Process removes blocks to form caves in the cube.
func (cg *CaveProcessor) Process(p Primer, cubeX, cubeY, cubeZ int) {
	const (
		threshold = 0.55
		lavaLevel = 10
		roof      = 4 // blocks kept below the surface
	)

	baseY := cubeY * 16
	var ceiling [256]int
	top := math.MinInt
	for i := range ceiling {
		ceiling[i] = cg.terrain.HeightAt(cubeX*16+(i&15), cubeZ*16+(i>>4)) - roof
		top = max(top, ceiling[i])
	}
	if baseY >= top {
		return
	}

	var tunnels, chambers [BlockCount]float64
	cg.tunnels.fillCube(&tunnels, cubeX, cubeY, cubeZ)
	cg.chambers.fillCube(&chambers, cubeX, cubeY, cubeZ)

	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			maxY := ceiling[z*16+x]
			for y := 0; y < 16 && baseY+y < maxY; y++ {
				switch p.GetBlock(x, y, z) {
				case blockAir << 4, blockWater << 4:
					continue
				}
				i := y*256 + z*16 + x
				if (tunnels[i]+chambers[i])/2 <= threshold {
					continue
				}
				if baseY+y < lavaLevel {
					p.SetBlock(x, y, z, blockLava<<4)
				} else {
					p.SetBlock(x, y, z, blockAir<<4)
				}
			}
		}
	}
}
