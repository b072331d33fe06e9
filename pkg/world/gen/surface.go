package gen

import "math"

// SurfaceProcessor replaces the top layers of shaped stone with the biome's
// surface blocks. Runs on the Terrain to Surface transition.
type SurfaceProcessor struct {
	terrain *DefaultGenerator
	depth   *field // varies the layer depth by a block either way
}

// NewSurfaceProcessor creates a SurfaceProcessor that reads biomes and
// out-of-cube solidity from terrain.
func NewSurfaceProcessor(seed int64, terrain *DefaultGenerator) *SurfaceProcessor {
	return &SurfaceProcessor{terrain: terrain, depth: newField(seed+500, 16, 0, 2)}
}

func (sp *SurfaceProcessor) Process(p Primer, cubeX, cubeY, cubeZ int) {
	baseY := cubeY * 16

	var biomes [256]Biome
	var jitter [256]float64
	sp.terrain.biomes.fillArea(&biomes, cubeX, cubeZ)
	sp.depth.fillArea(&jitter, cubeX, cubeZ)

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			bx := cubeX*16 + x
			bz := cubeZ*16 + z
			biome := biomes[z*16+x]
			depth := surfaceLayerDepth(biome) + int(math.Round(jitter[z*16+x]))

			// run counts solid blocks from the nearest open block above.
			run := 0
			for k := 1; k <= depth; k++ {
				if !sp.terrain.Solid(bx, baseY+15+k, bz) {
					break
				}
				run++
			}

			for y := 15; y >= 0; y-- {
				if p.GetBlock(x, y, z) != blockStone<<4 {
					run = 0
					continue
				}
				if run < depth {
					p.SetBlock(x, y, z, surfaceBlock(biome, baseY+y, run, depth))
				}
				run++
			}
		}
	}
}

// surfaceLayerDepth returns how many blocks of surface material cap the stone.
func surfaceLayerDepth(biome Biome) int {
	switch biome {
	case biomeDesert:
		return 6 // deep sand over sandstone
	case biomeBeach:
		return 5
	default:
		return 4
	}
}

// surfaceBlock returns the block placed run blocks below the open block above
// a stone column at world height by.
func surfaceBlock(biome Biome, by, run, depth int) uint16 {
	switch biome {
	case biomeDesert, biomeBeach:
		// Sand on top, sandstone below.
		if run < depth-2 {
			return blockSand << 4
		}
		return blockSandstone << 4

	case biomeOcean:
		// Gravel on the ocean floor.
		if run < 3 {
			return blockGravel << 4
		}
		return blockDirt << 4

	case biomeMountains:
		// Bare stone peaks above the tree line.
		if by-run > 100 {
			return blockStone << 4
		}
		return defaultSurface(by, run)

	default:
		return defaultSurface(by, run)
	}
}

// defaultSurface places grass on top with dirt below; underwater tops get dirt.
func defaultSurface(by, run int) uint16 {
	if run == 0 && by > seaLevel {
		return blockGrass << 4
	}
	return blockDirt << 4
}
