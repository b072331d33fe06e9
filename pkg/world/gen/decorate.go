package gen

// DecorationProcessor places trees and vegetation per biome. Decorations
// are only placed when they fit entirely inside the cube, so a cube never
// writes into its neighbours.
type DecorationProcessor struct {
	seed    int64
	terrain *DefaultGenerator
}

// NewDecorationProcessor creates a DecorationProcessor from a seed.
func NewDecorationProcessor(seed int64, terrain *DefaultGenerator) *DecorationProcessor {
	return &DecorationProcessor{seed: seed, terrain: terrain}
}

// Process places trees and vegetation in the cube.
func (dp *DecorationProcessor) Process(p Primer, cubeX, cubeY, cubeZ int) {
	baseY := cubeY * 16
	if baseY+15 <= seaLevel {
		return
	}
	rng := newCubeRNG(dp.seed, cubeX, cubeY, cubeZ, 600)

	var biomes [256]Biome
	dp.terrain.biomes.fillArea(&biomes, cubeX, cubeZ)

	// Tree density follows the biome at the centre of the cube.
	for range treesForBiome(biomes[8*16+8]) {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y, ok := groundAt(p, x, z)
		if !ok || baseY+y <= seaLevel || p.GetBlock(x, y, z) != blockGrass<<4 {
			continue
		}
		dp.placeTree(p, x, y+1, z, biomes[z*16+x], rng)
	}

	dp.placeVegetation(p, &biomes, baseY, rng)
}

// groundAt returns the local y of the highest non-air block in (x, z) that
// has air directly above it inside the cube.
func groundAt(p Primer, x, z int) (int, bool) {
	for y := 14; y >= 0; y-- {
		if p.GetBlock(x, y, z) != blockAir<<4 && p.GetBlock(x, y+1, z) == blockAir<<4 {
			return y, true
		}
	}
	return 0, false
}

func treesForBiome(biome Biome) int {
	switch biome {
	case biomeDesert:
		return 0
	case biomeOcean, biomeBeach:
		return 0
	case biomePlains, biomeSavanna:
		return 1
	case biomeTundra, biomeSnowyTaiga:
		return 4
	case biomeTaiga:
		return 6
	case biomeForest:
		return 8
	case biomeDarkForest:
		return 10
	case biomeJungle:
		return 12
	default:
		return 2
	}
}

// placeTree places a single tree at the given position.
func (dp *DecorationProcessor) placeTree(p Primer, x, baseY, z int, biome Biome, rng *cubeRNG) {
	switch biome {
	case biomeTaiga, biomeSnowyTaiga:
		placeSpruce(p, x, baseY, z, rng)
	case biomeForest, biomeDarkForest:
		if rng.nextN(3) == 0 {
			placeRound(p, x, baseY, z, 5+rng.nextN(2), blockLog<<4|logBirch, blockLeaves<<4|leavesBirch, rng)
		} else {
			placeRound(p, x, baseY, z, 4+rng.nextN(3), blockLog<<4|logOak, blockLeaves<<4|leavesOak, rng)
		}
	default:
		placeRound(p, x, baseY, z, 4+rng.nextN(3), blockLog<<4|logOak, blockLeaves<<4|leavesOak, rng)
	}
}

// placeRound places an oak or birch tree: trunk plus a rounded leaf canopy.
func placeRound(p Primer, x, baseY, z, trunkHeight int, log, leaves uint16, rng *cubeRNG) {
	leafBase := baseY + trunkHeight - 2
	if leafBase+3 > 15 {
		return
	}

	for y := baseY; y < baseY+trunkHeight; y++ {
		p.SetBlock(x, y, z, log)
	}

	for dy := 0; dy < 4; dy++ {
		y := leafBase + dy
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				lx, lz := x+dx, z+dz
				if !inCube(lx, y, lz) {
					continue
				}
				// Skip corners for round shape on wider layers.
				if radius == 2 && abs(dx) == 2 && abs(dz) == 2 && rng.nextN(2) == 0 {
					continue
				}
				if p.GetBlock(lx, y, lz) == blockAir<<4 {
					p.SetBlock(lx, y, lz, leaves)
				}
			}
		}
	}
}

// placeSpruce places a spruce/taiga tree (conical shape).
func placeSpruce(p Primer, x, baseY, z int, rng *cubeRNG) {
	trunkHeight := 6 + rng.nextN(4) // 6-9
	topY := baseY + trunkHeight
	if topY > 15 {
		return
	}

	for y := baseY; y < topY; y++ {
		p.SetBlock(x, y, z, blockLog<<4|logSpruce)
	}

	// Conical leaves: widest at bottom, narrowing to top.
	for dy := 1; dy <= trunkHeight; dy++ {
		y := baseY + dy
		radius := min((trunkHeight-dy)/2, 3)
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		// Only place every other row for the wider sections.
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				lx, lz := x+dx, z+dz
				if !inCube(lx, y, lz) || (dx == 0 && dz == 0) {
					continue
				}
				if p.GetBlock(lx, y, lz) == blockAir<<4 {
					p.SetBlock(lx, y, lz, blockLeaves<<4|leavesSpruce)
				}
			}
		}
	}
	p.SetBlock(x, topY, z, blockLeaves<<4|leavesSpruce)
}

// placeVegetation scatters grass, flowers, cacti, and dead bushes.
func (dp *DecorationProcessor) placeVegetation(p Primer, biomes *[256]Biome, baseY int, rng *cubeRNG) {
	for range 20 {
		x := rng.nextN(16)
		z := rng.nextN(16)
		y, ok := groundAt(p, x, z)
		if !ok || baseY+y <= seaLevel {
			continue
		}
		top := p.GetBlock(x, y, z)

		switch biomes[z*16+x] {
		case biomeDesert:
			if top != blockSand<<4 {
				continue
			}
			if rng.nextN(8) == 0 {
				// Cactus (1-3 blocks tall).
				h := 1 + rng.nextN(3)
				for dy := 1; dy <= h && y+dy < 16; dy++ {
					p.SetBlock(x, y+dy, z, blockCactus<<4)
				}
			} else if rng.nextN(4) == 0 {
				p.SetBlock(x, y+1, z, blockDeadBush<<4)
			}

		case biomePlains, biomeForest, biomeDarkForest, biomeSavanna, biomeJungle:
			if top != blockGrass<<4 {
				continue
			}
			if rng.nextN(3) == 0 {
				// Tall grass (metadata 1 = tall grass, not dead shrub).
				p.SetBlock(x, y+1, z, blockTallGrass<<4|1)
			} else if rng.nextN(8) == 0 {
				p.SetBlock(x, y+1, z, blockFlower<<4)
			}

		case biomeTaiga, biomeSnowyTaiga, biomeTundra:
			if top != blockGrass<<4 {
				continue
			}
			if rng.nextN(6) == 0 {
				p.SetBlock(x, y+1, z, blockTallGrass<<4|1)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
