package gen

// densityAmplitude scales the 3D perturbation added to the height field.
// Larger values produce more overhangs and floating fragments.
const densityAmplitude = 6.0

// DefaultGenerator shapes cubes from a biome-scaled height field perturbed
// by 3D simplex density, flooding open space at or below sea level.
type DefaultGenerator struct {
	continent *field // large-scale relief, also decides oceans and beaches
	detail    *field
	density   *field
	biomes    *biomeMap
}

// NewDefaultGenerator creates a DefaultGenerator from a seed.
func NewDefaultGenerator(seed int64) *DefaultGenerator {
	continent := newField(seed, 128, 0, 6)
	return &DefaultGenerator{
		continent: continent,
		detail:    newField(seed+1, 32, 0, 3),
		density:   newField(seed+2, 48, 32, 3),
		biomes:    newBiomeMap(seed, continent),
	}
}

func (g *DefaultGenerator) Generate(p Primer, cubeX, cubeY, cubeZ int) {
	baseY := cubeY * 16

	var continent, detail [256]float64
	g.continent.fillArea(&continent, cubeX, cubeZ)
	g.detail.fillArea(&detail, cubeX, cubeZ)

	var heights [256]int
	straddles := false
	for i := range heights {
		biome := g.biomes.classify(cubeX*16+(i&15), cubeZ*16+(i>>4), continent[i])
		h := terrainHeight(continent[i], detail[i], biome)
		heights[i] = h
		if baseY <= h+densityAmplitude && baseY+15 >= h-densityAmplitude {
			straddles = true
		}
	}

	// Density is only sampled when some column's surface band crosses the cube.
	var density *[BlockCount]float64
	if straddles {
		density = new([BlockCount]float64)
		g.density.fillCube(density, cubeX, cubeY, cubeZ)
	}

	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			height := heights[z*16+x]
			switch {
			case baseY > height+densityAmplitude:
				g.fillOpen(p, x, z, baseY)
				continue
			case baseY+15 < height-densityAmplitude:
				for y := 0; y < 16; y++ {
					p.SetBlock(x, y, z, blockStone<<4)
				}
				continue
			}

			for y := 0; y < 16; y++ {
				by := baseY + y
				switch {
				case solidAt(height, by, density[y*256+z*16+x]):
					p.SetBlock(x, y, z, blockStone<<4)
				case by <= seaLevel:
					p.SetBlock(x, y, z, blockWater<<4)
				}
			}
		}
	}
}

func (g *DefaultGenerator) HeightAt(blockX, blockZ int) int {
	c := g.continent.column(blockX, blockZ)
	biome := g.biomes.classify(blockX, blockZ, c)
	return terrainHeight(c, g.detail.column(blockX, blockZ), biome)
}

// BiomeAt returns the biome at the given world block coordinates.
func (g *DefaultGenerator) BiomeAt(blockX, blockZ int) Biome {
	return g.biomes.at(blockX, blockZ)
}

// Solid reports whether the shaped terrain at a world block position is solid.
// Later stages use it to look past the cube's own bounds.
func (g *DefaultGenerator) Solid(bx, by, bz int) bool {
	height := g.HeightAt(bx, bz)
	if by > height+densityAmplitude {
		return false
	}
	if by < height-densityAmplitude {
		return true
	}
	return solidAt(height, by, g.density.at(bx, by, bz))
}

// solidAt decides solidity inside the surface band from a density sample.
func solidAt(height, by int, density float64) bool {
	return float64(height-by)+density*densityAmplitude > 0
}

func (g *DefaultGenerator) fillOpen(p Primer, x, z, baseY int) {
	for y := 0; y < 16 && baseY+y <= seaLevel; y++ {
		p.SetBlock(x, y, z, blockWater<<4)
	}
}

// terrainHeight turns continent and detail samples into a surface height,
// scaled by the biome's relief.
func terrainHeight(continent, detail float64, biome Biome) int {
	amplitude, baseHeight := biomeTerrainParams(biome)
	return fastFloor(baseHeight + continent*amplitude + detail*4.0)
}

// biomeTerrainParams returns (amplitude, baseHeight) for terrain noise scaling.
func biomeTerrainParams(biome Biome) (amplitude, baseHeight float64) {
	switch biome {
	case biomeOcean:
		return 8.0, 40.0
	case biomePlains, biomeSavanna:
		return 12.0, float64(seaLevel)
	case biomeForest, biomeDarkForest:
		return 16.0, float64(seaLevel) + 2
	case biomeTaiga, biomeSnowyTaiga:
		return 18.0, float64(seaLevel) + 4
	case biomeDesert:
		return 10.0, float64(seaLevel) + 2
	case biomeJungle:
		return 18.0, float64(seaLevel) + 4
	case biomeMountains:
		return 40.0, float64(seaLevel) + 10
	case biomeBeach:
		return 3.0, float64(seaLevel)
	case biomeTundra:
		return 10.0, float64(seaLevel)
	default:
		return 14.0, float64(seaLevel)
	}
}
