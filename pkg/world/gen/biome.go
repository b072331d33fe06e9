package gen

// Biome is the climate assigned to a world column. Biomes do not vary
// with height: every cube of a column shares them. Values are the 1.8
// biome IDs so exported regions stay readable by other tools.
type Biome uint8

const (
	biomeOcean      Biome = 0
	biomePlains     Biome = 1
	biomeDesert     Biome = 2
	biomeMountains  Biome = 3 // extreme hills
	biomeForest     Biome = 4
	biomeTaiga      Biome = 5
	biomeTundra     Biome = 12
	biomeBeach      Biome = 16
	biomeJungle     Biome = 21
	biomeDarkForest Biome = 29
	biomeSnowyTaiga Biome = 30
	biomeSavanna    Biome = 35
)

var biomeNames = map[Biome]string{
	biomeOcean:      "ocean",
	biomePlains:     "plains",
	biomeDesert:     "desert",
	biomeMountains:  "mountains",
	biomeForest:     "forest",
	biomeTaiga:      "taiga",
	biomeTundra:     "tundra",
	biomeBeach:      "beach",
	biomeJungle:     "jungle",
	biomeDarkForest: "dark_forest",
	biomeSnowyTaiga: "snowy_taiga",
	biomeSavanna:    "savanna",
}

func (b Biome) String() string {
	if n, ok := biomeNames[b]; ok {
		return n
	}
	return "unknown"
}

// BiomeSource is implemented by terrain generators that assign biomes.
type BiomeSource interface {
	BiomeAt(blockX, blockZ int) Biome
}

// biomeMap picks biomes from temperature and rainfall fields. Oceans and
// beaches come from the continent field, which the height field shares.
type biomeMap struct {
	continent   *field
	temperature *field
	rainfall    *field
}

func newBiomeMap(seed int64, continent *field) *biomeMap {
	return &biomeMap{
		continent:   continent,
		temperature: newField(seed+100, 512, 0, 4),
		rainfall:    newField(seed+200, 512, 0, 4),
	}
}

func (m *biomeMap) at(bx, bz int) Biome {
	return m.classify(bx, bz, m.continent.column(bx, bz))
}

// fillArea assigns a biome to every block column of a cube, indexed z*16 + x.
func (m *biomeMap) fillArea(dst *[256]Biome, cubeX, cubeZ int) {
	var continent [256]float64
	m.continent.fillArea(&continent, cubeX, cubeZ)
	for i, c := range continent {
		dst[i] = m.classify(cubeX*16+(i&15), cubeZ*16+(i>>4), c)
	}
}

// classify picks the biome of a column whose continent sample is c.
func (m *biomeMap) classify(bx, bz int, c float64) Biome {
	// Columns well below sea level on the continent field are sea.
	switch level := float64(seaLevel) + c*8; {
	case level < seaLevel-8:
		return biomeOcean
	case level < seaLevel-2:
		return biomeBeach
	}
	temp := m.temperature.column(bx, bz)*0.8 + 0.75
	rain := m.rainfall.column(bx, bz)*0.5 + 0.5
	return selectBiome(temp, rain)
}

// selectBiome maps temperature and rainfall to a biome.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6) | Wet (>0.6)
//	Cold <0.3     | Tundra        | Snowy Taiga      | Taiga
//	Mild 0.3-0.7  | Plains        | Forest           | Dark Forest
//	Warm 0.7-1.2  | Savanna       | Plains           | Jungle
//	Hot >1.2      | Desert        | Desert           | Jungle
func selectBiome(temp, rain float64) Biome {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return biomeTundra
		case rain < 0.6:
			return biomeSnowyTaiga
		default:
			return biomeTaiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return biomePlains
		case rain < 0.6:
			return biomeForest
		default:
			return biomeDarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return biomeSavanna
		case rain < 0.6:
			return biomePlains
		default:
			return biomeJungle
		}
	default:
		if rain > 0.6 {
			return biomeJungle
		}
		return biomeDesert
	}
}
