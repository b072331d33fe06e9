package gen

// OreProcessor places ore veins in stone using a seeded per-cube RNG. Runs on
// the Surface to Features transition, after caves.
type OreProcessor struct {
	seed int64
}

// NewOreProcessor creates an OreProcessor from a seed.
func NewOreProcessor(seed int64) *OreProcessor {
	return &OreProcessor{seed: seed}
}

type oreConfig struct {
	block    uint16 // blockID
	minY     int    // world block Y, inclusive
	maxY     int    // world block Y, exclusive
	veinSize int    // max blocks per vein
	attempts int    // veins tried per cube
	rarity   int    // each attempt succeeds 1 in rarity
}

var ores = []oreConfig{
	{blockCoalOre, -256, 128, 12, 3, 1},
	{blockIronOre, -512, 64, 8, 3, 1},
	{blockGoldOre, -1024, 32, 8, 1, 4},
	{blockDiamondOre, -2048, 16, 6, 1, 8},
	{blockRedstoneOre, -2048, 16, 6, 2, 2},
	{blockLapisOre, -1024, 32, 6, 1, 8},
}

// Process scatters ore veins within the cube.
func (og *OreProcessor) Process(p Primer, cubeX, cubeY, cubeZ int) {
	rng := newCubeRNG(og.seed, cubeX, cubeY, cubeZ, 500)
	baseY := cubeY * 16

	for _, ore := range ores {
		for range ore.attempts {
			x := rng.nextN(16)
			y := rng.nextN(16)
			z := rng.nextN(16)
			roll := rng.nextN(ore.rarity)

			if by := baseY + y; by < ore.minY || by >= ore.maxY || roll != 0 {
				continue
			}
			og.placeVein(p, x, y, z, ore.block, ore.veinSize, rng)
		}
	}
}

func (og *OreProcessor) placeVein(p Primer, cx, cy, cz int, blockID uint16, size int, rng *cubeRNG) {
	for range size {
		if inCube(cx, cy, cz) && p.GetBlock(cx, cy, cz) == blockStone<<4 {
			// Only replace stone.
			p.SetBlock(cx, cy, cz, blockID<<4)
		}

		// Random walk.
		switch rng.nextN(6) {
		case 0:
			cx++
		case 1:
			cx--
		case 2:
			cy++
		case 3:
			cy--
		case 4:
			cz++
		case 5:
			cz--
		}
	}
}

func inCube(x, y, z int) bool {
	return x >= 0 && x < 16 && y >= 0 && y < 16 && z >= 0 && z < 16
}

// cubeRNG is a simple deterministic RNG for per-cube generation.
type cubeRNG struct {
	state int64
}

func newCubeRNG(seed int64, cx, cy, cz int, salt int64) *cubeRNG {
	s := seed ^ (int64(cx)*341873128712 + int64(cy)*49979693 + int64(cz)*132897987541 + salt)
	return &cubeRNG{state: s}
}

func (r *cubeRNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

func (r *cubeRNG) nextN(n int) int {
	v := int(r.next()>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}
