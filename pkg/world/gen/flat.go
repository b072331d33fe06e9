package gen

const (
	blockAir       = 0
	blockStone     = 1
	blockGrass     = 2
	blockDirt      = 3
	blockBedrock   = 7
	blockWater     = 9 // stationary water
	blockSand      = 12
	blockGravel    = 13
	blockLog       = 17
	blockLeaves    = 18
	blockSandstone = 24
	blockTallGrass = 31
	blockFlower    = 38
	blockCactus    = 81
	blockDeadBush  = 32

	blockCoalOre     = 16
	blockIronOre     = 15
	blockGoldOre     = 14
	blockDiamondOre  = 56
	blockRedstoneOre = 73
	blockLapisOre    = 21
	blockLava        = 11 // stationary lava

	// Log variants (metadata).
	logOak    = 0
	logSpruce = 1
	logBirch  = 2

	// Leaves variants (metadata).
	leavesOak    = 0
	leavesSpruce = 1
	leavesBirch  = 2

	seaLevel = 62
)

// Exported block states for callers that inspect generated cubes.
const (
	StateAir     uint16 = blockAir << 4
	StateStone   uint16 = blockStone << 4
	StateGrass   uint16 = blockGrass << 4
	StateDirt    uint16 = blockDirt << 4
	StateBedrock uint16 = blockBedrock << 4
	StateWater   uint16 = blockWater << 4
)

// SeaLevel is the block Y up to which open terrain is flooded.
const SeaLevel = seaLevel

// flatLayers lists the superflat layers from block y=0 upward.
var flatLayers = [...]uint16{
	blockBedrock << 4,
	blockStone << 4,
	blockStone << 4,
	blockDirt << 4,
	blockGrass << 4,
}

// FlatGenerator generates a superflat world: bedrock at y=0, stone y=1..2,
// dirt y=3, grass y=4. Every other cube is left empty.
type FlatGenerator struct{}

// NewFlatGenerator creates a FlatGenerator.
func NewFlatGenerator(_ int64) *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) Generate(p Primer, _, cubeY, _ int) {
	if cubeY != 0 {
		return
	}
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y, state := range flatLayers {
				p.SetBlock(x, y, z, state)
			}
		}
	}
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return len(flatLayers) - 1 // top solid block is at y=4 (grass)
}
