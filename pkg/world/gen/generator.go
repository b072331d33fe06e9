package gen

// BlockCount is the number of blocks in one 16×16×16 cube.
const BlockCount = 16 * 16 * 16

// Blocks holds the block states of one cube.
// Index = y*256 + z*16 + x, value = blockID<<4 | metadata.
type Blocks [BlockCount]uint16

// Primer is the block storage generators write into.
// x, y, z are local to the cube and must be in [0,16).
type Primer interface {
	SetBlock(x, y, z int, state uint16)
	GetBlock(x, y, z int) uint16
}

// TerrainGenerator shapes raw terrain for a cube deterministically from a seed.
type TerrainGenerator interface {
	Generate(p Primer, cubeX, cubeY, cubeZ int)
	HeightAt(blockX, blockZ int) int
}

// SetBlock sets a block state at the given local coordinates.
func (b *Blocks) SetBlock(x, y, z int, state uint16) {
	b[y*256+z*16+x] = state
}

// GetBlock returns the block state at the given local coordinates.
func (b *Blocks) GetBlock(x, y, z int) uint16 {
	return b[y*256+z*16+x]
}

// IsEmpty reports whether every block is air.
func (b *Blocks) IsEmpty() bool {
	for _, s := range b {
		if s != 0 {
			return false
		}
	}
	return true
}
