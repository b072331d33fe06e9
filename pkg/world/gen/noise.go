package gen

// field is a seeded simplex noise field addressed by world block
// coordinates. Block coordinates are divided by the field's scale before
// sampling, so a block gets the same value no matter which cube asks for
// it and neighbouring cubes meet without seams.
//
// A field is immutable after construction and safe for concurrent use.
type field struct {
	perm    [512]uint8
	scaleXZ float64
	scaleY  float64 // unused by 2D sampling
	octaves int
}

// newField creates a field. Each octave doubles the frequency and halves
// the amplitude of the previous one.
func newField(seed int64, scaleXZ, scaleY float64, octaves int) *field {
	f := &field{scaleXZ: scaleXZ, scaleY: scaleY, octaves: max(octaves, 1)}

	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	// Fisher-Yates driven by a 64-bit LCG.
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s>>33)&0x7FFFFFFF) % (i + 1)
		p[i], p[j] = p[j], p[i]
	}
	for i := range f.perm {
		f.perm[i] = p[i&255]
	}
	return f
}

// column samples the field in the horizontal plane at a block column.
func (f *field) column(bx, bz int) float64 {
	x := float64(bx) / f.scaleXZ
	z := float64(bz) / f.scaleXZ

	var total, norm float64
	amp, freq := 1.0, 1.0
	for range f.octaves {
		total += f.simplex2(x*freq, z*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return total / norm
}

// at samples the field at a block.
func (f *field) at(bx, by, bz int) float64 {
	x := float64(bx) / f.scaleXZ
	y := float64(by) / f.scaleY
	z := float64(bz) / f.scaleXZ

	var total, norm float64
	amp, freq := 1.0, 1.0
	for range f.octaves {
		total += f.simplex3(x*freq, y*freq, z*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return total / norm
}

// fillArea samples column for every block column of a cube.
// dst is indexed z*16 + x.
func (f *field) fillArea(dst *[256]float64, cubeX, cubeZ int) {
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			dst[z*16+x] = f.column(cubeX*16+x, cubeZ*16+z)
		}
	}
}

// fillCube samples at for every block of a cube, indexed like Blocks.
func (f *field) fillCube(dst *[BlockCount]float64, cubeX, cubeY, cubeZ int) {
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				dst[y*256+z*16+x] = f.at(cubeX*16+x, cubeY*16+y, cubeZ*16+z)
			}
		}
	}
}

var gradients = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

func (f *field) grad2(i, j int) [3]float64 {
	return gradients[int(f.perm[i&255+int(f.perm[j&255])])%12]
}

func (f *field) grad3(i, j, k int) [3]float64 {
	return gradients[int(f.perm[i&255+int(f.perm[j&255+int(f.perm[k&255])])])%12]
}

// simplex2 is Perlin's 2D simplex noise in [-1, 1].
func (f *field) simplex2(x, y float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)
	s := (x + y) * f2
	i, j := fastFloor(x+s), fastFloor(y+s)
	t := float64(i+j) * g2
	x0, y0 := x-(float64(i)-t), y-(float64(j)-t)

	mid := [2]int{0, 1}
	if x0 > y0 {
		mid = [2]int{1, 0}
	}
	corners := [3][2]int{{0, 0}, mid, {1, 1}}

	var sum float64
	for n, c := range corners {
		dx := x0 - float64(c[0]) + float64(n)*g2
		dy := y0 - float64(c[1]) + float64(n)*g2
		g := f.grad2(i+c[0], j+c[1])
		sum += falloff(0.5-dx*dx-dy*dy) * (g[0]*dx + g[1]*dy)
	}
	return 70 * sum
}

// simplex3 is Perlin's 3D simplex noise in [-1, 1].
func (f *field) simplex3(x, y, z float64) float64 {
	const (
		f3 = 1.0 / 3.0
		g3 = 1.0 / 6.0
	)
	s := (x + y + z) * f3
	i, j, k := fastFloor(x+s), fastFloor(y+s), fastFloor(z+s)
	t := float64(i+j+k) * g3
	x0, y0, z0 := x-(float64(i)-t), y-(float64(j)-t), z-(float64(k)-t)

	second, third := simplexOrder(x0, y0, z0)
	corners := [4][3]int{{0, 0, 0}, second, third, {1, 1, 1}}

	var sum float64
	for n, c := range corners {
		dx := x0 - float64(c[0]) + float64(n)*g3
		dy := y0 - float64(c[1]) + float64(n)*g3
		dz := z0 - float64(c[2]) + float64(n)*g3
		g := f.grad3(i+c[0], j+c[1], k+c[2])
		sum += falloff(0.6-dx*dx-dy*dy-dz*dz) * (g[0]*dx + g[1]*dy + g[2]*dz)
	}
	return 32 * sum
}

// simplexOrder returns the offsets of the second and third corners of the
// simplex containing a point, walking axes by descending coordinate.
func simplexOrder(x, y, z float64) (second, third [3]int) {
	switch {
	case x >= y && y >= z:
		return [3]int{1, 0, 0}, [3]int{1, 1, 0}
	case x >= y && x >= z:
		return [3]int{1, 0, 0}, [3]int{1, 0, 1}
	case x >= y:
		return [3]int{0, 0, 1}, [3]int{1, 0, 1}
	case y < z:
		return [3]int{0, 0, 1}, [3]int{0, 1, 1}
	case x < z:
		return [3]int{0, 1, 0}, [3]int{0, 1, 1}
	default:
		return [3]int{0, 1, 0}, [3]int{1, 1, 0}
	}
}

func falloff(t float64) float64 {
	if t < 0 {
		return 0
	}
	t *= t
	return t * t
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
