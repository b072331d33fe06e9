package gen

import (
	"math"
	"testing"
)

func TestFieldDeterministic(t *testing.T) {
	f1 := newField(12345, 32, 24, 3)
	f2 := newField(12345, 32, 24, 3)

	var a, b [BlockCount]float64
	f1.fillCube(&a, 3, -2, 7)
	f2.fillCube(&b, 3, -2, 7)
	if a != b {
		t.Fatal("same seed filled different cube samples")
	}
}

func TestFieldRange(t *testing.T) {
	tests := []struct {
		name    string
		octaves int
	}{
		{"single", 1},
		{"layered", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newField(42, 7.3, 5.1, tt.octaves)
			for i := 0; i < 5000; i++ {
				bx, by, bz := i*37-90000, i*53-130000, i*71-170000
				if v := f.column(bx, bz); v < -1 || v > 1 {
					t.Fatalf("column(%d, %d) = %f, out of [-1,1]", bx, bz, v)
				}
				if v := f.at(bx, by, bz); v < -1 || v > 1 {
					t.Fatalf("at(%d, %d, %d) = %f, out of [-1,1]", bx, by, bz, v)
				}
			}
		})
	}
}

func TestFieldSeedsDiffer(t *testing.T) {
	f1 := newField(1, 10, 10, 1)
	f2 := newField(2, 10, 10, 1)

	for bx := 0; bx < 100; bx++ {
		if f1.column(bx, bx*2) != f2.column(bx, bx*2) {
			return
		}
	}
	t.Error("different seeds should produce different noise")
}

func TestFieldCubeMatchesBlockSamples(t *testing.T) {
	f := newField(9, 48, 32, 3)

	for _, c := range [][3]int{{0, 0, 0}, {-1, 0, 0}, {0, -1, 0}, {2, -3, -1}} {
		var cube [BlockCount]float64
		var area [256]float64
		f.fillCube(&cube, c[0], c[1], c[2])
		f.fillArea(&area, c[0], c[2])

		for y := 0; y < 16; y++ {
			for z := 0; z < 16; z++ {
				for x := 0; x < 16; x++ {
					bx, by, bz := c[0]*16+x, c[1]*16+y, c[2]*16+z
					if got, want := cube[y*256+z*16+x], f.at(bx, by, bz); got != want {
						t.Fatalf("cube %v block (%d,%d,%d) = %f, at() = %f", c, x, y, z, got, want)
					}
					if got, want := area[z*16+x], f.column(bx, bz); got != want {
						t.Fatalf("cube %v column (%d,%d) = %f, column() = %f", c, x, z, got, want)
					}
				}
			}
		}
	}
}

func TestFieldContinuousAcrossCubeSeams(t *testing.T) {
	const limit = 0.5 // a single block step at scale 32 moves far less
	f := newField(21, 32, 32, 1)

	var origin, west, below [BlockCount]float64
	f.fillCube(&origin, 0, 0, 0)
	f.fillCube(&west, -1, 0, 0)
	f.fillCube(&below, 0, -1, 0)

	for a := 0; a < 16; a++ {
		for b := 0; b < 16; b++ {
			// x seam: west x=15 meets origin x=0.
			if d := math.Abs(west[a*256+b*16+15] - origin[a*256+b*16]); d > limit {
				t.Fatalf("x seam jump %f at y=%d z=%d", d, a, b)
			}
			// y seam: below y=15 meets origin y=0.
			if d := math.Abs(below[15*256+a*16+b] - origin[a*16+b]); d > limit {
				t.Fatalf("y seam jump %f at z=%d x=%d", d, a, b)
			}
		}
	}
}

func TestFieldSmoothness(t *testing.T) {
	f := newField(456, 100, 0, 4)

	// Adjacent columns should not differ by more than some reasonable amount.
	prev := f.column(0, 0)
	for bx := 1; bx < 1000; bx++ {
		curr := f.column(bx, 0)
		if diff := math.Abs(curr - prev); diff > 0.1 {
			t.Fatalf("noise changed too rapidly at x=%d: diff=%f", bx, diff)
		}
		prev = curr
	}
}

func TestSimplexOrderCorners(t *testing.T) {
	tests := []struct {
		x, y, z       float64
		second, third [3]int
	}{
		{0.9, 0.5, 0.1, [3]int{1, 0, 0}, [3]int{1, 1, 0}},
		{0.9, 0.1, 0.5, [3]int{1, 0, 0}, [3]int{1, 0, 1}},
		{0.5, 0.1, 0.9, [3]int{0, 0, 1}, [3]int{1, 0, 1}},
		{0.1, 0.5, 0.9, [3]int{0, 0, 1}, [3]int{0, 1, 1}},
		{0.1, 0.9, 0.5, [3]int{0, 1, 0}, [3]int{0, 1, 1}},
		{0.5, 0.9, 0.1, [3]int{0, 1, 0}, [3]int{1, 1, 0}},
	}
	for _, tt := range tests {
		second, third := simplexOrder(tt.x, tt.y, tt.z)
		if second != tt.second || third != tt.third {
			t.Errorf("simplexOrder(%v,%v,%v) = %v %v, want %v %v", tt.x, tt.y, tt.z, second, third, tt.second, tt.third)
		}
	}
}
