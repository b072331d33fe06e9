package coord

import (
	"errors"
	"testing"
)

func TestColumnRoundTrip(t *testing.T) {
	tests := []struct{ x, z int }{
		{0, 0},
		{3, -5},
		{-1, -1},
		{MaxColumn, MinColumn},
		{MinColumn, MaxColumn},
		{123456, -987654},
	}
	for _, tt := range tests {
		k, err := PackColumn(tt.x, tt.z)
		if err != nil {
			t.Fatalf("PackColumn(%d, %d): %v", tt.x, tt.z, err)
		}
		x, z := k.Unpack()
		if x != tt.x || z != tt.z {
			t.Errorf("Unpack(PackColumn(%d, %d)) = (%d, %d)", tt.x, tt.z, x, z)
		}
	}
}

func TestCubeRoundTrip(t *testing.T) {
	tests := []struct{ x, y, z int }{
		{0, 0, 0},
		{2, 4, -7},
		{-1, -1, -1},
		{MinCube, MaxCube, MinCube},
		{MaxCube, MinCube, MaxCube},
		{3, 1, -5},
	}
	for _, tt := range tests {
		k, err := PackCube(tt.x, tt.y, tt.z)
		if err != nil {
			t.Fatalf("PackCube(%d, %d, %d): %v", tt.x, tt.y, tt.z, err)
		}
		x, y, z := k.Unpack()
		if x != tt.x || y != tt.y || z != tt.z {
			t.Errorf("Unpack(PackCube(%d, %d, %d)) = (%d, %d, %d)", tt.x, tt.y, tt.z, x, y, z)
		}
	}
}

func TestColumnKeysDistinct(t *testing.T) {
	seen := make(map[ColumnKey][2]int)
	for x := -20; x <= 20; x++ {
		for z := -20; z <= 20; z++ {
			k := MustPackColumn(x, z)
			if prev, ok := seen[k]; ok {
				t.Fatalf("(%d, %d) collides with (%d, %d)", x, z, prev[0], prev[1])
			}
			seen[k] = [2]int{x, z}
		}
	}
}

func TestCubeKeysDistinct(t *testing.T) {
	seen := make(map[CubeKey][3]int)
	for x := -6; x <= 6; x++ {
		for y := -6; y <= 6; y++ {
			for z := -6; z <= 6; z++ {
				k := MustPackCube(x, y, z)
				if prev, ok := seen[k]; ok {
					t.Fatalf("(%d, %d, %d) collides with %v", x, y, z, prev)
				}
				seen[k] = [3]int{x, y, z}
			}
		}
	}

	// Values that would alias if the fields were truncated instead of rejected.
	if MustPackCube(MaxCube, 0, 0) == MustPackCube(MinCube, 0, 0) {
		t.Error("MaxCube and MinCube pack to the same key")
	}
}

func TestPackCubeOutOfRange(t *testing.T) {
	tests := []struct {
		x, y, z int
		axis    string
	}{
		{MaxCube + 1, 0, 0, "x"},
		{0, MinCube - 1, 0, "y"},
		{0, 0, 1 << 30, "z"},
	}
	for _, tt := range tests {
		_, err := PackCube(tt.x, tt.y, tt.z)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("PackCube(%d, %d, %d) error = %v, want ErrOutOfRange", tt.x, tt.y, tt.z, err)
		}
		var re *RangeError
		if !errors.As(err, &re) || re.Axis != tt.axis {
			t.Errorf("PackCube(%d, %d, %d) axis = %v, want %s", tt.x, tt.y, tt.z, re, tt.axis)
		}
	}
}

func TestPackColumnOutOfRange(t *testing.T) {
	if _, err := PackColumn(MaxColumn+1, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("PackColumn(MaxColumn+1, 0) error = %v, want ErrOutOfRange", err)
	}
}

func TestMustPackCubePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfRange) {
			t.Errorf("recovered %v, want RangeError", r)
		}
	}()
	MustPackCube(0, MaxCube+1, 0)
}

func TestBlockToCube(t *testing.T) {
	tests := []struct {
		block, cube, local int
	}{
		{0, 0, 0},
		{15, 0, 15},
		{16, 1, 0},
		{-1, -1, 15},
		{-16, -1, 0},
		{-17, -2, 15},
	}
	for _, tt := range tests {
		if got := BlockToCube(tt.block); got != tt.cube {
			t.Errorf("BlockToCube(%d) = %d, want %d", tt.block, got, tt.cube)
		}
		if got := BlockToLocal(tt.block); got != tt.local {
			t.Errorf("BlockToLocal(%d) = %d, want %d", tt.block, got, tt.local)
		}
		if got := CubeToBlock(tt.cube) + tt.local; got != tt.block {
			t.Errorf("CubeToBlock(%d)+%d = %d, want %d", tt.cube, tt.local, got, tt.block)
		}
	}
}
