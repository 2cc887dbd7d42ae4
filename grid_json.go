package voxel

import (
	"encoding/json"
	"fmt"
)

// The JSON layout nests Y, then X, then Z, each level wrapped in {"b": [...]}.
type jsonZAxis struct {
	B []int16 `json:"b"`
}

type jsonXAxis struct {
	B []jsonZAxis `json:"b"`
}

type jsonGrid struct {
	B []jsonXAxis `json:"b"`
}

func (g *Grid) toJSON() jsonGrid {
	yArr := make([]jsonXAxis, g.Dims.Y)
	for y := range yArr {
		xArr := make([]jsonZAxis, g.Dims.X)
		for x := range xArr {
			start := g.index(x, y, 0)
			zs := make([]int16, g.Dims.Z)
			copy(zs, g.Blocks[start:start+g.Dims.Z])
			xArr[x] = jsonZAxis{B: zs}
		}
		yArr[y] = jsonXAxis{B: xArr}
	}
	return jsonGrid{B: yArr}
}

// MarshalJSON writes the compact nested form consumed downstream.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toJSON())
}

// UnmarshalGridJSON reads the nested form back. The JSON carries no
// resolution or sentinel, so those are supplied by the caller.
func UnmarshalGridJSON(data []byte, resolution float32, empty int16) (*Grid, error) {
	var jg jsonGrid
	if err := json.Unmarshal(data, &jg); err != nil {
		return nil, err
	}
	dims := Dims{Y: len(jg.B)}
	if dims.Y > 0 {
		dims.X = len(jg.B[0].B)
		if dims.X > 0 {
			dims.Z = len(jg.B[0].B[0].B)
		}
	}
	g := NewGrid(dims, resolution, empty)
	for y, xa := range jg.B {
		if len(xa.B) != dims.X {
			return nil, fmt.Errorf("%w: row y=%d has %d columns, want %d", ErrInvalidGrid, y, len(xa.B), dims.X)
		}
		for x, za := range xa.B {
			if len(za.B) != dims.Z {
				return nil, fmt.Errorf("%w: column (%d,%d) has %d cells, want %d", ErrInvalidGrid, x, y, len(za.B), dims.Z)
			}
			copy(g.Blocks[g.index(x, y, 0):], za.B)
		}
	}
	return g, nil
}
