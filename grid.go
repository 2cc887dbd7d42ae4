package voxel

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Grid is a dense voxel grid stored as one flat buffer, y major then x then z.
type Grid struct {
	Dims       Dims
	Resolution float32
	Empty      int16
	Blocks     []int16
}

func NewGrid(dims Dims, resolution float32, empty int16) *Grid {
	g := &Grid{Dims: dims, Resolution: resolution, Empty: empty, Blocks: make([]int16, dims.Volume())}
	if empty != 0 {
		for i := range g.Blocks {
			g.Blocks[i] = empty
		}
	}
	return g
}

func (g *Grid) index(x, y, z int) int {
	return ((y*g.Dims.X)+x)*g.Dims.Z + z
}

func (g *Grid) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Dims.X && y < g.Dims.Y && z < g.Dims.Z
}

// Get returns Empty outside the grid.
func (g *Grid) Get(x, y, z int) int16 {
	if !g.Contains(x, y, z) {
		return g.Empty
	}
	return g.Blocks[g.index(x, y, z)]
}

// Set reports whether the cell was inside the grid and written.
func (g *Grid) Set(x, y, z int, v int16) bool {
	return g.clampVoxelWrite(x, y, z, v)
}

// clampVoxelWrite drops writes outside the grid. Triangles legitimately
// extend past a clipped grid, so this is never an error.
func (g *Grid) clampVoxelWrite(x, y, z int, v int16) bool {
	if !g.Contains(x, y, z) {
		return false
	}
	g.Blocks[g.index(x, y, z)] = v
	return true
}

func (g *Grid) Filled(x, y, z int) bool {
	return g.Get(x, y, z) != g.Empty
}

func (g *Grid) FilledCount() int {
	n := 0
	for _, b := range g.Blocks {
		if b != g.Empty {
			n++
		}
	}
	return n
}

// Histogram counts the cells per block id, empty cells included.
func (g *Grid) Histogram() map[int16]int {
	h := make(map[int16]int)
	for _, b := range g.Blocks {
		h[b]++
	}
	return h
}

// Fingerprint hashes dims and cells. Two grids with equal fingerprints are
// byte-identical for all practical purposes.
func (g *Grid) Fingerprint() uint64 {
	d := xxhash.New()
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(g.Dims.X))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(g.Dims.Y))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(g.Dims.Z))
	_, _ = d.Write(hdr[:])
	buf := make([]byte, 2*len(g.Blocks))
	for i, b := range g.Blocks {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(b))
	}
	_, _ = d.Write(buf)
	return d.Sum64()
}
