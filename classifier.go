package voxel

import (
	"math"
	"math/bits"

	"github.com/flywave/go3d/vec2"
)

// TextureStat holds per-channel sums over every pixel of one texture.
type TextureStat struct {
	Sum   [3]int64
	SumSq [3]int64
	Count int64
}

func NewTextureStat(t *Texture) TextureStat {
	var st TextureStat
	for p := 0; p+2 < len(t.Data); p += 3 {
		for c := 0; c < 3; c++ {
			v := int64(t.Data[p+c])
			st.Sum[c] += v
			st.SumSq[c] += v * v
		}
		st.Count++
	}
	return st
}

// Mean is the average colour, zero for an empty texture.
func (s TextureStat) Mean() [3]uint8 {
	var m [3]uint8
	if s.Count == 0 {
		return m
	}
	for c := range m {
		m[c] = uint8((s.Sum[c] + s.Count/2) / s.Count)
	}
	return m
}

// Cost is the summed squared distance between px and every pixel of the
// texture, expanded so no division is needed. Divided by Count it is the
// mean squared distance; Match compares it that way.
func (s TextureStat) Cost(px [3]uint8) int64 {
	var cost int64
	for c := 0; c < 3; c++ {
		p := int64(px[c])
		cost += s.SumSq[c] - 2*p*s.Sum[c] + s.Count*p*p
	}
	return cost
}

// TextureSet is the immutable list of block textures with their statistics.
// It may be shared by any number of Voxelize calls.
type TextureSet struct {
	Names []string
	stats []TextureStat
}

func NewTextureSet(texs []*Texture) *TextureSet {
	s := &TextureSet{Names: TextureNames(texs), stats: make([]TextureStat, len(texs))}
	for i, t := range texs {
		s.stats[i] = NewTextureStat(t)
	}
	return s
}

func (s *TextureSet) Len() int {
	return len(s.stats)
}

func (s *TextureSet) Stat(id int) TextureStat {
	return s.stats[id]
}

// Match returns the id of the texture whose pixels are closest to px on
// average. The lowest id wins ties; empty textures never match.
func (s *TextureSet) Match(px [3]uint8) int16 {
	best := NoTexture
	var bestCost, bestCount int64
	for i := range s.stats {
		st := &s.stats[i]
		if st.Count == 0 {
			continue
		}
		c := st.Cost(px)
		if best == NoTexture || lessMean(c, st.Count, bestCost, bestCount) {
			best, bestCost, bestCount = int16(i), c, st.Count
		}
	}
	return best
}

// lessMean reports whether costA/countA < costB/countB. Both sides are
// cross-multiplied in 128 bits; costs and counts are never negative.
func lessMean(costA, countA, costB, countB int64) bool {
	ah, al := bits.Mul64(uint64(costA), uint64(countB))
	bh, bl := bits.Mul64(uint64(costB), uint64(countA))
	return ah < bh || (ah == bh && al < bl)
}

// UVMapping maps triangle weights onto texture space.
type UVMapping struct {
	Origin vec2.T
	A2B    vec2.T
	A2C    vec2.T
}

func NewUVMapping(m *Model, uvFace Face) UVMapping {
	a := m.TexCoords[uvFace[0]]
	b := m.TexCoords[uvFace[1]]
	c := m.TexCoords[uvFace[2]]
	return UVMapping{Origin: a, A2B: vec2.Sub(&b, &a), A2C: vec2.Sub(&c, &a)}
}

func (u UVMapping) At(w1, w2 float32) vec2.T {
	return vec2.T{
		u.Origin[0] + w1*u.A2B[0] + w2*u.A2C[0],
		u.Origin[1] + w1*u.A2B[1] + w2*u.A2C[1],
	}
}

// Classifier samples the model atlas and picks the nearest block texture.
type Classifier struct {
	Atlas   *Texture
	Set     *TextureSet
	Mapping UVMapping
}

func (c *Classifier) Classify(w1, w2 float32) int16 {
	uv := c.Mapping.At(w1, w2)
	x := int(math.Floor(float64(uv[0]) * float64(c.Atlas.Width())))
	y := int(math.Floor(float64(uv[1]) * float64(c.Atlas.Height())))
	if !c.Atlas.InBounds(x, y) {
		return NoTexture
	}
	return c.Set.Match(c.Atlas.At(x, y))
}
