package voxel

import "sort"

// BlockMaterial is the preview colour of one block value.
type BlockMaterial struct {
	Color        [3]byte `json:"color"`
	Transparency float32 `json:"transparency"`
}

func (m BlockMaterial) GetColor() [3]byte {
	return m.Color
}

func (m BlockMaterial) baseColorFactor() *[4]float32 {
	return &[4]float32{float32(m.Color[0]) / 255, float32(m.Color[1]) / 255, float32(m.Color[2]) / 255, 1 - m.Transparency}
}

// Palette maps block values to materials. Values without an entry use Default.
type Palette struct {
	Default BlockMaterial           `json:"default"`
	Blocks  map[int16]BlockMaterial `json:"blocks,omitempty"`
}

func NewPalette() *Palette {
	return &Palette{
		Default: BlockMaterial{Color: [3]byte{200, 200, 200}},
		Blocks:  make(map[int16]BlockMaterial),
	}
}

// PaletteFromTextures colours each texture id with the mean colour of its
// reference texture.
func PaletteFromTextures(set *TextureSet) *Palette {
	p := NewPalette()
	if set == nil {
		return p
	}
	for i := 0; i < set.Len(); i++ {
		p.Blocks[int16(i)] = BlockMaterial{Color: set.Stat(i).Mean()}
	}
	return p
}

func (p *Palette) Material(v int16) BlockMaterial {
	if p == nil {
		return NewPalette().Default
	}
	if m, ok := p.Blocks[v]; ok {
		return m
	}
	return p.Default
}

func sortBlockValues(vals []int16) {
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
}

// SortedBlockValues returns the keys of a histogram in ascending order.
func SortedBlockValues(h map[int16]int) []int16 {
	vals := make([]int16, 0, len(h))
	for v := range h {
		vals = append(vals, v)
	}
	sortBlockValues(vals)
	return vals
}
