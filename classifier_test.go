package voxel

import (
	"math"
	"testing"

	"github.com/flywave/go3d/vec2"
)

func uniformTexture(name string, w, h int, c [3]uint8) *Texture {
	t := NewTexture(name, w, h)
	t.Fill(c)
	return t
}

func TestTextureStat(t *testing.T) {
	tex := NewTexture("two.png", 2, 1)
	tex.Set(0, 0, [3]uint8{10, 20, 30})
	tex.Set(1, 0, [3]uint8{30, 40, 50})

	st := NewTextureStat(tex)
	if st.Count != 2 {
		t.Errorf("Count = %d, want 2", st.Count)
	}
	if st.Sum != [3]int64{40, 60, 80} {
		t.Errorf("Sum = %v", st.Sum)
	}
	if st.SumSq != [3]int64{1000, 2000, 3400} {
		t.Errorf("SumSq = %v", st.SumSq)
	}
	if got := st.Mean(); got != [3]uint8{20, 30, 40} {
		t.Errorf("Mean = %v", got)
	}
	// 2*(10^2) per channel.
	if got := st.Cost([3]uint8{20, 30, 40}); got != 600 {
		t.Errorf("Cost = %d, want 600", got)
	}
	if got := (TextureStat{}).Mean(); got != [3]uint8{} {
		t.Errorf("empty Mean = %v", got)
	}
}

func TestTextureSetMatch(t *testing.T) {
	set := NewTextureSet([]*Texture{
		uniformTexture("light.png", 2, 2, [3]uint8{200, 200, 200}),
		uniformTexture("dark.png", 2, 2, [3]uint8{10, 10, 10}),
		uniformTexture("red.png", 3, 1, [3]uint8{220, 0, 0}),
	})
	tests := []struct {
		name string
		px   [3]uint8
		want int16
	}{
		{"exact light", [3]uint8{200, 200, 200}, 0},
		{"near dark", [3]uint8{12, 12, 12}, 1},
		{"reddish", [3]uint8{180, 30, 20}, 2},
		{"grey", [3]uint8{150, 150, 150}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Match(tt.px); got != tt.want {
				t.Errorf("Match(%v) = %d, want %d", tt.px, got, tt.want)
			}
		})
	}
	if set.Len() != 3 || set.Names[2] != "red.png" {
		t.Errorf("unexpected set %v", set.Names)
	}
}

func TestTextureSetTie(t *testing.T) {
	c := [3]uint8{50, 60, 70}
	set := NewTextureSet([]*Texture{uniformTexture("a.png", 1, 1, c), uniformTexture("b.png", 1, 1, c)})
	if got := set.Match(c); got != 0 {
		t.Errorf("tie resolved to %d, want 0", got)
	}
	if got := NewTextureSet(nil).Match(c); got != NoTexture {
		t.Errorf("empty set matched %d", got)
	}
}

func TestUVMapping(t *testing.T) {
	m := &Model{TexCoords: []vec2.T{{0.1, 0.2}, {0.5, 0.2}, {0.1, 0.6}}}
	u := NewUVMapping(m, Face{0, 1, 2})
	tests := []struct {
		w1, w2 float32
		want   vec2.T
	}{
		{0, 0, vec2.T{0.1, 0.2}},
		{1, 0, vec2.T{0.5, 0.2}},
		{0, 1, vec2.T{0.1, 0.6}},
		{0.5, 0.5, vec2.T{0.3, 0.4}},
	}
	for _, tt := range tests {
		got := u.At(tt.w1, tt.w2)
		if math.Abs(float64(got[0]-tt.want[0])) > 1e-6 || math.Abs(float64(got[1]-tt.want[1])) > 1e-6 {
			t.Errorf("At(%v, %v) = %v, want %v", tt.w1, tt.w2, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	atlas := NewTexture("atlas.png", 4, 4)
	atlas.Fill([3]uint8{200, 200, 200})
	for y := 0; y < 4; y++ {
		for x := 2; x < 4; x++ {
			atlas.Set(x, y, [3]uint8{10, 10, 10})
		}
	}
	set := NewTextureSet([]*Texture{
		uniformTexture("light.png", 2, 2, [3]uint8{200, 200, 200}),
		uniformTexture("dark.png", 2, 2, [3]uint8{10, 10, 10}),
	})
	tests := []struct {
		name    string
		mapping UVMapping
		want    int16
	}{
		{"left half", UVMapping{Origin: vec2.T{0.1, 0.1}}, 0},
		{"right half", UVMapping{Origin: vec2.T{0.6, 0.9}}, 1},
		{"pixel edge", UVMapping{Origin: vec2.T{0.5, 0}}, 1},
		{"u past atlas", UVMapping{Origin: vec2.T{1, 0.5}}, NoTexture},
		{"negative v", UVMapping{Origin: vec2.T{0.5, -0.1}}, NoTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Classifier{Atlas: atlas, Set: set, Mapping: tt.mapping}
			if got := c.Classify(0, 0); got != tt.want {
				t.Errorf("Classify = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTextureSetMatchMeanDistance(t *testing.T) {
	striped := NewTexture("striped.png", 1000, 1)
	for x := 0; x < 1000; x++ {
		v := uint8(150)
		if x%2 == 1 {
			v = 250
		}
		striped.Set(x, 0, [3]uint8{v, v, v})
	}
	tests := []struct {
		name string
		texs []*Texture
		px   [3]uint8
		want int16
	}{
		{"exact mean of large noisy texture", []*Texture{
			uniformTexture("dark.png", 1, 1, [3]uint8{10, 10, 10}),
			striped,
		}, [3]uint8{200, 200, 200}, 1},
		{"large texture listed first", []*Texture{
			striped,
			uniformTexture("dark.png", 1, 1, [3]uint8{10, 10, 10}),
		}, [3]uint8{200, 200, 200}, 0},
		{"small uniform texture still wins near its colour", []*Texture{
			striped,
			uniformTexture("dark.png", 1, 1, [3]uint8{10, 10, 10}),
		}, [3]uint8{20, 20, 20}, 1},
		{"size alone does not decide", []*Texture{
			uniformTexture("big.png", 64, 64, [3]uint8{100, 100, 100}),
			uniformTexture("tiny.png", 1, 1, [3]uint8{110, 110, 110}),
		}, [3]uint8{108, 108, 108}, 1},
		{"empty texture skipped", []*Texture{
			NewTexture("empty.png", 0, 0),
			uniformTexture("dark.png", 1, 1, [3]uint8{10, 10, 10}),
		}, [3]uint8{0, 0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTextureSet(tt.texs).Match(tt.px); got != tt.want {
				t.Errorf("Match(%v) = %d, want %d", tt.px, got, tt.want)
			}
		})
	}
}

func TestLessMean(t *testing.T) {
	tests := []struct {
		costA, countA, costB, countB int64
		want                         bool
	}{
		{1, 1, 2, 1, true},
		{2, 1, 1, 1, false},
		{7500000, 1000, 108300, 1, true},
		{10, 2, 5, 1, false},
		{math.MaxInt64, math.MaxInt64 / 2, math.MaxInt64 / 2, math.MaxInt64 / 4, true},
		{math.MaxInt64 / 3, math.MaxInt64, 1, 2, true},
	}
	for _, tt := range tests {
		if got := lessMean(tt.costA, tt.countA, tt.costB, tt.countB); got != tt.want {
			t.Errorf("lessMean(%d/%d < %d/%d) = %v, want %v", tt.costA, tt.countA, tt.costB, tt.countB, got, tt.want)
		}
	}
}
