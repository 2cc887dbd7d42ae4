package voxel

import (
	"errors"
	"math"
	"testing"

	"github.com/flywave/go3d/vec3"
)

func approxVec3(a, b vec3.T, eps float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

func TestNewModel(t *testing.T) {
	m, err := NewModel([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Errorf("Expected 3 vertices, got %d", len(m.Vertices))
	}
	if len(m.Faces) != 1 || len(m.Faces[0]) != 3 || m.Faces[0][2] != 2 {
		t.Errorf("Unexpected faces %v", m.Faces)
	}
	if m.Vertices[1] != (vec3.T{1, 0, 0}) {
		t.Errorf("Vertex 1 = %v, want (1,0,0)", m.Vertices[1])
	}
	if m.HasTexture() {
		t.Error("model without texcoords reports a texture")
	}
}

func TestNewModelErrors(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		indices   []uint32
		want      error
	}{
		{"short positions", []float32{0, 0, 0, 1}, []uint32{0, 0, 0}, ErrInvalidMesh},
		{"short indices", []float32{0, 0, 0}, []uint32{0, 0}, ErrInvalidMesh},
		{"index out of range", []float32{0, 0, 0, 1, 0, 0}, []uint32{0, 1, 2}, ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.positions, tt.indices)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetTexCoords(t *testing.T) {
	m, err := NewModel([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	atlas := NewTexture("atlas.png", 2, 2)

	if err := m.SetTexCoords([]float32{0, 0, 1}, []uint32{0, 0, 0}, atlas); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("odd uv count: got %v, want ErrInvalidMesh", err)
	}
	if err := m.SetTexCoords([]float32{0, 0, 1, 0}, []uint32{0, 1, 2}, atlas); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("uv index out of range: got %v, want ErrIndexOutOfRange", err)
	}
	if m.HasTexture() {
		t.Error("failed SetTexCoords left the model textured")
	}

	if err := m.SetTexCoords([]float32{0, 0, 1, 0, 0, 1}, []uint32{0, 1, 2}, atlas); err != nil {
		t.Fatalf("SetTexCoords: %v", err)
	}
	if !m.HasTexture() {
		t.Error("expected HasTexture after SetTexCoords")
	}
	if m.TexCoords[2][1] != 1 {
		t.Errorf("texcoord 2 = %v, want (0,1)", m.TexCoords[2])
	}
}

func TestBoundingBox(t *testing.T) {
	if _, err := (&Model{}).BoundingBox(); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("empty model: got %v, want ErrEmptyModel", err)
	}
	m := &Model{Vertices: []vec3.T{{1, -2, 3}, {-1, 5, 0}, {0, 0, 7}}}
	box, err := m.BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	if box.Min != (vec3.T{-1, -2, 0}) || box.Max != (vec3.T{1, 5, 7}) {
		t.Errorf("box = %v..%v", box.Min, box.Max)
	}
}

func TestTranslateScale(t *testing.T) {
	m := &Model{Vertices: []vec3.T{{1, 2, 3}}}
	m.Translate(vec3.T{1, -2, 0.5})
	if m.Vertices[0] != (vec3.T{2, 0, 3.5}) {
		t.Errorf("after Translate got %v", m.Vertices[0])
	}
	m.Scale(vec3.T{2, 3, 2})
	if m.Vertices[0] != (vec3.T{4, 0, 7}) {
		t.Errorf("after Scale got %v", m.Vertices[0])
	}
}

func TestRotateOrder(t *testing.T) {
	angles := Deg2Rad(vec3.T{90, 0, 90})
	tests := []struct {
		order AxisOrder
		want  vec3.T
	}{
		// X leaves (1,0,0) alone, then Z turns it onto Y.
		{OrderXYZ, vec3.T{0, 1, 0}},
		// Z turns it onto Y, then X turns Y onto Z.
		{OrderZYX, vec3.T{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			m := &Model{Vertices: []vec3.T{{1, 0, 0}}}
			m.Rotate(angles, tt.order)
			if !approxVec3(m.Vertices[0], tt.want, 1e-5) {
				t.Errorf("got %v, want %v", m.Vertices[0], tt.want)
			}
		})
	}
}

func TestScaleToFit(t *testing.T) {
	m := &Model{Vertices: []vec3.T{{0, 0, 0}, {2, 4, 0}}}
	r, err := m.ScaleToFit(vec3.T{10, 10, 10})
	if err != nil {
		t.Fatalf("ScaleToFit: %v", err)
	}
	if r[0] != 5 || r[1] != 2.5 || !math.IsInf(float64(r[2]), 1) {
		t.Errorf("ratios = %v, want (5, 2.5, +Inf)", r)
	}
	s, err := m.FitScale(vec3.T{10, 10, 10})
	if err != nil {
		t.Fatalf("FitScale: %v", err)
	}
	if s != 2.5 {
		t.Errorf("FitScale = %v, want 2.5", s)
	}
	if _, err := (&Model{}).FitScale(vec3.T{1, 1, 1}); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("empty model: got %v, want ErrEmptyModel", err)
	}
}

func TestNormalize(t *testing.T) {
	m := &Model{Vertices: []vec3.T{{1, 1, 1}, {3, 5, 1}}}
	if err := m.Normalize(vec3.T{10, 10, 10}); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.Vertices[0] != (vec3.T{0, 0, 0}) {
		t.Errorf("min corner = %v, want origin", m.Vertices[0])
	}
	if m.Vertices[1] != (vec3.T{5, 10, 0}) {
		t.Errorf("max corner = %v, want (5,10,0)", m.Vertices[1])
	}

	point := &Model{Vertices: []vec3.T{{4, 4, 4}}}
	if err := point.Normalize(vec3.T{10, 10, 10}); err != nil {
		t.Fatalf("Normalize single point: %v", err)
	}
	if point.Vertices[0] != (vec3.T{0, 0, 0}) {
		t.Errorf("single point = %v, want origin", point.Vertices[0])
	}
}

func TestRotationMatrices(t *testing.T) {
	half := float32(math.Pi / 2)
	tests := []struct {
		name string
		m    RotationMatrix
		in   vec3.T
		want vec3.T
	}{
		{"x", RotationX(half), vec3.T{0, 1, 0}, vec3.T{0, 0, 1}},
		{"y", RotationY(half), vec3.T{0, 0, 1}, vec3.T{1, 0, 0}},
		{"z", RotationZ(half), vec3.T{1, 0, 0}, vec3.T{0, 1, 0}},
		{"for z", RotationFor(AxisZ, half), vec3.T{0, 1, 0}, vec3.T{-1, 0, 0}},
		{"identity", RotationX(0), vec3.T{1, 2, 3}, vec3.T{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(&tt.in); !approxVec3(got, tt.want, 1e-6) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeg2Rad(t *testing.T) {
	got := Deg2Rad(vec3.T{180, 90, 0})
	want := vec3.T{math.Pi, math.Pi / 2, 0}
	if !approxVec3(got, want, 1e-6) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseAxisOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    AxisOrder
		wantErr bool
	}{
		{"xyz", OrderXYZ, false},
		{"ZYX", OrderZYX, false},
		{" yzx ", OrderYZX, false},
		{"xxy", OrderXYZ, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxisOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
	if OrderZXY.Axes() != [3]Axis{AxisZ, AxisX, AxisY} {
		t.Errorf("ZXY axes = %v", OrderZXY.Axes())
	}
}

func TestDims(t *testing.T) {
	d := Dims{X: 2, Y: 3, Z: 4}
	if !d.Valid() || d.Volume() != 24 || d.String() != "2x3x4" {
		t.Errorf("unexpected %v volume=%d valid=%v", d, d.Volume(), d.Valid())
	}
	if (Dims{X: 2, Y: 0, Z: 4}).Valid() {
		t.Error("zero axis reported valid")
	}
	if got := d.Extent(); got != (vec3.T{1, 2, 3}) {
		t.Errorf("Extent() = %v, want [1 2 3]", got)
	}
}
