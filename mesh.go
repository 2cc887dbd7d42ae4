package voxel

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// Model is a triangulated mesh with an optional texture atlas.
type Model struct {
	Vertices  []vec3.T `json:"vertices"`
	Faces     []Face   `json:"faces"`
	TexCoords []vec2.T `json:"texCoords,omitempty"`
	UvFaces   []Face   `json:"uvFaces,omitempty"`
	Texture   *Texture `json:"-"`
}

// NewModel builds a model from a flat position array and a flat triangle
// index array.
func NewModel(positions []float32, indices []uint32) (*Model, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: position count %d is not a multiple of 3", ErrInvalidMesh, len(positions))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(indices))
	}
	m := &Model{
		Vertices: make([]vec3.T, len(positions)/3),
		Faces:    facesFromTriangles(indices),
	}
	for i := range m.Vertices {
		m.Vertices[i] = vec3.T{positions[3*i], positions[3*i+1], positions[3*i+2]}
	}
	if err := checkFaces(m.Faces, len(m.Vertices)); err != nil {
		return nil, err
	}
	return m, nil
}

// SetTexCoords attaches texture coordinates, their faces and the atlas image.
func (m *Model) SetTexCoords(uvs []float32, uvIndices []uint32, atlas *Texture) error {
	if len(uvs)%2 != 0 {
		return fmt.Errorf("%w: uv count %d is not a multiple of 2", ErrInvalidMesh, len(uvs))
	}
	if len(uvIndices)%3 != 0 {
		return fmt.Errorf("%w: uv index count %d is not a multiple of 3", ErrInvalidMesh, len(uvIndices))
	}
	tcs := make([]vec2.T, len(uvs)/2)
	for i := range tcs {
		tcs[i] = vec2.T{uvs[2*i], uvs[2*i+1]}
	}
	faces := facesFromTriangles(uvIndices)
	if err := checkFaces(faces, len(tcs)); err != nil {
		return err
	}
	m.TexCoords = tcs
	m.UvFaces = faces
	m.Texture = atlas
	return nil
}

// HasTexture reports whether the model carries everything texture sampling needs.
func (m *Model) HasTexture() bool {
	return m.Texture != nil && len(m.TexCoords) > 0 && len(m.UvFaces) > 0
}

func facesFromTriangles(indices []uint32) []Face {
	faces := make([]Face, len(indices)/3)
	for f := range faces {
		faces[f] = Face{indices[3*f], indices[3*f+1], indices[3*f+2]}
	}
	return faces
}

func checkFaces(faces []Face, count int) error {
	for i, f := range faces {
		for _, idx := range f {
			if int(idx) >= count {
				return fmt.Errorf("%w: face %d references %d, only %d available", ErrIndexOutOfRange, i, idx, count)
			}
		}
	}
	return nil
}

func (m *Model) Translate(v vec3.T) {
	for i := range m.Vertices {
		m.Vertices[i].Add(&v)
	}
}

// Rotate applies the X, Y and Z rotations (radians) in the given order.
func (m *Model) Rotate(angles vec3.T, order AxisOrder) {
	var mats [3]RotationMatrix
	for i, ax := range order.Axes() {
		mats[i] = RotationFor(ax, angles[ax])
	}
	for i := range m.Vertices {
		for j := range mats {
			m.Vertices[i] = mats[j].Apply(&m.Vertices[i])
		}
	}
}

func (m *Model) Scale(v vec3.T) {
	for i := range m.Vertices {
		m.Vertices[i] = vec3.Mul(&m.Vertices[i], &v)
	}
}

func (m *Model) BoundingBox() (vec3.Box, error) {
	if len(m.Vertices) == 0 {
		return vec3.Box{}, ErrEmptyModel
	}
	bbox := vec3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for i := range m.Vertices[1:] {
		v := &m.Vertices[i+1]
		bbox.Min = vec3.Min(&bbox.Min, v)
		bbox.Max = vec3.Max(&bbox.Max, v)
	}
	return bbox, nil
}

// ScaleToFit returns the per-axis factor that makes the model as large as box.
// An axis of zero extent yields +Inf.
func (m *Model) ScaleToFit(box vec3.T) (vec3.T, error) {
	bbox, err := m.BoundingBox()
	if err != nil {
		return vec3.T{}, err
	}
	size := vec3.Sub(&bbox.Max, &bbox.Min)
	var r vec3.T
	for i := range r {
		if size[i] == 0 {
			r[i] = float32(math.Inf(1))
			continue
		}
		r[i] = box[i] / size[i]
	}
	return r, nil
}

// FitScale is the uniform factor keeping the aspect ratio inside box.
func (m *Model) FitScale(box vec3.T) (float32, error) {
	r, err := m.ScaleToFit(box)
	if err != nil {
		return 0, err
	}
	return float32(math.Min(float64(r[0]), math.Min(float64(r[1]), float64(r[2])))), nil
}

// Normalize moves the minimum corner to the origin and scales the model
// uniformly into box.
func (m *Model) Normalize(box vec3.T) error {
	bbox, err := m.BoundingBox()
	if err != nil {
		return err
	}
	off := bbox.Min
	off.Scale(-1)
	m.Translate(off)
	s, err := m.FitScale(box)
	if err != nil {
		return err
	}
	if math.IsInf(float64(s), 0) {
		return nil
	}
	m.Scale(vec3.T{s, s, s})
	return nil
}
