package voxel

import (
	"math"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// TrianglePlane is the plane through one face, N·P = K for every P on it.
// The corners are kept as indices into Model.Vertices.
type TrianglePlane struct {
	A, B, C uint32
	N       vec3.T
	K       float32

	vertices []vec3.T
}

func NewTrianglePlane(m *Model, a, b, c uint32) *TrianglePlane {
	p := &TrianglePlane{A: a, B: b, C: c, vertices: m.Vertices}
	pa, pb, pc := p.Corners()
	ab := vec3.Sub(&pa, &pb)
	ac := vec3.Sub(&pa, &pc)
	p.N = vec3.Cross(&ab, &ac)
	p.K = vec3.Dot(&p.N, &pa)
	return p
}

func (p *TrianglePlane) Corners() (vec3.T, vec3.T, vec3.T) {
	return p.vertices[p.A], p.vertices[p.B], p.vertices[p.C]
}

// FillsZ reports a plane parallel to Z: it has no single depth per (x, y).
func (p *TrianglePlane) FillsZ() bool {
	return p.N[2] == 0
}

// Weights expresses pt as A + w1*(B-A) + w2*(C-A) on the X/Y plane.
func (p *TrianglePlane) Weights(pt vec2.T) (float32, float32) {
	a, b, c := p.Corners()
	s0 := c[1] - a[1]
	s1 := pt[1] - a[1]
	s2 := c[0] - a[0]
	s3 := b[1] - a[1]

	w1 := resolveDegenerateWeight((a[0]*s0 + s1*s2 - pt[0]*s0) / (s3*s2 - (b[0]-a[0])*s0))
	w2 := resolveDegenerateWeight((s1 - w1*s3) / s0)
	return w1, w2
}

// resolveDegenerateWeight maps the 0/0 of an axis-degenerate triangle to 0.
// Infinities are kept, they fall outside the triangle.
func resolveDegenerateWeight(w float32) float32 {
	if math.IsNaN(float64(w)) {
		return 0
	}
	return w
}

// Inside includes the edges so adjacent triangles leave no gap.
func Inside(w1, w2 float32) bool {
	return w1 >= 0 && w2 >= 0 && w1+w2 <= 1
}

// DepthAt solves the plane equation for z. Only meaningful when !FillsZ().
func (p *TrianglePlane) DepthAt(pt vec2.T) float32 {
	return (p.K - p.N[0]*pt[0] - p.N[1]*pt[1]) / p.N[2]
}

func (p *TrianglePlane) Bounds() vec3.Box {
	a, b, c := p.Corners()
	min := vec3.Min(&a, &b)
	max := vec3.Max(&a, &b)
	return vec3.Box{Min: vec3.Min(&min, &c), Max: vec3.Max(&max, &c)}
}
