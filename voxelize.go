package voxel

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"go.uber.org/zap"
)

// Options tunes Voxelize. A nil *Options is valid.
type Options struct {
	// Textures enables classification when the model also has UVs and an atlas.
	Textures *TextureSet
	// PerFaceUV samples each face through its own UV face instead of the
	// first UV face of the model.
	PerFaceUV bool
	Logger    *zap.Logger
}

type span struct {
	Min, Max int
}

// makeRange turns [min, max] into the inclusive sample range at resolution.
// Samples at or past limit can never land inside the grid and are cut off.
func makeRange(min, max, resolution float32, limit int) span {
	lo := math.Round(float64(min * resolution))
	hi := math.Round(float64(max*resolution)) + 1
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return span{}
	}
	if lo < 0 {
		lo = 0
	}
	if hi > float64(limit) {
		hi = float64(limit)
	}
	if hi < lo {
		hi = lo
	}
	return span{Min: int(lo), Max: int(hi)}
}

func boundsToRange(bounds vec3.Box, resolution float32, dims Dims) (span, span, span) {
	limit := func(n int) int {
		return int(math.Ceil(float64(n)*float64(resolution))) + 1
	}
	return makeRange(bounds.Min[0], bounds.Max[0], resolution, limit(dims.X)),
		makeRange(bounds.Min[1], bounds.Max[1], resolution, limit(dims.Y)),
		makeRange(bounds.Min[2], bounds.Max[2], resolution, limit(dims.Z))
}

// roundCell rounds half away from zero; values far outside any grid map to -1.
func roundCell(v float32) int {
	r := math.Round(float64(v))
	if math.IsNaN(r) || r < 0 || r > math.MaxInt32 {
		return -1
	}
	return int(r)
}

func checkResolution(resolution float32) error {
	r := float64(resolution)
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, resolution)
	}
	return nil
}

func checkTriangles(m *Model) error {
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d: %w", i, ErrInvalidFace)
		}
		if len(f) > 3 {
			return fmt.Errorf("face %d has %d vertices: %w", i, len(f), ErrUnsupportedPolygon)
		}
	}
	return checkFaces(m.Faces, len(m.Vertices))
}

func checkUvFaces(m *Model) error {
	for i, f := range m.UvFaces {
		if len(f) < 3 {
			return fmt.Errorf("uv face %d: %w", i, ErrInvalidFace)
		}
	}
	return checkFaces(m.UvFaces, len(m.TexCoords))
}

// Voxelize rasterises every triangle of m into a new grid of size dims.
// resolution is the number of samples per unit length; it oversamples the
// surface without changing the grid size. Either the whole model is
// converted or an error is returned.
func Voxelize(m *Model, dims Dims, resolution float32, opts *Options) (*Grid, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := checkResolution(resolution); err != nil {
		return nil, err
	}
	if !dims.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDims, dims)
	}
	if len(m.Vertices) == 0 {
		return nil, ErrEmptyModel
	}
	if err := checkTriangles(m); err != nil {
		return nil, err
	}

	classify := opts.Textures != nil && opts.Textures.Len() > 0 && m.HasTexture()
	empty := EmptyBlock
	var cls *Classifier
	if classify {
		if err := checkUvFaces(m); err != nil {
			return nil, err
		}
		if opts.PerFaceUV && len(m.UvFaces) != len(m.Faces) {
			return nil, fmt.Errorf("%w: %d uv faces for %d faces", ErrInvalidMesh, len(m.UvFaces), len(m.Faces))
		}
		empty = NoTexture
		cls = &Classifier{Atlas: m.Texture, Set: opts.Textures, Mapping: NewUVMapping(m, m.UvFaces[0])}
	}

	grid := NewGrid(dims, resolution, empty)
	var samples, writes, skipped int

	for i, face := range m.Faces {
		plane := NewTrianglePlane(m, face[0], face[1], face[2])
		if cls != nil && opts.PerFaceUV {
			cls.Mapping = NewUVMapping(m, m.UvFaces[i])
		}

		xr, yr, zr := boundsToRange(plane.Bounds(), resolution, dims)
		fillsZ := plane.FillsZ()
		for x := xr.Min; x < xr.Max; x++ {
			for y := yr.Min; y < yr.Max; y++ {
				samples++
				p := vec2.T{float32(x) / resolution, float32(y) / resolution}
				w1, w2 := plane.Weights(p)
				if !Inside(w1, w2) {
					continue
				}
				cx := int(float32(x) / resolution)
				cy := int(float32(y) / resolution)

				block := DefaultBlock
				if cls != nil {
					block = cls.Classify(w1, w2)
				}

				if fillsZ {
					for z := zr.Min; z < zr.Max; z++ {
						if grid.clampVoxelWrite(cx, cy, roundCell(float32(z)/resolution), block) {
							writes++
						} else {
							skipped++
						}
					}
				} else {
					if grid.clampVoxelWrite(cx, cy, roundCell(plane.DepthAt(p)), block) {
						writes++
					} else {
						skipped++
					}
				}
			}
		}
	}

	log.Debug("voxelized model",
		zap.Int("faces", len(m.Faces)),
		zap.Stringer("dims", dims),
		zap.Float32("resolution", resolution),
		zap.Bool("textured", classify),
		zap.Int("samples", samples),
		zap.Int("writes", writes),
		zap.Int("skipped", skipped),
	)
	return grid, nil
}
