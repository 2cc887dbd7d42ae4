package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flywave/go3d/vec3"
	"go.uber.org/zap"

	voxel "github.com/flywave/go-voxel"
	"github.com/flywave/go-voxel/internal/config"
	"github.com/flywave/go-voxel/internal/logger"
)

func loadModel(path string) (*voxel.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return voxel.LoadObjModel(path)
	case ".gltf", ".glb":
		return voxel.LoadGltfModel(path)
	default:
		return nil, fmt.Errorf("%w: model %s", voxel.ErrUnknownFormat, path)
	}
}

func loadTextureSet(dir string) (*voxel.TextureSet, error) {
	if dir == "" {
		return nil, nil
	}
	texs, err := voxel.LoadTextureDir(dir)
	if err != nil {
		return nil, err
	}
	logger.Sugar.Debugf("loaded %d block textures from %s", len(texs), dir)
	return voxel.NewTextureSet(texs), nil
}

// prepareModel rotates the model, then fits it into the grid cells when asked.
func prepareModel(m *voxel.Model, cfg *config.Config) error {
	order, err := cfg.AxisOrder()
	if err != nil {
		return err
	}
	if cfg.Transform.Rotation != [3]float32{} {
		m.Rotate(voxel.Deg2Rad(vec3.T(cfg.Transform.Rotation)), order)
	}
	if cfg.Transform.Normalize {
		if err := m.Normalize(cfg.Dims().Extent()); err != nil {
			return err
		}
	}
	return nil
}

type conversion struct {
	Grid     *voxel.Grid
	Textures *voxel.TextureSet
}

func convertModel(cfg *config.Config, input string) (*conversion, error) {
	m, err := loadModel(input)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded model",
		zap.String("model", input),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
		zap.Bool("atlas", m.HasTexture()),
	)
	if err := prepareModel(m, cfg); err != nil {
		return nil, err
	}
	set, err := loadTextureSet(cfg.Textures.Dir)
	if err != nil {
		return nil, err
	}
	if set != nil && !m.HasTexture() {
		logger.Warn("model has no texture atlas, blocks will not be classified", zap.String("model", input))
	}
	g, err := voxel.Voxelize(m, cfg.Dims(), cfg.Grid.Resolution, &voxel.Options{
		Textures:  set,
		PerFaceUV: cfg.Textures.PerFaceUV,
		Logger:    logger.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("voxelizing %s: %w", input, err)
	}
	return &conversion{Grid: g, Textures: set}, nil
}

// writeOutputs stores the grid, the name table and the preview. Without an
// output path the JSON grid goes to out.
func writeOutputs(cfg *config.Config, c *conversion, out io.Writer) error {
	if cfg.Output.Path == "" {
		if err := voxel.WriteGrid(out, c.Grid, voxel.JSONEXT); err != nil {
			return err
		}
	} else if err := voxel.WriteGridFile(cfg.Output.Path, c.Grid); err != nil {
		return err
	}

	if cfg.Output.Names != "" && c.Textures != nil {
		f, err := os.Create(cfg.Output.Names)
		if err != nil {
			return err
		}
		if err := voxel.WriteNameTable(f, c.Textures.Names); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if cfg.Output.Preview != "" {
		doc, err := voxel.GridToGltf(c.Grid, voxel.PaletteFromTextures(c.Textures))
		if err != nil {
			return err
		}
		if err := voxel.WriteGltfFile(cfg.Output.Preview, doc); err != nil {
			return err
		}
	}
	return nil
}
