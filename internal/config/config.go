// Package config holds the mesh2vox conversion settings.
package config

// Config holds every conversion setting. Command-line flags override it.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Transform TransformConfig `yaml:"transform"`
	Textures  TextureConfig   `yaml:"textures"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GridConfig is the grid size in cells and the sampling density.
type GridConfig struct {
	X          int     `yaml:"x" validate:"min=1,max=4096"`
	Y          int     `yaml:"y" validate:"min=1,max=4096"`
	Z          int     `yaml:"z" validate:"min=1,max=4096"`
	Resolution float32 `yaml:"resolution" validate:"gt=0,lte=64"`
}

// TransformConfig is applied to the model before voxelization.
type TransformConfig struct {
	Rotation  [3]float32 `yaml:"rotation"` // degrees about X, Y, Z
	Order     string     `yaml:"order" validate:"oneof=xyz xzy yxz yzx zxy zyx XYZ XZY YXZ YZX ZXY ZYX"`
	Normalize bool       `yaml:"normalize"`
}

type TextureConfig struct {
	Dir       string `yaml:"dir"`
	PerFaceUV bool   `yaml:"per_face_uv"`
}

type OutputConfig struct {
	Path    string `yaml:"path"`
	Names   string `yaml:"names"`   // texture name table
	Preview string `yaml:"preview"` // .glb preview
}

type LoggingConfig struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Grid: GridConfig{
			X:          64,
			Y:          64,
			Z:          64,
			Resolution: 1,
		},
		Transform: TransformConfig{
			Order:     "xyz",
			Normalize: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
