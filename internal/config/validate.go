package config

import (
	"fmt"

	voxel "github.com/flywave/go-voxel"
	"github.com/go-playground/validator"
)

var validate = validator.New()

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Dims() voxel.Dims {
	return voxel.Dims{X: c.Grid.X, Y: c.Grid.Y, Z: c.Grid.Z}
}

func (c *Config) AxisOrder() (voxel.AxisOrder, error) {
	return voxel.ParseAxisOrder(c.Transform.Order)
}
