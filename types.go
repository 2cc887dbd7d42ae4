package voxel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flywave/go3d/vec3"
)

const GRID_SIGNATURE string = "fwvx"
const GRIDEXT string = ".vxg"
const JSONEXT string = ".json"
const V1 uint32 = 1

const (
	// EmptyBlock marks an unfilled cell when no texture classification runs.
	EmptyBlock int16 = 0
	// DefaultBlock is written for filled cells when no texture classification runs.
	DefaultBlock int16 = -1
	// NoTexture marks both "empty" and "no material determined" when textures are active.
	NoTexture int16 = -1
)

var (
	ErrEmptyModel         = errors.New("model has no vertices")
	ErrInvalidFace        = errors.New("invalid face: fewer than 3 indices")
	ErrUnsupportedPolygon = errors.New("unsupported polygon: only triangles are supported")
	ErrIndexOutOfRange    = errors.New("face index out of range")
	ErrInvalidResolution  = errors.New("resolution must be a positive finite number")
	ErrInvalidDims        = errors.New("grid dimensions must be positive")
	ErrInvalidMesh        = errors.New("invalid mesh arrays")
	ErrUnknownFormat      = errors.New("unknown format")
	ErrInvalidGrid        = errors.New("invalid grid data")
)

// Face holds vertex (or texture coordinate) indices of one polygon.
type Face []uint32

// Dims is the size of a voxel grid along each axis.
type Dims struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

func (d Dims) Valid() bool {
	return d.X > 0 && d.Y > 0 && d.Z > 0
}

func (d Dims) Volume() int {
	return d.X * d.Y * d.Z
}

// Extent is the coordinate of the last cell on each axis. A model
// normalised into it keeps its far faces inside the grid.
func (d Dims) Extent() vec3.T {
	return vec3.T{float32(d.X - 1), float32(d.Y - 1), float32(d.Z - 1)}
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisOrder is the sequence in which the per-axis rotations are applied.
type AxisOrder int

const (
	OrderXYZ AxisOrder = iota
	OrderYXZ
	OrderXZY
	OrderYZX
	OrderZXY
	OrderZYX
)

var axisOrderNames = [...]string{"XYZ", "YXZ", "XZY", "YZX", "ZXY", "ZYX"}

// Axes returns the rotation sequence for the order.
func (o AxisOrder) Axes() [3]Axis {
	switch o {
	case OrderYXZ:
		return [3]Axis{AxisY, AxisX, AxisZ}
	case OrderXZY:
		return [3]Axis{AxisX, AxisZ, AxisY}
	case OrderYZX:
		return [3]Axis{AxisY, AxisZ, AxisX}
	case OrderZXY:
		return [3]Axis{AxisZ, AxisX, AxisY}
	case OrderZYX:
		return [3]Axis{AxisZ, AxisY, AxisX}
	default:
		return [3]Axis{AxisX, AxisY, AxisZ}
	}
}

func (o AxisOrder) String() string {
	if o < 0 || int(o) >= len(axisOrderNames) {
		return fmt.Sprintf("AxisOrder(%d)", int(o))
	}
	return axisOrderNames[o]
}

// ParseAxisOrder accepts names like "xyz" or "ZYX".
func ParseAxisOrder(s string) (AxisOrder, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range axisOrderNames {
		if n == up {
			return AxisOrder(i), nil
		}
	}
	return OrderXYZ, fmt.Errorf("unknown axis order %q", s)
}
