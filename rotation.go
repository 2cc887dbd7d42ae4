package voxel

import (
	"math"

	"github.com/flywave/go3d/vec3"
)

// RotationMatrix is a row-major 3x3 matrix.
type RotationMatrix [3][3]float32

func RotationX(theta float32) RotationMatrix {
	c, s := cosSin(theta)
	return RotationMatrix{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

func RotationY(theta float32) RotationMatrix {
	c, s := cosSin(theta)
	return RotationMatrix{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

func RotationZ(theta float32) RotationMatrix {
	c, s := cosSin(theta)
	return RotationMatrix{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

// RotationFor returns the rotation about a single axis.
func RotationFor(axis Axis, theta float32) RotationMatrix {
	switch axis {
	case AxisY:
		return RotationY(theta)
	case AxisZ:
		return RotationZ(theta)
	default:
		return RotationX(theta)
	}
}

func (m *RotationMatrix) Apply(v *vec3.T) vec3.T {
	return vec3.T{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func cosSin(theta float32) (float32, float32) {
	s, c := math.Sincos(float64(theta))
	return float32(c), float32(s)
}

// Deg2Rad converts a vector of degrees to radians.
func Deg2Rad(deg vec3.T) vec3.T {
	const f = math.Pi / 180
	return vec3.T{deg[0] * f, deg[1] * f, deg[2] * f}
}
