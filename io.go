package voxel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

func toLittleByteOrder(v interface{}) []byte {
	var buf []byte
	b := bytes.NewBuffer(buf)
	e := binary.Write(b, binary.LittleEndian, v)
	if e != nil {
		return nil
	}
	return b.Bytes()
}

func writeLittleByte(wt io.Writer, v interface{}) error {
	buf := toLittleByteOrder(v)
	if buf == nil {
		return fmt.Errorf("cannot encode %T", v)
	}
	_, err := wt.Write(buf)
	return err
}

func readLittleByte(rd io.Reader, v interface{}) error {
	return binary.Read(rd, binary.LittleEndian, v)
}

const maxGridCells = 1 << 30

// GridMarshal writes the binary grid: signature, version, dims, resolution,
// empty sentinel, then every cell in buffer order.
func GridMarshal(wt io.Writer, g *Grid) error {
	if _, err := wt.Write([]byte(GRID_SIGNATURE)); err != nil {
		return err
	}
	hdr := []interface{}{
		V1,
		[3]uint32{uint32(g.Dims.X), uint32(g.Dims.Y), uint32(g.Dims.Z)},
		g.Resolution,
		g.Empty,
	}
	for _, v := range hdr {
		if err := writeLittleByte(wt, v); err != nil {
			return err
		}
	}
	return writeLittleByte(wt, g.Blocks)
}

func GridUnMarshal(rd io.Reader) (*Grid, error) {
	sig := make([]byte, len(GRID_SIGNATURE))
	if _, err := io.ReadFull(rd, sig); err != nil {
		return nil, err
	}
	if string(sig) != GRID_SIGNATURE {
		return nil, fmt.Errorf("%w: bad signature %q", ErrInvalidGrid, sig)
	}
	var version uint32
	if err := readLittleByte(rd, &version); err != nil {
		return nil, err
	}
	if version != V1 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidGrid, version)
	}
	var dims [3]uint32
	var resolution float32
	var empty int16
	if err := readLittleByte(rd, &dims); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, &resolution); err != nil {
		return nil, err
	}
	if err := readLittleByte(rd, &empty); err != nil {
		return nil, err
	}
	d := Dims{X: int(dims[0]), Y: int(dims[1]), Z: int(dims[2])}
	cells := uint64(1)
	for _, n := range dims {
		if cells *= uint64(n); cells > maxGridCells {
			return nil, fmt.Errorf("%w: %s exceeds %d cells", ErrInvalidGrid, d, maxGridCells)
		}
	}
	g := NewGrid(d, resolution, empty)
	if err := readLittleByte(rd, g.Blocks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	return g, nil
}
