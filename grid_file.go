package voxel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressNone = ""
	CompressGzip = ".gz"
	CompressZstd = ".zst"
)

// splitGridPath returns the grid format extension and the compression suffix.
func splitGridPath(path string) (string, string) {
	comp := CompressNone
	ext := strings.ToLower(filepath.Ext(path))
	if ext == CompressGzip || ext == CompressZstd {
		comp = ext
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	return ext, comp
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressWriter(wt io.Writer, comp string) (io.WriteCloser, error) {
	switch comp {
	case CompressGzip:
		return gzip.NewWriter(wt), nil
	case CompressZstd:
		return zstd.NewWriter(wt)
	default:
		return nopWriteCloser{wt}, nil
	}
}

func decompressReader(rd io.Reader, comp string) (io.ReadCloser, error) {
	switch comp {
	case CompressGzip:
		return gzip.NewReader(rd)
	case CompressZstd:
		dec, err := zstd.NewReader(rd)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(rd), nil
	}
}

// WriteGrid encodes g as JSON (ext ".json") or binary (ext ".vxg").
func WriteGrid(wt io.Writer, g *Grid, ext string) error {
	switch ext {
	case JSONEXT:
		data, err := g.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = wt.Write(data)
		return err
	case GRIDEXT:
		return GridMarshal(wt, g)
	default:
		return fmt.Errorf("%w: grid extension %q", ErrUnknownFormat, ext)
	}
}

// WriteGridFile picks the format from the file extension; a trailing ".gz"
// or ".zst" compresses the output.
func WriteGridFile(path string, g *Grid) error {
	ext, comp := splitGridPath(path)
	if ext != JSONEXT && ext != GRIDEXT {
		return fmt.Errorf("%w: grid extension %q", ErrUnknownFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	cw, err := compressWriter(bw, comp)
	if err != nil {
		return err
	}
	if err := WriteGrid(cw, g, ext); err != nil {
		cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadGridFile is the inverse of WriteGridFile. JSON grids carry no
// resolution or sentinel; they come back with resolution 1 and empty.
func ReadGridFile(path string, empty int16) (*Grid, error) {
	ext, comp := splitGridPath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd, err := decompressReader(bufio.NewReader(f), comp)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	switch ext {
	case JSONEXT:
		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, err
		}
		return UnmarshalGridJSON(data, 1, empty)
	case GRIDEXT:
		return GridUnMarshal(rd)
	default:
		return nil, fmt.Errorf("%w: grid extension %q", ErrUnknownFormat, ext)
	}
}
