package voxel

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/udhos/gwob"
	"go.uber.org/zap"
)

// objFace is a face line as written, before gwob triangulates it.
type objFace struct {
	arity    int
	textured bool
}

// objCensus walks the face lines of an OBJ file. gwob fans polygons into
// triangles and merges v/vt pairs into single vertices, so face arity, index
// ranges and texcoord use are taken from the source text.
type objCensus struct {
	vertices  int
	texcoords int
	normals   int
	faces     []objFace
	textured  int
}

func LoadObjModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadObj(f, filepath.Dir(path))
}

// ReadObj parses an OBJ stream. The mtllib is resolved against dir and the
// diffuse map of the first used material becomes the model atlas. An empty
// dir skips materials.
func ReadObj(rd io.Reader, dir string) (*Model, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	c := &objCensus{}
	if err := c.scan(data); err != nil {
		return nil, err
	}
	if len(c.faces) == 0 {
		return nil, fmt.Errorf("%w: obj has no faces", ErrEmptyModel)
	}
	if c.textured > 0 && c.textured != len(c.faces) {
		return nil, fmt.Errorf("%w: %d of %d faces carry texcoords", ErrInvalidMesh, c.textured, len(c.faces))
	}

	opts := objParserOptions()
	o, err := gwob.NewObjFromBuf("obj", data, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
	m, err := c.model(o)
	if err != nil {
		return nil, err
	}
	if dir == "" || o.Mtllib == "" {
		return m, nil
	}
	tex, err := loadObjAtlas(o, dir, opts)
	if err != nil {
		return nil, err
	}
	m.Texture = tex
	return m, nil
}

func objParserOptions() *gwob.ObjParserOptions {
	log := zap.L().Named("obj")
	return &gwob.ObjParserOptions{
		Logger: func(msg string) { log.Debug(msg) },
	}
}

func (c *objCensus) scan(data []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			c.vertices++
		case "vt":
			c.texcoords++
		case "vn":
			c.normals++
		case "f":
			err = c.face(fields[1:])
		}
		if err != nil {
			return fmt.Errorf("obj line %d: %w", line, err)
		}
	}
	return sc.Err()
}

// resolveIndex turns a 1-based or negative OBJ index into a 0-based one.
func resolveIndex(s string, count int) (uint32, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
	if i < 0 {
		i += count
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrIndexOutOfRange, s, count)
	}
	return uint32(i), nil
}

func (c *objCensus) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: %d vertices", ErrInvalidFace, len(refs))
	}
	uv := 0
	for _, ref := range refs {
		parts := strings.Split(ref, "/")
		if _, err := resolveIndex(parts[0], c.vertices); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if _, err := resolveIndex(parts[1], c.texcoords); err != nil {
				return err
			}
			uv++
		}
		if len(parts) > 2 && parts[2] != "" {
			if _, err := resolveIndex(parts[2], c.normals); err != nil {
				return err
			}
		}
	}
	if uv != 0 && uv != len(refs) {
		return fmt.Errorf("%w: face mixes vertices with and without texcoords", ErrInvalidFace)
	}
	if uv != 0 {
		c.textured++
	}
	c.faces = append(c.faces, objFace{arity: len(refs), textured: uv != 0})
	return nil
}

// model rebuilds one Face per source face from gwob's triangle fans. UV faces
// share the vertex indices since gwob keeps position and texcoord together.
func (c *objCensus) model(o *gwob.Obj) (*Model, error) {
	if c.textured > 0 && !o.TextCoordFound {
		return nil, fmt.Errorf("%w: texcoords lost while parsing", ErrInvalidMesh)
	}
	stride := o.StrideSize / 4
	if stride < 3 {
		return nil, fmt.Errorf("%w: stride %d", ErrInvalidMesh, o.StrideSize)
	}
	pos := o.StrideOffsetPosition / 4
	tex := o.StrideOffsetTexture / 4

	m := &Model{}
	for i := 0; i+stride <= len(o.Coord); i += stride {
		m.Vertices = append(m.Vertices, vec3.T{o.Coord[i+pos], o.Coord[i+pos+1], o.Coord[i+pos+2]})
		if c.textured > 0 {
			m.TexCoords = append(m.TexCoords, vec2.T{o.Coord[i+tex], 1 - o.Coord[i+tex+1]})
		}
	}

	next := 0
	for _, f := range c.faces {
		tris := 3 * (f.arity - 2)
		if next+tris > len(o.Indices) {
			return nil, fmt.Errorf("%w: %d triangle indices for %d faces", ErrInvalidMesh, len(o.Indices), len(c.faces))
		}
		fan := o.Indices[next : next+tris]
		face := Face{uint32(fan[0]), uint32(fan[1]), uint32(fan[2])}
		for k := 1; k < f.arity-2; k++ {
			face = append(face, uint32(fan[3*k+2]))
		}
		m.Faces = append(m.Faces, face)
		next += tris
	}
	if next != len(o.Indices) {
		return nil, fmt.Errorf("%w: %d triangle indices for %d faces", ErrInvalidMesh, len(o.Indices), len(c.faces))
	}
	if c.textured > 0 {
		m.UvFaces = make([]Face, len(m.Faces))
		for i, f := range m.Faces {
			m.UvFaces[i] = append(Face(nil), f...)
		}
	}
	return m, nil
}

// loadObjAtlas decodes the diffuse map of the first group whose material has
// one. Options before the map_Kd file name are skipped.
func loadObjAtlas(o *gwob.Obj, dir string, opts *gwob.ObjParserOptions) (*Texture, error) {
	lib, err := gwob.ReadMaterialLibFromFile(filepath.Join(dir, o.Mtllib), opts)
	if err != nil {
		return nil, fmt.Errorf("material library %s: %w", o.Mtllib, err)
	}
	for _, g := range o.Groups {
		mtl, ok := lib.Lib[g.Usemtl]
		if !ok || mtl.MapKd == "" {
			continue
		}
		fields := strings.Fields(mtl.MapKd)
		file := fields[len(fields)-1]
		tex, err := CreateTexture(filepath.Join(dir, filepath.FromSlash(file)))
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", g.Usemtl, err)
		}
		return tex, nil
	}
	return nil, nil
}
