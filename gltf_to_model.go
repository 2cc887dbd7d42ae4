package voxel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

// GltfToModel merges every triangle primitive of a glTF document into one
// Model. Node transforms are not applied.
type GltfToModel struct {
	// Dir resolves relative image URIs.
	Dir string
}

func LoadGltfModel(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	g := &GltfToModel{Dir: filepath.Dir(path)}
	return g.Convert(doc)
}

func (g *GltfToModel) Convert(doc *gltf.Document) (*Model, error) {
	m := &Model{}
	for mi, mh := range doc.Meshes {
		for pi, ps := range mh.Primitives {
			if ps.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := g.transPrimitive(doc, m, ps); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	return m, nil
}

func (g *GltfToModel) transPrimitive(doc *gltf.Document, m *Model, ps *gltf.Primitive) error {
	posIdx, ok := ps.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("%w: primitive without POSITION", ErrInvalidMesh)
	}
	pos, err := readFloats(doc, doc.Accessors[int(posIdx)], 3)
	if err != nil {
		return err
	}
	base := uint32(len(m.Vertices))
	count := uint32(len(pos) / 3)
	for i := 0; i+2 < len(pos); i += 3 {
		m.Vertices = append(m.Vertices, vec3.T{pos[i], pos[i+1], pos[i+2]})
	}

	var indices []uint32
	if ps.Indices != nil {
		indices, err = readIndices(doc, doc.Accessors[int(*ps.Indices)])
		if err != nil {
			return err
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	faceStart := len(m.Faces)
	for f := 0; f+2 < len(indices); f += 3 {
		face := Face{base + indices[f], base + indices[f+1], base + indices[f+2]}
		m.Faces = append(m.Faces, face)
	}

	tcIdx, ok := ps.Attributes["TEXCOORD_0"]
	if !ok {
		if len(m.UvFaces) > 0 {
			alignUvFaces(m, len(m.Vertices), len(m.Faces))
		}
		return nil
	}
	tcs, err := readFloats(doc, doc.Accessors[int(tcIdx)], 2)
	if err != nil {
		return err
	}
	// glTF shares indices between positions and texcoords.
	alignUvFaces(m, int(base), faceStart)
	for i := 0; i+1 < len(tcs) && len(m.TexCoords) < len(m.Vertices); i += 2 {
		m.TexCoords = append(m.TexCoords, vec2.T{tcs[i], tcs[i+1]})
	}
	alignUvFaces(m, len(m.Vertices), faceStart)
	for f := faceStart; f < len(m.Faces); f++ {
		m.UvFaces = append(m.UvFaces, append(Face(nil), m.Faces[f]...))
	}
	if m.Texture == nil && ps.Material != nil {
		tex, err := g.transMaterial(doc, int(*ps.Material))
		if err != nil {
			return err
		}
		m.Texture = tex
	}
	return nil
}

func (g *GltfToModel) transMaterial(doc *gltf.Document, id int) (*Texture, error) {
	if id >= len(doc.Materials) {
		return nil, fmt.Errorf("%w: material %d", ErrIndexOutOfRange, id)
	}
	mt := doc.Materials[id]
	if mt.PBRMetallicRoughness == nil || mt.PBRMetallicRoughness.BaseColorTexture == nil {
		return nil, nil
	}
	texIdx := int(mt.PBRMetallicRoughness.BaseColorTexture.Index)
	if texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, nil
	}
	img := doc.Images[int(*doc.Textures[texIdx].Source)]
	var data []byte
	if img.BufferView != nil {
		view := doc.BufferViews[int(*img.BufferView)]
		buffer := doc.Buffers[int(view.Buffer)]
		start := int(view.ByteOffset)
		data = buffer.Data[start : start+int(view.ByteLength)]
	} else if img.URI != "" {
		var err error
		data, err = os.ReadFile(filepath.Join(g.Dir, img.URI))
		if err != nil {
			return nil, err
		}
	} else {
		return nil, nil
	}
	decoded, err := readImage(bytes.NewReader(data), "")
	if err != nil {
		return nil, fmt.Errorf("decoding base color texture: %w", err)
	}
	name := img.Name
	if name == "" {
		name = img.URI
	}
	tex := CreateTextureFromImage(decoded, name)
	tex.Id = int32(texIdx)
	return tex, nil
}

// outsideUV lies outside every atlas, so faces without texcoords classify
// as NoTexture.
var outsideUV = vec2.T{-1, -1}

// alignUvFaces pads TexCoords to vertices entries with outsideUV and gives
// every face before faces a UV face, keeping UvFaces parallel to Faces.
func alignUvFaces(m *Model, vertices, faces int) {
	for len(m.TexCoords) < vertices {
		m.TexCoords = append(m.TexCoords, outsideUV)
	}
	for f := len(m.UvFaces); f < faces; f++ {
		m.UvFaces = append(m.UvFaces, append(Face(nil), m.Faces[f]...))
	}
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	default:
		return 4
	}
}

// accessorData returns the bytes of every element and the stride between them.
func accessorData(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("%w: sparse or empty accessor", ErrInvalidMesh)
	}
	view := doc.BufferViews[int(*acc.BufferView)]
	buffer := doc.Buffers[int(view.Buffer)]
	stride := int(view.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(view.ByteOffset) + int(acc.ByteOffset)
	count := int(acc.Count)
	end := start
	if count > 0 {
		end = start + (count-1)*stride + elemSize
	}
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("%w: accessor exceeds buffer (%d > %d)", ErrInvalidMesh, end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

func readFloats(doc *gltf.Document, acc *gltf.Accessor, comps int) ([]float32, error) {
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: expected float components", ErrInvalidMesh)
	}
	data, stride, err := accessorData(doc, acc, 4*comps)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, int(acc.Count)*comps)
	for i := 0; i < int(acc.Count); i++ {
		off := i * stride
		for c := 0; c < comps; c++ {
			bits := binary.LittleEndian.Uint32(data[off+4*c:])
			out = append(out, math.Float32frombits(bits))
		}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, acc *gltf.Accessor) ([]uint32, error) {
	size := componentSize(acc.ComponentType)
	data, stride, err := accessorData(doc, acc, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, int(acc.Count))
	for i := range out {
		off := i * stride
		switch size {
		case 1:
			out[i] = uint32(data[off])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		default:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}
