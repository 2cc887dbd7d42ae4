package voxel

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/qmuntal/gltf"
)

const GLTF_VERSION = "2.0"

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = GLTF_VERSION
	srcIndex := uint32(0)
	doc.Scene = &srcIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

type calcSizeWriter struct {
	writer io.Writer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (n int, err error) {
	si := len(p)
	if _, err := w.writer.Write(p); err != nil {
		return 0, err
	}
	w.Size += si
	return si, nil
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newSizeWriter() *calcSizeWriter {
	return &calcSizeWriter{writer: bytes.NewBuffer([]byte{})}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

// GetGltfBinary encodes doc as GLB, padded with spaces to a multiple of
// paddingUnit.
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	pad := bytes.Repeat([]byte{0x20}, padding)
	if _, err := w.Write(pad); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func WriteGltfFile(path string, doc *gltf.Document) error {
	data, err := GetGltfBinary(doc, 4)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type cubeFace struct {
	dx, dy, dz int
	normal     [3]float32
	corners    [4][3]float32
}

// Corners wind counter-clockwise seen from outside the cube.
var cubeFaces = [6]cubeFace{
	{1, 0, 0, [3]float32{1, 0, 0}, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{-1, 0, 0, [3]float32{-1, 0, 0}, [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{0, 1, 0, [3]float32{0, 1, 0}, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{0, -1, 0, [3]float32{0, -1, 0}, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{0, 0, 1, [3]float32{0, 0, 1}, [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{0, 0, -1, [3]float32{0, 0, -1}, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

type blockMesh struct {
	Vertices [][3]float32
	Normals  [][3]float32
	Indices  []uint32
	min, max [3]float32
}

func (b *blockMesh) addFace(x, y, z int, f *cubeFace) {
	base := uint32(len(b.Vertices))
	for _, c := range f.corners {
		v := [3]float32{float32(x) + c[0], float32(y) + c[1], float32(z) + c[2]}
		if len(b.Vertices) == 0 {
			b.min, b.max = v, v
		}
		for i := 0; i < 3; i++ {
			if v[i] < b.min[i] {
				b.min[i] = v[i]
			}
			if v[i] > b.max[i] {
				b.max[i] = v[i]
			}
		}
		b.Vertices = append(b.Vertices, v)
		b.Normals = append(b.Normals, f.normal)
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

// buildBlockMeshes emits the exposed faces of every filled cell, grouped by
// block value. A face is exposed when its neighbour is empty or outside.
func buildBlockMeshes(g *Grid) map[int16]*blockMesh {
	meshes := make(map[int16]*blockMesh)
	for y := 0; y < g.Dims.Y; y++ {
		for x := 0; x < g.Dims.X; x++ {
			for z := 0; z < g.Dims.Z; z++ {
				v := g.Get(x, y, z)
				if v == g.Empty {
					continue
				}
				for i := range cubeFaces {
					f := &cubeFaces[i]
					if g.Filled(x+f.dx, y+f.dy, z+f.dz) {
						continue
					}
					bm, ok := meshes[v]
					if !ok {
						bm = &blockMesh{}
						meshes[v] = bm
					}
					bm.addFace(x, y, z, f)
				}
			}
		}
	}
	return meshes
}

// GridToGltf builds a preview document with one primitive per block value.
// Each cell is a unit cube at its grid coordinates.
func GridToGltf(g *Grid, palette *Palette) (*gltf.Document, error) {
	doc := CreateDoc()
	meshes := buildBlockMeshes(g)
	if len(meshes) == 0 {
		return doc, nil
	}
	values := make([]int16, 0, len(meshes))
	for v := range meshes {
		values = append(values, v)
	}
	sortBlockValues(values)

	buffer := doc.Buffers[0]
	mesh := &gltf.Mesh{Name: "voxels"}
	for _, v := range values {
		bm := meshes[v]
		buf := bytes.NewBuffer([]byte{})
		startLen := buffer.ByteLength

		if err := binary.Write(buf, binary.LittleEndian, bm.Indices); err != nil {
			return nil, err
		}
		indices := &gltf.BufferView{Buffer: 0, ByteOffset: startLen, ByteLength: uint32(buf.Len()), Target: gltf.TargetElementArrayBuffer}
		bvIdx := uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, indices)

		posOffset := uint32(buf.Len())
		if err := binary.Write(buf, binary.LittleEndian, bm.Vertices); err != nil {
			return nil, err
		}
		positions := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + posOffset, ByteLength: uint32(buf.Len()) - posOffset, Target: gltf.TargetArrayBuffer}
		bvPos := uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, positions)

		nlOffset := uint32(buf.Len())
		if err := binary.Write(buf, binary.LittleEndian, bm.Normals); err != nil {
			return nil, err
		}
		normals := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + nlOffset, ByteLength: uint32(buf.Len()) - nlOffset, Target: gltf.TargetArrayBuffer}
		bvNl := uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, normals)

		buffer.ByteLength += uint32(buf.Len())
		buffer.Data = append(buffer.Data, buf.Bytes()...)

		idxAcc := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors,
			&gltf.Accessor{BufferView: &bvIdx, ComponentType: gltf.ComponentUint, Type: gltf.AccessorScalar, Count: uint32(len(bm.Indices))},
			&gltf.Accessor{BufferView: &bvPos, ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: uint32(len(bm.Vertices)),
				Min: []float32{bm.min[0], bm.min[1], bm.min[2]}, Max: []float32{bm.max[0], bm.max[1], bm.max[2]}},
			&gltf.Accessor{BufferView: &bvNl, ComponentType: gltf.ComponentFloat, Type: gltf.AccessorVec3, Count: uint32(len(bm.Normals))},
		)

		mtl := palette.Material(v)
		mtlId := uint32(len(doc.Materials))
		doc.Materials = append(doc.Materials, &gltf.Material{
			DoubleSided:          true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: mtl.baseColorFactor()},
		})

		ps := &gltf.Primitive{
			Indices:    &idxAcc,
			Material:   &mtlId,
			Mode:       gltf.PrimitiveTriangles,
			Attributes: gltf.Attribute{"POSITION": idxAcc + 1, "NORMAL": idxAcc + 2},
		}
		mesh.Primitives = append(mesh.Primitives, ps)
	}

	meshId := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, mesh)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "voxels", Mesh: &meshId})
	return doc, nil
}
