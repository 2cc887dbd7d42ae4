package voxel

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeTestPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h, c)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCreateTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.Set(10, 20, color.NRGBA{255, 0, 0, 255})
	img.Set(12, 21, color.NRGBA{0, 0, 255, 255})

	tex := CreateTextureFromImage(img, filepath.Join("some", "dir", "bricks.png"))
	if tex.Name != "bricks.png" {
		t.Errorf("Name = %q, want bricks.png", tex.Name)
	}
	if tex.Width() != 3 || tex.Height() != 2 || len(tex.Data) != 18 {
		t.Fatalf("size = %dx%d, %d bytes", tex.Width(), tex.Height(), len(tex.Data))
	}
	if got := tex.At(0, 0); got != [3]uint8{255, 0, 0} {
		t.Errorf("At(0,0) = %v", got)
	}
	if got := tex.At(2, 1); got != [3]uint8{0, 0, 255} {
		t.Errorf("At(2,1) = %v", got)
	}
	if !tex.InBounds(2, 1) || tex.InBounds(3, 0) || tex.InBounds(0, -1) {
		t.Error("InBounds disagrees with the texture size")
	}
}

func TestReadImageSniff(t *testing.T) {
	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, testImage(2, 2, color.NRGBA{9, 8, 7, 255})); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, testImage(2, 2, color.NRGBA{9, 8, 7, 255})); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		data []byte
		ft   string
	}{
		{"png sniffed", pngBuf.Bytes(), ""},
		{"png named", pngBuf.Bytes(), "png"},
		{"bmp sniffed", bmpBuf.Bytes(), ""},
		{"bmp named", bmpBuf.Bytes(), "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := readImage(bytes.NewReader(tt.data), tt.ft)
			if err != nil {
				t.Fatalf("readImage: %v", err)
			}
			if got := CreateTextureFromImage(img, "x").At(1, 1); got != [3]uint8{9, 8, 7} {
				t.Errorf("pixel = %v", got)
			}
		})
	}
	if _, err := readImage(bytes.NewReader(pngBuf.Bytes()), "webp"); err == nil {
		t.Error("unsupported format accepted")
	}
}

func TestLoadTextureDir(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "b_stone.png"), 2, 2, color.NRGBA{128, 128, 128, 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage(1, 1, color.NRGBA{0, 200, 0, 255})); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a_grass.BMP"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "c_sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	texs, err := LoadTextureDir(dir)
	if err != nil {
		t.Fatalf("LoadTextureDir: %v", err)
	}
	names := TextureNames(texs)
	if !reflect.DeepEqual(names, []string{"a_grass.BMP", "b_stone.png"}) {
		t.Fatalf("names = %v", names)
	}
	for i, tex := range texs {
		if tex.Id != int32(i) {
			t.Errorf("%s has id %d, want %d", tex.Name, tex.Id, i)
		}
	}
	if got := texs[0].At(0, 0); got != [3]uint8{0, 200, 0} {
		t.Errorf("grass pixel = %v", got)
	}

	if _, err := LoadTextureDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing directory accepted")
	}
}

func TestLoadTextureDirCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTextureDir(dir); err == nil {
		t.Error("corrupt texture accepted")
	}
}

func TestNameTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNameTable(&buf, []string{"a.png", "b.png"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[\"a.png\",\"b.png\"]\n" {
		t.Errorf("got %q", got)
	}
	names, err := ReadNameTable(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"a.png", "b.png"}) {
		t.Errorf("round trip = %v", names)
	}

	buf.Reset()
	if err := WriteNameTable(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("empty table = %q", got)
	}
}
