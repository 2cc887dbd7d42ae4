package voxel

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Texture 纹理, packed 8-bit RGB rows, top row first.
type Texture struct {
	Id   int32     `json:"id"`
	Name string    `json:"name"`
	Size [2]uint64 `json:"size"`
	Data []byte    `json:"-"`
}

func NewTexture(name string, w, h int) *Texture {
	return &Texture{Name: name, Size: [2]uint64{uint64(w), uint64(h)}, Data: make([]byte, w*h*3)}
}

func (t *Texture) Width() int {
	return int(t.Size[0])
}

func (t *Texture) Height() int {
	return int(t.Size[1])
}

func (t *Texture) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.Width() && y < t.Height()
}

func (t *Texture) At(x, y int) [3]uint8 {
	p := (y*t.Width() + x) * 3
	return [3]uint8{t.Data[p], t.Data[p+1], t.Data[p+2]}
}

func (t *Texture) Set(x, y int, c [3]uint8) {
	p := (y*t.Width() + x) * 3
	copy(t.Data[p:p+3], c[:])
}

// Fill paints every pixel with c.
func (t *Texture) Fill(c [3]uint8) {
	for p := 0; p+2 < len(t.Data); p += 3 {
		copy(t.Data[p:p+3], c[:])
	}
}

func CreateTexture(name string) (*Texture, error) {
	reader, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	img, err := readImage(reader, ext)
	if err != nil {
		return nil, err
	}
	return CreateTextureFromImage(img, name), nil
}

func readImage(rd io.ReadSeeker, ft string) (image.Image, error) {
	if ft == "" {
		_, format, err := image.DecodeConfig(rd)
		if err != nil {
			return nil, err
		}
		if _, err := rd.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		ft = format
	}
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	default:
		return nil, errors.New("unknow format")
	}
}

func CreateTextureFromImage(img image.Image, name string) *Texture {
	bd := img.Bounds()
	_, fn := filepath.Split(name)
	t := NewTexture(fn, bd.Dx(), bd.Dy())
	for y := 0; y < bd.Dy(); y++ {
		for x := 0; x < bd.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(bd.Min.X+x, bd.Min.Y+y)).(color.NRGBA)
			t.Set(x, y, [3]uint8{c.R, c.G, c.B})
		}
	}
	return t
}
