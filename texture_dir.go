package voxel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var TextureExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// readDir lists the files of path, sorted by name, whose extension is in
// extFilter. An empty filter accepts every file. Subdirectories are skipped.
func readDir(path string, extFilter []string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	res := []string{}
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		if len(extFilter) == 0 {
			res = append(res, info.Name())
			continue
		}
		et := strings.ToLower(filepath.Ext(info.Name()))
		for _, ext := range extFilter {
			if et == ext {
				res = append(res, info.Name())
				break
			}
		}
	}
	return res, nil
}

// LoadTextureDir decodes every image in dir. A texture's id is its position
// in the sorted listing.
func LoadTextureDir(dir string) ([]*Texture, error) {
	names, err := readDir(dir, TextureExts)
	if err != nil {
		return nil, err
	}
	texs := make([]*Texture, 0, len(names))
	for i, n := range names {
		t, err := CreateTexture(filepath.Join(dir, n))
		if err != nil {
			return nil, fmt.Errorf("decoding texture %s: %w", n, err)
		}
		t.Id = int32(i)
		texs = append(texs, t)
	}
	return texs, nil
}

func TextureNames(texs []*Texture) []string {
	names := make([]string, len(texs))
	for i, t := range texs {
		names[i] = t.Name
	}
	return names
}

// WriteNameTable writes the texture names as a JSON array, index = block id.
func WriteNameTable(wt io.Writer, names []string) error {
	if names == nil {
		names = []string{}
	}
	return json.NewEncoder(wt).Encode(names)
}

func ReadNameTable(rd io.Reader) ([]string, error) {
	var names []string
	if err := json.NewDecoder(rd).Decode(&names); err != nil {
		return nil, err
	}
	return names, nil
}
