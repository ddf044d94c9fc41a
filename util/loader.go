// Package util - filesystem helpers for the diagnosis CLI.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ImageFile is one image read from disk.
type ImageFile struct {
	// Path is the path the image was read from.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// LoadImageInputs reads image files from a path. A file path yields that one
// file; a directory yields every image file directly inside it, sorted by
// name. Non-image files in a directory are skipped.
//
// Arguments:
//   - path: An image file or a directory of image files.
//
// Returns:
//   - The loaded images, at least one.
//   - An error if the path is unreadable or yields no images.
func LoadImageInputs(path string) ([]ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "util: reading %s", path)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "util: reading %s", path)
		}
		return []ImageFile{{Path: path, Data: data}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "util: listing %s", path)
	}

	var images []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		imgPath := filepath.Join(path, entry.Name())
		data, err := os.ReadFile(imgPath)
		if err != nil {
			return nil, errors.Wrapf(err, "util: reading %s", imgPath)
		}
		images = append(images, ImageFile{Path: imgPath, Data: data})
	}

	if len(images) == 0 {
		return nil, errors.Errorf("util: no image files in %s", path)
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Path < images[j].Path
	})
	return images, nil
}
