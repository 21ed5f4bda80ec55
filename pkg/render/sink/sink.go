// Package sink encodes rendered canvases as PNG.
//
// A render either returns bytes or leaves exactly one file behind. [WritePNG]
// encodes into a temporary file next to the destination and renames it
// into place, so a failed write never leaves a partial image at the path.
//
//	data, err := sink.Emit(img, "")          // bytes, nothing on disk
//	_, err = sink.Emit(img, "calendar.png") // file, nil bytes
package sink

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// EncodePNG encodes img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img to path atomically.
func WritePNG(img image.Image, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return WriteFile(data, path)
}

// WriteFile writes already encoded PNG bytes to path through a temporary
// file in the same directory and a rename.
func WriteFile(data []byte, path string) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create temp file in %s", dir)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// Emit returns the encoded bytes when path is empty, otherwise writes the
// file and returns nil.
func Emit(img image.Image, path string) ([]byte, error) {
	if path == "" {
		return EncodePNG(img)
	}
	return nil, WritePNG(img, path)
}
