package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mizan/internal"
)

func ReadRawCollectionFile(path string) (internal.RawCollection, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.RawCollection{}, err
	}
	raw, err := internal.ParseRawCollection(blob)
	if err != nil {
		return internal.RawCollection{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// WriteCollectionFile writes c as indented JSON. The file is written next to
// its destination and renamed into place, so readers never see a partial file.
func WriteCollectionFile(path string, c internal.Collection) error {
	staged, err := stageCollectionFile(path, c)
	if err != nil {
		return err
	}
	return staged.Commit()
}

func stageCollectionFile(path string, c internal.Collection) (*stagedFile, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return stageFile(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// stagedFile is a fully written temp file waiting to replace path.
type stagedFile struct {
	tmp  string
	path string
}

func stageFile(path string, write func(io.Writer) error) (*stagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &stagedFile{tmp: tmp.Name(), path: path}, nil
}

// Commit renames the temp file into place.
func (s *stagedFile) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return err
	}
	return nil
}

// Discard drops the temp file; the destination is left untouched.
func (s *stagedFile) Discard() {
	_ = os.Remove(s.tmp)
}
