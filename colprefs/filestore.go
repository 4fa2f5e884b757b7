package colprefs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	fs "github.com/ungerik/go-fs"
)

var _ Store = FileStore{}

// FileStore is a Store that writes one JSON document
// per persistence key into a directory.
type FileStore struct {
	Dir fs.File
}

// NewFileStore returns a FileStore for dir
// creating the directory if necessary.
func NewFileStore(dir fs.File) (FileStore, error) {
	if err := dir.MakeAllDirs(); err != nil {
		return FileStore{}, fmt.Errorf("can't create column preference directory: %w", err)
	}
	return FileStore{Dir: dir}, nil
}

// File returns the file of the preferences for key.
func (s FileStore) File(key string) fs.File {
	return s.Dir.Join(url.PathEscape(key) + ".json")
}

type document struct {
	Key    string   `json:"key"`
	Hidden []string `json:"hidden"`
}

func (s FileStore) Load(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := s.File(key)
	if !file.Exists() {
		return nil, nil
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid column preferences %s: %w", file.Name(), err)
	}
	return doc.Hidden, nil
}

func (s FileStore) Save(ctx context.Context, key string, hidden []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(document{Key: key, Hidden: normalize(hidden)}, "", "  ")
	if err != nil {
		return err
	}
	return s.File(key).WriteAll(data)
}
