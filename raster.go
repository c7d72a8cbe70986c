/*
Package raster is a toolkit for probing, decoding, encoding and cataloguing
raster image files.

The bmp sub-package implements an uncompressed Windows bitmap codec from
scratch; the other supported formats are thin wrappers over existing
libraries. A Registry dispatches streams to whichever format recognizes
them. Library ties a registry to a SQLite catalog of scanned image files.
*/
package raster

import (
	"log"
	"path/filepath"
)

type Library struct {
	catalog  *Catalog
	registry *Registry
	logger   *log.Logger

	// Workers is the number of concurrent scan workers.
	Workers int
}

func New(db string, logger *log.Logger) (*Library, error) {
	c, err := NewCatalog(db)
	if err != nil {
		return nil, err
	}
	return &Library{
		catalog:  c,
		registry: DefaultRegistry(),
		logger:   logger,
		Workers:  defaultWorkers,
	}, nil
}

func (l *Library) Close() error {
	return l.catalog.Close()
}

// Thumbnail returns the stored thumbnail for path as uncompressed bitmap
// bytes, or nil if the path has not been scanned.
func (l *Library) Thumbnail(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return l.catalog.Thumbnail(abs)
}

// Each calls fn for every cataloged file in path order.
func (l *Library) Each(fn func(Entry) error) error {
	return l.catalog.Each(fn)
}
