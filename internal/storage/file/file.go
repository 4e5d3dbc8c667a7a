// Package file stores marker documents and assets on the local
// filesystem, laid out the way the web frontend serves them.
package file

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/overmap/overmap/pkg/api"
	"github.com/overmap/overmap/pkg/marker"
)

// Store writes per-map data under root:
//
//	<root>/<mapID>/live/markers.json(.gz)
//	<root>/<mapID>/assets/<name>
type Store struct {
	root     string
	compress bool
}

// New creates a file store rooted at dir. When compress is set the
// marker document is gzipped.
func New(dir string, compress bool) *Store {
	return &Store{root: dir, compress: compress}
}

// Init ensures the root directory exists.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) documentPath(mapID string) string {
	name := "markers.json"
	if s.compress {
		name += ".gz"
	}
	return filepath.Join(s.root, sanitize(mapID), "live", name)
}

// SaveMarkerSets writes the map's marker document, replacing any
// previous one. The write goes through a temp file and rename so the
// frontend never reads a half-written document.
func (s *Store) SaveMarkerSets(ctx context.Context, mapID string, sets map[string]*marker.Set) error {
	target := s.documentPath(mapID)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".markers-*")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var gz *gzip.Writer
	if s.compress {
		gz = gzip.NewWriter(tmp)
		w = gz
	}

	if err := marker.WriteDocument(w, sets); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write marker document: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to flush gzip stream: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp document: %w", err)
	}

	return os.Rename(tmp.Name(), target)
}

// LoadMarkerSets reads back the map's marker document.
func (s *Store) LoadMarkerSets(ctx context.Context, mapID string) (map[string]*marker.Set, error) {
	f, err := os.Open(s.documentPath(mapID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if s.compress {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return marker.ReadDocument(r)
}

// Assets returns the asset storage for one map.
func (s *Store) Assets(mapID string) api.AssetStorage {
	return &assetStorage{
		dir:   filepath.Join(s.root, sanitize(mapID), "assets"),
		mapID: sanitize(mapID),
	}
}

type assetStorage struct {
	dir   string
	mapID string
}

func (a *assetStorage) Write(ctx context.Context, name string) (io.WriteCloser, error) {
	target := filepath.Join(a.dir, sanitize(name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return os.Create(target)
}

func (a *assetStorage) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(a.dir, sanitize(name)))
	if os.IsNotExist(err) {
		return nil, api.ErrNotFound
	}
	return f, err
}

func (a *assetStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(a.dir, sanitize(name)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (a *assetStorage) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(a.dir, sanitize(name)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// URL returns the address the frontend serves the asset from.
func (a *assetStorage) URL(name string) string {
	return path.Join("maps", a.mapID, "assets", sanitize(name))
}

// sanitize keeps stored names inside the store root.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}
