// Package gormstore persists marker documents and assets in a
// relational database through gorm. It backs both the sqlite and the
// postgres storage types.
package gormstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/overmap/overmap/pkg/api"
	"github.com/overmap/overmap/pkg/marker"
)

// MarkerSetRow stores one marker set of one map as its JSON document.
type MarkerSetRow struct {
	ID        uint   `gorm:"primarykey"`
	MapID     string `gorm:"uniqueIndex:idx_map_set;size:191"`
	SetID     string `gorm:"uniqueIndex:idx_map_set;size:191"`
	Payload   datatypes.JSON
	UpdatedAt time.Time
}

// AssetRow stores one binary asset of one map.
type AssetRow struct {
	ID          uint   `gorm:"primarykey"`
	MapID       string `gorm:"uniqueIndex:idx_map_asset;size:191"`
	Name        string `gorm:"uniqueIndex:idx_map_asset;size:191"`
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}

// Store implements the storage backend on top of a gorm connection.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Init migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&MarkerSetRow{}, &AssetRow{}); err != nil {
		return fmt.Errorf("migrating marker storage schema: %w", err)
	}
	return nil
}

// Close closes the underlying sql connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveMarkerSets upserts one row per set and removes rows for sets no
// longer present, all in a single transaction.
func (s *Store) SaveMarkerSets(ctx context.Context, mapID string, sets map[string]*marker.Set) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]string, 0, len(sets))
		for setID, set := range sets {
			payload, err := json.Marshal(set)
			if err != nil {
				return fmt.Errorf("encoding marker set %q: %w", setID, err)
			}
			row := MarkerSetRow{MapID: mapID, SetID: setID, Payload: payload}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "map_id"}, {Name: "set_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("upserting marker set %q: %w", setID, err)
			}
			keep = append(keep, setID)
		}

		q := tx.Where("map_id = ?", mapID)
		if len(keep) > 0 {
			q = q.Where("set_id NOT IN ?", keep)
		}
		return q.Delete(&MarkerSetRow{}).Error
	})
}

// LoadMarkerSets reads and decodes every stored set of a map.
func (s *Store) LoadMarkerSets(ctx context.Context, mapID string) (map[string]*marker.Set, error) {
	var rows []MarkerSetRow
	err := s.db.WithContext(ctx).Where("map_id = ?", mapID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, api.ErrNotFound
	}

	sets := make(map[string]*marker.Set, len(rows))
	for _, row := range rows {
		set := new(marker.Set)
		if err := json.Unmarshal(row.Payload, set); err != nil {
			return nil, fmt.Errorf("decoding marker set %q: %w", row.SetID, err)
		}
		sets[row.SetID] = set
	}
	return sets, nil
}

// Assets returns the asset storage for one map.
func (s *Store) Assets(mapID string) api.AssetStorage {
	return &assetStorage{db: s.db, mapID: mapID}
}

type assetStorage struct {
	db    *gorm.DB
	mapID string
}

// assetWriter buffers the asset and upserts it on Close.
type assetWriter struct {
	bytes.Buffer
	store *assetStorage
	ctx   context.Context
	name  string
}

func (w *assetWriter) Close() error {
	row := AssetRow{
		MapID:       w.store.mapID,
		Name:        w.name,
		ContentType: api.ContentType(w.name),
		Data:        w.Bytes(),
	}
	err := w.store.db.WithContext(w.ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "map_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("storing asset %q: %w", w.name, err)
	}
	return nil
}

func (a *assetStorage) Write(ctx context.Context, name string) (io.WriteCloser, error) {
	return &assetWriter{store: a, ctx: ctx, name: name}, nil
}

func (a *assetStorage) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	var row AssetRow
	err := a.db.WithContext(ctx).
		Where("map_id = ? AND name = ?", a.mapID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(row.Data)), nil
}

func (a *assetStorage) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&AssetRow{}).
		Where("map_id = ? AND name = ?", a.mapID, name).
		Count(&count).Error
	return count > 0, err
}

func (a *assetStorage) Delete(ctx context.Context, name string) error {
	return a.db.WithContext(ctx).
		Where("map_id = ? AND name = ?", a.mapID, name).
		Delete(&AssetRow{}).Error
}

func (a *assetStorage) URL(name string) string {
	return path.Join("maps", a.mapID, "assets", name)
}
