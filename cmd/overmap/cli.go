package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/overmap/overmap/internal/config"
	"github.com/overmap/overmap/internal/geo"
	"github.com/overmap/overmap/internal/logging"
	"github.com/overmap/overmap/internal/storage"
	"github.com/overmap/overmap/pkg/marker"
)

// cmdValidate decodes a marker document and reports what it contains.
func cmdValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: overmap validate <markers.json>")
	}

	sets, err := readDocument(args[0])
	if err != nil {
		return err
	}

	total := 0
	for setID, set := range sets {
		n := set.Len()
		total += n
		fmt.Printf("set %q (%s): %d markers\n", setID, set.Label, n)
	}
	fmt.Printf("OK: %d sets, %d markers\n", len(sets), total)
	return nil
}

// cmdExportGeoJSON converts a marker document into a GeoJSON feature
// collection.
func cmdExportGeoJSON(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: overmap export-geojson <markers.json> <out.geojson>")
	}

	sets, err := readDocument(args[0])
	if err != nil {
		return err
	}

	proj, err := geo.NewProjection(
		viper.GetString("geo.projection"),
		viper.GetFloat64("geo.blocksPerDegree"),
	)
	if err != nil {
		return err
	}

	fc, err := geo.FeatureCollection(sets, proj)
	if err != nil {
		return fmt.Errorf("building feature collection: %w", err)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encoding feature collection: %w", err)
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		return err
	}

	logManager.Logger().Info("GeoJSON exported", "features", len(fc), "path", args[1])
	return nil
}

// cmdStore saves a marker document into the configured storage backend.
func cmdStore(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: overmap store <mapID> <markers.json>")
	}
	mapID, path := args[0], args[1]
	sessionCtx.SetActiveMap(mapID, "")

	sets, err := readDocument(path)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveMarkerSets(context.Background(), mapID, sets); err != nil {
		return fmt.Errorf("saving marker sets: %w", err)
	}

	logManager.Logger().Info("Marker document stored", "sets", len(sets))
	return nil
}

// cmdLoad reads a map's marker document back out of storage.
func cmdLoad(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: overmap load <mapID> <out.json>")
	}
	mapID, path := args[0], args[1]
	sessionCtx.SetActiveMap(mapID, "")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sets, err := store.LoadMarkerSets(context.Background(), mapID)
	if err != nil {
		return fmt.Errorf("loading marker sets: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := marker.WriteDocument(f, sets); err != nil {
		return fmt.Errorf("writing marker document: %w", err)
	}

	logManager.Logger().Info("Marker document loaded", "sets", len(sets))
	return nil
}

func openStore() (storage.Store, error) {
	store, err := storage.New(config.Storage(), logging.NewZerologLogger(nil))
	if err != nil {
		return nil, err
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func readDocument(path string) (map[string]*marker.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sets, err := marker.ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parsing marker document: %w", err)
	}
	return sets, nil
}
