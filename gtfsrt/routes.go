package gtfsrt

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RouteNames maps route_id to the short name riders know the route by.
type RouteNames map[string]string

// LoadRouteNames reads route short names from routes.txt in a static GTFS zip.
// Other files in the archive are not opened.
func LoadRouteNames(path string) (RouteNames, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("gtfsrt: open static gtfs: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, "routes.txt") {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("gtfsrt: open routes.txt: %w", err)
		}
		names, err := readRoutes(r)
		_ = r.Close()
		if err != nil {
			return nil, fmt.Errorf("gtfsrt: read routes.txt: %w", err)
		}
		return names, nil
	}
	return nil, fmt.Errorf("gtfsrt: %s has no routes.txt", path)
}

// readRoutes consumes a routes.txt CSV. Rows without a short name are skipped so
// Name falls back to the route_id.
func readRoutes(r io.Reader) (RouteNames, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return nil, err
	}
	names := RouteNames{}
	if len(rec) == 0 {
		return names, nil
	}

	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			// routes.txt exported on Windows often carries a BOM on the first header.
			if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(h), "\ufeff"), col) {
				return i
			}
		}
		return -1
	}
	rID, rSN := idx("route_id"), idx("route_short_name")
	if rID < 0 {
		return nil, errors.New("missing route_id column")
	}
	if rSN < 0 {
		return names, nil
	}
	for _, row := range rec[1:] {
		if rID >= len(row) || rSN >= len(row) {
			continue
		}
		if sn := strings.TrimSpace(row[rSN]); sn != "" {
			names[row[rID]] = sn
		}
	}
	return names, nil
}

// Name returns the short name for routeID, or routeID itself when unknown.
func (n RouteNames) Name(routeID string) string {
	if name, ok := n[routeID]; ok {
		return name
	}
	return routeID
}
