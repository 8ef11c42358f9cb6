package busboard

import (
	"archive/zip"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/epd"
	"github.com/theoremus-urban-solutions/busboard/gtfsrt"
)

func TestNewSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.AppConfig{API: config.APIConfig{Key: "k", BaseURL: config.DefaultBaseURL}}
	src, err := NewSource(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &arrivals.DataMall{}, src)

	cfg.Source = config.SourceConfig{Kind: "gtfsrt", GTFSRT: config.GTFSRTConfig{
		TripUpdatesURL: "https://example.com/tu.pb",
		APIKeyHeader:   "x-api-key",
		APIKey:         "secret",
	}}
	src, err = NewSource(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &gtfsrt.Source{}, src)

	cfg.Source.GTFSRT.StaticPath = filepath.Join(t.TempDir(), "missing.zip")
	_, err = NewSource(cfg, logger)
	assert.Error(t, err)

	cfg.Source.GTFSRT.StaticPath = writeRoutesZip(t, "route_id,route_short_name\nR172,172\n")
	src, err = NewSource(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &gtfsrt.Source{}, src)

	cfg.Source.Kind = "siri"
	_, err = NewSource(cfg, logger)
	assert.Error(t, err)
}

func writeRoutesZip(t *testing.T, routes string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gtfs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("routes.txt")
	require.NoError(t, err)
	_, err = io.WriteString(w, routes)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// The binary links exactly one set of GTFS-RT bindings; a second registration of
// transit_realtime panics at init.
func TestGTFSRTDescriptorsRegisteredOnce(t *testing.T) {
	var files []string
	protoregistry.GlobalFiles.RangeFilesByPackage("transit_realtime", func(fd protoreflect.FileDescriptor) bool {
		files = append(files, fd.Path())
		return true
	})
	require.Len(t, files, 1)

	want := (&gtfsrtpb.FeedMessage{}).ProtoReflect().Descriptor()
	got, err := protoregistry.GlobalFiles.FindDescriptorByName(want.FullName())
	require.NoError(t, err)
	assert.Equal(t, want.ParentFile().Path(), got.ParentFile().Path())
}

func TestOpenPanel(t *testing.T) {
	p, err := OpenPanel(config.DisplayConfig{Panel: "png", Output: "out.png", Width: 400, Height: 240})
	require.NoError(t, err)
	require.IsType(t, &epd.PNGFile{}, p)
	assert.Equal(t, image.Rect(0, 0, 400, 240), p.Bounds())

	_, err = OpenPanel(config.DisplayConfig{Panel: "lcd"})
	assert.Error(t, err)
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer(config.DisplayConfig{FontSize: 32}, image.Rect(0, 0, 400, 240))
	require.NoError(t, err)
	assert.InDelta(t, 16, r.Layout().FontSize, 1e-9)

	_, err = NewRenderer(config.DisplayConfig{Font: "/nonexistent.ttf"}, image.Rect(0, 0, 400, 240))
	assert.Error(t, err)
}

func TestStopsFrom(t *testing.T) {
	stops := StopsFrom(config.StopsConfig{
		A: config.StopConfig{Code: "1", Title: "Home"},
		B: config.StopConfig{Code: "2", Title: "Work"},
	})
	assert.Equal(t, [2]Stop{{Code: "1", Title: "Home"}, {Code: "2", Title: "Work"}}, stops)
}
