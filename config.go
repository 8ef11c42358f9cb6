package busboard

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/epd"
	"github.com/theoremus-urban-solutions/busboard/gtfsrt"
	"github.com/theoremus-urban-solutions/busboard/render"
)

// NewSource builds the arrivals source selected by cfg.Source.Kind.
func NewSource(cfg *config.AppConfig, logger *slog.Logger) (arrivals.Source, error) {
	fetcher := arrivals.NewHTTPFetcher(
		arrivals.NewHTTPClient(cfg.API.Timeout()),
		arrivals.NewLimiter(cfg.API.RateLimitPerSecond),
	)

	switch cfg.Source.Kind {
	case "", "datamall":
		return arrivals.NewDataMall(cfg.API.Key,
			arrivals.WithBaseURL(cfg.API.BaseURL),
			arrivals.WithFetcher(fetcher),
			arrivals.WithLogger(logger),
		), nil
	case "gtfsrt":
		rt := cfg.Source.GTFSRT
		opts := []gtfsrt.Option{
			gtfsrt.WithClient(gtfsrt.NewClient(fetcher)),
			gtfsrt.WithLogger(logger),
		}
		if rt.APIKey != "" {
			opts = append(opts, gtfsrt.WithAPIKey(rt.APIKeyHeader, rt.APIKey))
		}
		if rt.StaticPath != "" {
			names, err := gtfsrt.LoadRouteNames(rt.StaticPath)
			if err != nil {
				return nil, err
			}
			logger.Info("loaded route names", slog.Int("routes", len(names)))
			opts = append(opts, gtfsrt.WithRouteNames(names))
		}
		return gtfsrt.NewSource(rt.TripUpdatesURL, opts...), nil
	default:
		return nil, fmt.Errorf("busboard: unknown source kind %q", cfg.Source.Kind)
	}
}

// OpenPanel opens the panel named by cfg.Panel.
func OpenPanel(cfg config.DisplayConfig) (epd.Panel, error) {
	switch cfg.Panel {
	case "waveshare":
		p, err := epd.OpenWaveshare(cfg.SPIPort)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "", "png":
		return epd.NewPNGFile(cfg.Output, image.Rect(0, 0, cfg.Width, cfg.Height)), nil
	default:
		return nil, fmt.Errorf("busboard: unknown panel %q", cfg.Panel)
	}
}

// NewRenderer scales the reference layout and the configured font to bounds.
func NewRenderer(cfg config.DisplayConfig, bounds image.Rectangle) (*render.Renderer, error) {
	ref := render.DefaultLayout()
	if cfg.FontSize > 0 {
		ref.FontSize = cfg.FontSize
	}
	layout := ref.ScaleTo(bounds)
	face, err := render.LoadFace(cfg.Font, layout.FontSize)
	if err != nil {
		return nil, err
	}
	return render.New(face, layout), nil
}

// StopsFrom returns the two configured stops, left first.
func StopsFrom(cfg config.StopsConfig) [2]Stop {
	return [2]Stop{
		{Code: cfg.A.Code, Title: cfg.A.Title},
		{Code: cfg.B.Code, Title: cfg.B.Title},
	}
}
