package busboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/epd"
	"github.com/theoremus-urban-solutions/busboard/internal/logging"
	"github.com/theoremus-urban-solutions/busboard/internal/schedule"
	"github.com/theoremus-urban-solutions/busboard/render"
)

// Stop is one column of the board.
type Stop struct {
	Code  string
	Title string
}

// Board refreshes a panel with the arrivals at two stops.
type Board struct {
	source   arrivals.Source
	panel    epd.Panel
	stops    [2]Stop
	renderer *render.Renderer
	canvas   *render.Canvas
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger

	status statusStore
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithRenderer replaces the default Go Bold renderer.
func WithRenderer(r *render.Renderer) BoardOption {
	return func(b *Board) { b.renderer = r }
}

// WithClock drives the refresh schedule from c.
func WithClock(c clockwork.Clock) BoardOption {
	return func(b *Board) { b.clock = c }
}

// WithInterval sets the wait between refreshes.
func WithInterval(d time.Duration) BoardOption {
	return func(b *Board) { b.interval = d }
}

// WithLogger sets the logger for cycle and lifecycle events.
func WithLogger(l *slog.Logger) BoardOption {
	return func(b *Board) { b.logger = l }
}

// NewBoard wires source and panel together for stops[0] (left) and stops[1] (right).
func NewBoard(source arrivals.Source, panel epd.Panel, stops [2]Stop, opts ...BoardOption) (*Board, error) {
	b := &Board{
		source:   source,
		panel:    panel,
		stops:    stops,
		clock:    clockwork.NewRealClock(),
		interval: schedule.DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	bounds := panel.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("busboard: panel has empty bounds %v", bounds)
	}
	if b.renderer == nil {
		layout := render.LayoutFor(bounds)
		face, err := render.LoadFace("", layout.FontSize)
		if err != nil {
			return nil, err
		}
		b.renderer = render.New(face, layout)
	}
	b.canvas = render.NewCanvas(bounds)
	return b, nil
}

// Cycle performs one fetch, render and display pass. A failed fetch leaves the
// panel untouched.
func (b *Board) Cycle(ctx context.Context) error {
	start := b.clock.Now()

	var snaps [2]arrivals.Snapshot
	for i, stop := range b.stops {
		snap, err := b.source.Fetch(ctx, stop.Code)
		if err != nil {
			return fmt.Errorf("stop %q: %w", stop.Code, err)
		}
		snaps[i] = snap
	}

	frame := b.renderer.Render(b.canvas,
		render.Column{Title: b.stops[0].Title, Snapshot: snaps[0]},
		render.Column{Title: b.stops[1].Title, Snapshot: snaps[1]},
	)
	for i, n := range frame.Hidden {
		if n > 0 {
			b.logger.Warn("arrivals did not fit on the panel",
				slog.String("stop", b.stops[i].Code),
				slog.Int("hidden", n))
		}
	}

	if err := b.panel.Display(b.panel.Buffer(frame.Image)); err != nil {
		return err
	}

	png, err := frame.PNG()
	if err != nil {
		logging.LogError(b.logger, "failed to encode frame", err)
	}
	b.status.recordCycle(start, snaps, frame.Hidden, png)

	logging.LogOperation(b.logger, "board refreshed",
		slog.Int("services_a", len(snaps[0].Records)),
		slog.Int("services_b", len(snaps[1].Records)),
		slog.Duration("duration", b.clock.Since(start)))
	return nil
}

// Run initializes the panel and refreshes it until ctx is done or the panel fails.
// It returns nil on cancellation; callers still own Shutdown.
func (b *Board) Run(ctx context.Context) error {
	if err := b.panel.Init(); err != nil {
		return err
	}
	if err := b.panel.Clear(); err != nil {
		return err
	}

	b.logger.Info("board started",
		slog.String("stop_a", b.stops[0].Code),
		slog.String("stop_b", b.stops[1].Code),
		slog.Duration("interval", b.interval))

	ticker := schedule.New(b.clock, b.interval)
	return ticker.Run(ctx, func(ctx context.Context) error {
		err := b.Cycle(ctx)
		if err == nil {
			return nil
		}

		kind := Classify(err)
		if kind == KindCanceled || ctx.Err() != nil {
			return nil
		}
		b.status.recordError(err)
		if kind.Fatal() {
			logging.LogError(b.logger, "panel failed, stopping", err, slog.String("kind", kind.String()))
			return err
		}
		logging.LogError(b.logger, "cycle skipped", err, slog.String("kind", kind.String()))
		return nil
	})
}

// Shutdown blanks the panel and releases it. Both steps are attempted.
func (b *Board) Shutdown() error {
	return errors.Join(b.panel.Clear(), b.panel.Close())
}

// Status returns the latest cycle results.
func (b *Board) Status() Status { return b.status.snapshot() }

// Frame returns the last displayed frame as PNG, or nil before the first cycle.
func (b *Board) Frame() []byte { return b.status.lastFrame() }
