package gtfsrt

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/jonboulle/clockwork"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/internal/logging"
)

// Source serves arrivals from a TripUpdates feed.
type Source struct {
	url    string
	header http.Header
	client *Client
	names  RouteNames
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithAPIKey sends value in the named header on every request.
func WithAPIKey(header, value string) Option {
	return func(s *Source) {
		if header != "" {
			s.header.Set(header, value)
		}
	}
}

// WithClient installs a Client sharing the board's HTTP transport.
func WithClient(c *Client) Option { return func(s *Source) { s.client = c } }

// WithRouteNames maps route_ids to short names in the records.
func WithRouteNames(n RouteNames) Option { return func(s *Source) { s.names = n } }

// WithClock sets the clock used as "now" for ETA computation.
func WithClock(c clockwork.Clock) Option { return func(s *Source) { s.clock = c } }

// WithLogger sets the logger for non-fatal upstream problems.
func WithLogger(l *slog.Logger) Option { return func(s *Source) { s.logger = l } }

// NewSource reads trip updates from tripUpdatesURL.
func NewSource(tripUpdatesURL string, opts ...Option) *Source {
	s := &Source{
		url:    tripUpdatesURL,
		header: http.Header{"Accept": {"application/x-protobuf"}},
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = NewClient(nil)
	}
	return s
}

// Fetch returns the arrivals at stopCode (a GTFS stop_id).
func (s *Source) Fetch(ctx context.Context, stopCode string) (arrivals.Snapshot, error) {
	snap := arrivals.Snapshot{StopCode: stopCode, FetchedAt: s.clock.Now()}

	fm, resp, err := s.client.Fetch(ctx, s.url, s.header)
	if err != nil {
		return snap, err
	}
	if fm == nil {
		s.logger.Error("trip updates request failed",
			slog.String("stop", stopCode),
			slog.Int("status", resp.StatusCode),
			slog.String("body", resp.Excerpt()))
		return snap, nil
	}

	snap.Records = StopArrivals(fm, stopCode, s.names, snap.FetchedAt)
	logging.LogOperation(s.logger, "trip updates fetched",
		slog.String("stop", stopCode),
		slog.Int("entities", len(fm.GetEntity())),
		slog.Int("services", len(snap.Records)))
	return snap, nil
}

// OverdueGrace is how long after its predicted time a bus is still shown. Older stop
// times are ones the vehicle has already served.
const OverdueGrace = 2 * time.Minute

// StopArrivals collects the upcoming arrivals at stopID, one record per route in the
// order routes first appear in the feed. Each record holds the earliest
// arrivals.MaxETAs times not older than OverdueGrace. Canceled trips and skipped
// stops are ignored; a stop with no arrival time falls back to its departure time.
func StopArrivals(fm *gtfsrtpb.FeedMessage, stopID string, names RouteNames, now time.Time) []arrivals.Record {
	cutoff := now.Add(-OverdueGrace).Unix()
	var order []string
	times := map[string][]int64{}

	for _, e := range fm.GetEntity() {
		tu := e.GetTripUpdate()
		if tu == nil {
			continue
		}
		trip := tu.GetTrip()
		if trip.GetScheduleRelationship() == gtfsrtpb.TripDescriptor_CANCELED {
			continue
		}
		route := trip.GetRouteId()
		if route == "" {
			route = trip.GetTripId()
		}

		for _, stu := range tu.GetStopTimeUpdate() {
			if stu.GetStopId() != stopID {
				continue
			}
			if stu.GetScheduleRelationship() == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
				continue
			}
			ts := stu.GetArrival().GetTime()
			if ts == 0 {
				ts = stu.GetDeparture().GetTime()
			}
			if ts == 0 || ts < cutoff {
				continue
			}
			if _, seen := times[route]; !seen {
				order = append(order, route)
			}
			times[route] = append(times[route], ts)
		}
	}

	records := make([]arrivals.Record, 0, len(order))
	for _, route := range order {
		ts := times[route]
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		if len(ts) > arrivals.MaxETAs {
			ts = ts[:arrivals.MaxETAs]
		}
		etas := make([]int, len(ts))
		for i, t := range ts {
			etas[i] = arrivals.MinutesUntil(time.Unix(t, 0), now)
		}
		records = append(records, arrivals.Record{ServiceNo: names.Name(route), ETAs: etas})
	}
	return records
}
