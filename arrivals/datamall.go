package arrivals

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/theoremus-urban-solutions/busboard/internal/logging"
)

const (
	// DefaultDataMallURL is the LTA DataMall host.
	DefaultDataMallURL = "https://datamall2.mytransport.sg"

	busArrivalEndpoint = "/ltaodataservice/v3/BusArrival"
)

// busArrivalResponse mirrors the parts of the BusArrival v3 payload we read.
type busArrivalResponse struct {
	BusStopCode string       `json:"BusStopCode"`
	Services    []busService `json:"Services"`
}

type busService struct {
	ServiceNo string   `json:"ServiceNo"`
	Operator  string   `json:"Operator"`
	NextBus   *nextBus `json:"NextBus"`
	NextBus2  *nextBus `json:"NextBus2"`
	NextBus3  *nextBus `json:"NextBus3"`
}

// nextBus is one upcoming bus slot. DataMall sends the object with empty strings
// when there is no bus, so EstimatedArrival may be "".
type nextBus struct {
	EstimatedArrival string `json:"EstimatedArrival"`
	Load             string `json:"Load"`
	Type             string `json:"Type"`
}

func (s busService) slots() [MaxETAs]*nextBus {
	return [MaxETAs]*nextBus{s.NextBus, s.NextBus2, s.NextBus3}
}

// DataMall fetches arrivals from the LTA DataMall BusArrival endpoint.
type DataMall struct {
	baseURL string
	apiKey  string
	fetcher *HTTPFetcher
	clock   clockwork.Clock
	logger  *slog.Logger
}

// Option configures a DataMall client.
type Option func(*DataMall)

// WithBaseURL overrides the API host (useful for tests). No trailing slash required.
func WithBaseURL(baseURL string) Option {
	return func(d *DataMall) { d.baseURL = baseURL }
}

// WithFetcher installs a shared HTTPFetcher.
func WithFetcher(f *HTTPFetcher) Option {
	return func(d *DataMall) { d.fetcher = f }
}

// WithClock sets the clock used as "now" for ETA computation.
func WithClock(c clockwork.Clock) Option {
	return func(d *DataMall) { d.clock = c }
}

// WithLogger sets the logger for non-fatal upstream problems.
func WithLogger(l *slog.Logger) Option {
	return func(d *DataMall) { d.logger = l }
}

// NewDataMall builds a client for apiKey. The key is sent as-is; an empty or wrong key
// shows up as an upstream authorization failure, which Fetch logs.
func NewDataMall(apiKey string, opts ...Option) *DataMall {
	d := &DataMall{
		baseURL: DefaultDataMallURL,
		apiKey:  apiKey,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.fetcher == nil {
		d.fetcher = NewHTTPFetcher(nil, nil)
	}
	d.baseURL = strings.TrimRight(strings.TrimSpace(d.baseURL), "/")
	if d.baseURL == "" {
		d.baseURL = DefaultDataMallURL
	}
	return d
}

// Fetch returns the arrivals at stopCode.
func (d *DataMall) Fetch(ctx context.Context, stopCode string) (Snapshot, error) {
	snap := Snapshot{StopCode: stopCode, FetchedAt: d.clock.Now()}

	u := d.baseURL + busArrivalEndpoint + "?" + url.Values{"BusStopCode": {stopCode}}.Encode()
	header := http.Header{}
	header.Set("AccountKey", d.apiKey)
	header.Set("Accept", "application/json")

	resp, err := d.fetcher.Get(ctx, u, header)
	if err != nil {
		return snap, err
	}
	if resp.StatusCode != http.StatusOK {
		d.logger.Error("bus arrival request failed",
			slog.String("stop", stopCode),
			slog.Int("status", resp.StatusCode),
			slog.String("body", resp.Excerpt()))
		return snap, nil
	}

	records, err := decodeBusArrival(resp.Body, snap.FetchedAt)
	if err != nil {
		return snap, err
	}
	snap.Records = records
	logging.LogOperation(d.logger, "bus arrivals fetched",
		slog.String("stop", stopCode),
		slog.Int("services", len(records)))
	return snap, nil
}

// decodeBusArrival turns a BusArrival payload into records relative to now.
// Services without a single usable timestamp are dropped.
func decodeBusArrival(body []byte, now time.Time) ([]Record, error) {
	var payload busArrivalResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{What: "bus arrival response", Err: err}
	}

	records := make([]Record, 0, len(payload.Services))
	for _, svc := range payload.Services {
		etas := make([]int, 0, MaxETAs)
		for _, slot := range svc.slots() {
			if slot == nil || slot.EstimatedArrival == "" {
				continue
			}
			eta, err := ParseTimestamp(slot.EstimatedArrival)
			if err != nil {
				return nil, err
			}
			etas = append(etas, MinutesUntil(eta, now))
		}
		if len(etas) == 0 {
			continue
		}
		records = append(records, Record{ServiceNo: svc.ServiceNo, ETAs: etas})
	}
	return records, nil
}
