package arrivals

import (
	"context"
	"time"
)

// MaxETAs is the number of upcoming buses reported per service.
const MaxETAs = 3

// Record is one service's upcoming arrivals at a stop, in chronological order.
type Record struct {
	ServiceNo string `json:"service_no"`
	ETAs      []int  `json:"etas"`
}

// Snapshot holds the records fetched for one stop in one polling cycle.
// Records keep the upstream response order; duplicates are passed through.
type Snapshot struct {
	StopCode  string    `json:"stop_code"`
	Records   []Record  `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether the snapshot carries no arrivals.
func (s Snapshot) Empty() bool { return len(s.Records) == 0 }

// Source produces the arrivals for a single stop.
type Source interface {
	Fetch(ctx context.Context, stopCode string) (Snapshot, error)
}
