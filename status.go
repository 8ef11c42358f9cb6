package busboard

import (
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
)

// Status is a point-in-time view of the board for the status server.
type Status struct {
	Cycles    int                  `json:"cycles"`
	Failures  int                  `json:"failures"`
	LastCycle time.Time            `json:"last_cycle"`
	LastError string               `json:"last_error,omitempty"`
	ErrorKind string               `json:"error_kind,omitempty"`
	Stops     [2]arrivals.Snapshot `json:"stops"`
	Hidden    [2]int               `json:"hidden"`
}

type statusStore struct {
	mu     sync.RWMutex
	status Status
	frame  []byte
}

func (s *statusStore) recordCycle(at time.Time, stops [2]arrivals.Snapshot, hidden [2]int, frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Cycles++
	s.status.LastCycle = at
	s.status.LastError = ""
	s.status.ErrorKind = ""
	s.status.Stops = stops
	s.status.Hidden = hidden
	if frame != nil {
		s.frame = frame
	}
}

func (s *statusStore) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Failures++
	s.status.LastError = err.Error()
	s.status.ErrorKind = Classify(err).String()
}

func (s *statusStore) snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *statusStore) lastFrame() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}
