package busboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
)

type healthResponse struct {
	Status        string `json:"status"`
	Cycles        int    `json:"cycles"`
	Failures      int    `json:"failures"`
	LastCycle     string `json:"last_cycle,omitempty"`
	AgeSeconds    int64  `json:"age_seconds"`
	LastError     string `json:"last_error,omitempty"`
	LastErrorKind string `json:"last_error_kind,omitempty"`
}

type stopResponse struct {
	Title    string            `json:"title"`
	Snapshot arrivals.Snapshot `json:"snapshot"`
	Hidden   int               `json:"hidden"`
}

type arrivalsResponse struct {
	Stops [2]stopResponse `json:"stops"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// healthStatus is "degraded" until a cycle succeeds after a failure.
func healthStatus(st Status) string {
	if st.LastError != "" {
		return "degraded"
	}
	return "ok"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.board.Status()
	writeJSON(w, healthResponse{
		Status:        healthStatus(st),
		Cycles:        st.Cycles,
		Failures:      st.Failures,
		LastCycle:     iso8601(st.LastCycle),
		AgeSeconds:    secondsSince(st.LastCycle, s.board.clock.Now()),
		LastError:     st.LastError,
		LastErrorKind: st.ErrorKind,
	})
}

func (s *Server) handleArrivals(w http.ResponseWriter, r *http.Request) {
	st := s.board.Status()
	var resp arrivalsResponse
	for i := range resp.Stops {
		resp.Stops[i] = stopResponse{
			Title:    s.board.stops[i].Title,
			Snapshot: st.Stops[i],
			Hidden:   st.Hidden[i],
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame := s.board.Frame()
	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}
