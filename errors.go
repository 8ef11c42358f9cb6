package busboard

import (
	"context"
	"errors"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/epd"
)

// Kind groups errors by how the refresh loop reacts to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindCanceled
	KindNetwork
	KindParse
	KindHardware
)

func (k Kind) String() string {
	switch k {
	case KindCanceled:
		return "canceled"
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// Fatal reports whether the loop must stop. Only the panel is unrecoverable;
// everything else is retried on the next tick.
func (k Kind) Fatal() bool { return k == KindHardware }

// Classify maps err onto a Kind. Cancellation wins over the error it is wrapped in.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var hw *epd.HardwareError
	var nerr *arrivals.NetworkError
	var perr *arrivals.ParseError
	switch {
	case errors.As(err, &hw):
		return KindHardware
	case errors.As(err, &nerr):
		return KindNetwork
	case errors.As(err, &perr):
		return KindParse
	default:
		return KindUnknown
	}
}
