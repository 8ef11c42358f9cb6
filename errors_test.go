package busboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
	"github.com/theoremus-urban-solutions/busboard/epd"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  Kind
		fatal bool
	}{
		{"nil", nil, KindUnknown, false},
		{"plain", errors.New("boom"), KindUnknown, false},
		{"canceled", context.Canceled, KindCanceled, false},
		{"canceled request", &arrivals.NetworkError{URL: "u", Err: context.Canceled}, KindCanceled, false},
		{"network", fmt.Errorf("stop %q: %w", "1", &arrivals.NetworkError{URL: "u", Err: errors.New("refused")}), KindNetwork, false},
		{"parse", fmt.Errorf("stop: %w", &arrivals.ParseError{What: "json", Err: errors.New("eof")}), KindParse, false},
		{"hardware", &epd.HardwareError{Op: "display", Err: errors.New("spi")}, KindHardware, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fatal, got.Fatal())
			assert.NotEmpty(t, got.String())
		})
	}
}
