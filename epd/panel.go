// Package epd is the boundary between rendered frames and an e-paper panel.
package epd

import (
	"fmt"
	"image"
)

// Panel is a full-refresh monochrome display. Bounds is the landscape canvas the
// renderer should draw into; Buffer converts such a canvas to the panel's native
// memory layout, which Display then transfers.
type Panel interface {
	Bounds() image.Rectangle
	Init() error
	Clear() error
	Buffer(img image.Image) []byte
	Display(buf []byte) error
	Close() error
}

// HardwareError reports a failed panel operation.
type HardwareError struct {
	Op  string
	Err error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("epd: %s: %v", e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &HardwareError{Op: op, Err: err}
}
