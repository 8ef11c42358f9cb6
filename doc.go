// Package busboard shows live bus arrivals for two stops on an e-paper panel.
//
// A Board fetches both stops from an arrivals.Source, renders them side by side and
// pushes the frame to an epd.Panel, once immediately and then on a fixed interval.
// Network and parse failures skip a cycle and leave the previous frame on the panel;
// panel failures stop the board. An optional Server exposes the board's state.
package busboard
