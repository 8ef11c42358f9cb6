// Package arrivals fetches bus arrival predictions for a stop and turns them into
// minutes-until-arrival records ready for display.
//
// The main type is DataMall, a client for the LTA DataMall BusArrival v3 endpoint.
// Any other feed can be plugged in by implementing Source (see package gtfsrt).
//
// A non-200 response is not an error: it is logged and yields an empty Snapshot.
// Transport failures surface as *NetworkError and undecodable payloads as *ParseError,
// so callers can decide per kind whether to keep polling.
package arrivals
