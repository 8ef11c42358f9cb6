// Package gtfsrt reads arrivals at a stop from a GTFS-Realtime TripUpdates feed.
//
// Source implements arrivals.Source, so a board can run against any agency that
// publishes GTFS-RT instead of the DataMall API. Route ids are shown by their
// route_short_name when a static GTFS zip is configured.
package gtfsrt
