package gtfsrt

import (
	"context"
	"net/http"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
)

// Client fetches and decodes GTFS-RT feeds.
type Client struct {
	fetcher *arrivals.HTTPFetcher
}

// NewClient wraps fetcher; nil gets a default one.
func NewClient(fetcher *arrivals.HTTPFetcher) *Client {
	if fetcher == nil {
		fetcher = arrivals.NewHTTPFetcher(nil, nil)
	}
	return &Client{fetcher: fetcher}
}

// Fetch downloads url and decodes the feed. A non-200 answer is not an error: the
// response comes back with a nil feed so the caller can log it.
func (c *Client) Fetch(ctx context.Context, url string, header http.Header) (*gtfsrtpb.FeedMessage, *arrivals.Response, error) {
	resp, err := c.fetcher.Get(ctx, url, header)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}

	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(resp.Body, fm); err != nil {
		return nil, resp, &arrivals.ParseError{What: "gtfs-rt feed", Err: err}
	}
	return fm, resp, nil
}
