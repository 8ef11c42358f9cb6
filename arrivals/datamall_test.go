package arrivals

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// sgt formats an SGT timestamp offset from testNow, the way DataMall sends them.
func sgt(offset time.Duration) string {
	return testNow.Add(offset).In(time.FixedZone("SGT", 8*60*60)).Format(time.RFC3339)
}

func newTestDataMall(t *testing.T, handler http.HandlerFunc, logs io.Writer) *DataMall {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if logs == nil {
		logs = io.Discard
	}
	return NewDataMall("test-key",
		WithBaseURL(srv.URL+"/"),
		WithClock(clockwork.NewFakeClockAt(testNow)),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
}

func TestDataMall_Fetch_Success(t *testing.T) {
	body := `{
		"BusStopCode": "53241",
		"Services": [
			{"ServiceNo": "172",
			 "NextBus":  {"EstimatedArrival": "` + sgt(3*time.Minute) + `"},
			 "NextBus2": {"EstimatedArrival": "` + sgt(12*time.Minute) + `"},
			 "NextBus3": {"EstimatedArrival": ""}},
			{"ServiceNo": "88",
			 "NextBus":  {"EstimatedArrival": ""},
			 "NextBus2": {"EstimatedArrival": ""},
			 "NextBus3": {"EstimatedArrival": ""}},
			{"ServiceNo": "52",
			 "NextBus":  {"EstimatedArrival": "` + sgt(-1*time.Minute) + `"},
			 "NextBus2": {"EstimatedArrival": "` + sgt(90*time.Second) + `"},
			 "NextBus3": {"EstimatedArrival": "` + sgt(25*time.Minute) + `"}},
			{"ServiceNo": "172"}
		]
	}`

	dm := newTestDataMall(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, busArrivalEndpoint, r.URL.Path)
		assert.Equal(t, "53241", r.URL.Query().Get("BusStopCode"))
		assert.Equal(t, "test-key", r.Header.Get("AccountKey"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}, nil)

	snap, err := dm.Fetch(context.Background(), "53241")
	require.NoError(t, err)

	assert.Equal(t, "53241", snap.StopCode)
	assert.Equal(t, testNow, snap.FetchedAt)
	assert.Equal(t, []Record{
		{ServiceNo: "172", ETAs: []int{3, 12}},
		{ServiceNo: "52", ETAs: []int{-1, 2, 25}},
	}, snap.Records)

	for _, rec := range snap.Records {
		assert.NotEmpty(t, rec.ETAs)
		assert.LessOrEqual(t, len(rec.ETAs), MaxETAs)
	}
}

func TestDataMall_Fetch_DuplicateServicesPassThrough(t *testing.T) {
	body := `{"Services": [
		{"ServiceNo": "15", "NextBus": {"EstimatedArrival": "` + sgt(time.Minute) + `"}},
		{"ServiceNo": "15", "NextBus": {"EstimatedArrival": "` + sgt(4*time.Minute) + `"}}
	]}`
	dm := newTestDataMall(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}, nil)

	snap, err := dm.Fetch(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "15", snap.Records[0].ServiceNo)
	assert.Equal(t, "15", snap.Records[1].ServiceNo)
}

func TestDataMall_Fetch_NonOKIsEmptyNotError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var logs bytes.Buffer
			dm := newTestDataMall(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, `{"fault":"denied"}`)
			}, &logs)

			snap, err := dm.Fetch(context.Background(), "53249")
			require.NoError(t, err)
			assert.True(t, snap.Empty())
			assert.Equal(t, "53249", snap.StopCode)
			assert.Contains(t, logs.String(), `"msg":"bus arrival request failed"`)
			assert.Contains(t, logs.String(), `"stop":"53249"`)
		})
	}
}

func TestDataMall_Fetch_MalformedJSON(t *testing.T) {
	dm := newTestDataMall(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Services": [`)
	}, nil)

	_, err := dm.Fetch(context.Background(), "1")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestDataMall_Fetch_BadTimestamp(t *testing.T) {
	dm := newTestDataMall(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Services":[{"ServiceNo":"7","NextBus":{"EstimatedArrival":"soon"}}]}`)
	}, nil)

	_, err := dm.Fetch(context.Background(), "1")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestDataMall_Fetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	dm := NewDataMall("k", WithBaseURL(url), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err := dm.Fetch(context.Background(), "1")
	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, nerr.URL, "BusStopCode=1")
}

func TestDataMall_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	dm := NewDataMall("k",
		WithBaseURL(srv.URL),
		WithFetcher(NewHTTPFetcher(NewHTTPClient(50*time.Millisecond), nil)),
	)
	_, err := dm.Fetch(context.Background(), "1")
	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
}

func TestNewDataMall_Defaults(t *testing.T) {
	dm := NewDataMall("k", WithBaseURL("  "))
	assert.Equal(t, DefaultDataMallURL, dm.baseURL)
	assert.NotNil(t, dm.fetcher)
}
