package goalserve

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguefeed/internal/config"
	"github.com/omarshaarawi/leaguefeed/internal/leagues"
)

// instantTimer fires immediately and records every requested wait.
type instantTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time {
	return t.c
}

func newTestClient(baseURL string) (*Client, *instantTimer) {
	timer := &instantTimer{}
	c := NewClient(config.Feed{BaseURL: baseURL, APIKey: "key"})
	c.timer = timer
	return c, timer
}

func TestFetchReturnsBodyAndSendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<league/>"))
	}))
	defer srv.Close()

	c, timer := newTestClient(srv.URL)
	body, err := c.Fetch(srv.URL, 3, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<league/>" {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected browser user agent, got %q", gotUA)
	}
	if !strings.Contains(gotAccept, "application/xml") {
		t.Fatalf("unexpected accept header %q", gotAccept)
	}
	if len(timer.waits) != 0 {
		t.Fatalf("expected no waits, got %v", timer.waits)
	}
}

func TestFetchRetriesNon200(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, timer := newTestClient(srv.URL)
	body, err := c.Fetch(srv.URL, 3, time.Second)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if len(timer.waits) != 2 || timer.waits[0] != errorDelay || timer.waits[1] != errorDelay {
		t.Fatalf("expected two %s waits, got %v", errorDelay, timer.waits)
	}
}

func TestFetchTimeoutThenSuccessOnLastAttempt(t *testing.T) {
	const maxRetries = 3
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < maxRetries {
			time.Sleep(200 * time.Millisecond)
		}
		_, _ = w.Write([]byte("late but fine"))
	}))
	defer srv.Close()

	c, timer := newTestClient(srv.URL)
	body, err := c.Fetch(srv.URL, maxRetries, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("expected success on last attempt, got %v", err)
	}
	if string(body) != "late but fine" {
		t.Fatalf("unexpected body %q", body)
	}
	if calls.Load() != maxRetries {
		t.Fatalf("expected %d attempts, got %d", maxRetries, calls.Load())
	}
	for _, w := range timer.waits {
		if w != timeoutDelay {
			t.Fatalf("expected %s waits after timeouts, got %v", timeoutDelay, timer.waits)
		}
	}
}

func TestFetchTimeoutExhaustsRetries(t *testing.T) {
	const maxRetries = 3
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, timer := newTestClient(srv.URL)
	_, err := c.Fetch(srv.URL, maxRetries, 50*time.Millisecond)
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("expected ErrMaxRetriesExceeded, got %v", err)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.Attempts != maxRetries {
		t.Fatalf("expected %d attempts recorded, got %d", maxRetries, fetchErr.Attempts)
	}
	if fetchErr.Last.Kind != KindTimeout {
		t.Fatalf("expected last error to be a timeout, got %s", fetchErr.Last.Kind)
	}
	if calls.Load() != maxRetries {
		t.Fatalf("expected exactly %d requests, got %d", maxRetries, calls.Load())
	}
	if len(timer.waits) != maxRetries-1 {
		t.Fatalf("expected no wait after the final attempt, got %v", timer.waits)
	}
}

func TestFetchHTTPErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	_, err := c.Fetch(srv.URL, 1, time.Second)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError in chain, got %v", err)
	}
	if reqErr.Kind != KindHTTP || reqErr.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected request error %+v", reqErr)
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, timer := newTestClient(url)
	_, err := c.Fetch(url, 2, time.Second)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Last.Kind != KindTransport {
		t.Fatalf("expected transport error, got %s", fetchErr.Last.Kind)
	}
	if len(timer.waits) != 1 || timer.waits[0] != errorDelay {
		t.Fatalf("expected a single %s wait, got %v", errorDelay, timer.waits)
	}
}

func TestFetchInvalidURLIsNotRetried(t *testing.T) {
	c, timer := newTestClient("")
	_, err := c.Fetch("://bad", 3, time.Second)
	if err == nil {
		t.Fatal("expected error for invalid url")
	}
	if errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if len(timer.waits) != 0 {
		t.Fatalf("expected no retries, got %v", timer.waits)
	}
}

func TestFeedURLsContainLeagueID(t *testing.T) {
	api := NewAPI(NewClient(config.Feed{BaseURL: "https://www.goalserve.com/getfeed/", APIKey: "key"}))

	if got := api.PlayersURL("1204"); got != "https://www.goalserve.com/getfeed/key/soccerleague/1204" {
		t.Fatalf("unexpected players url %q", got)
	}
	if got := api.FixturesURL("1204"); got != "https://www.goalserve.com/getfeed/key/soccerfixtures/leagueid/1204" {
		t.Fatalf("unexpected fixtures url %q", got)
	}

	for _, ref := range leagues.All() {
		if !strings.HasSuffix(api.PlayersURL(ref.ID), "/soccerleague/"+ref.ID) {
			t.Fatalf("players url for %s %s missing id %s", ref.Country, ref.League, ref.ID)
		}
		if !strings.HasSuffix(api.FixturesURL(ref.ID), "/leagueid/"+ref.ID) {
			t.Fatalf("fixtures url for %s %s missing id %s", ref.Country, ref.League, ref.ID)
		}
	}
}

func TestPlayersDocumentRequestsLeaguePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("<teams/>"))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	api := NewAPI(c)
	if _, err := api.PlayersDocument("1399", 1, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/key/soccerleague/1399" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}
