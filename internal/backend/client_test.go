package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/mentoro/internal/platform/apierr"
	"github.com/yungbote/mentoro/internal/platform/ctxutil"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeSession struct {
	token       string
	invalidated int
}

func (s *fakeSession) Token() string { return s.token }
func (s *fakeSession) Invalidate(string) {
	s.invalidated++
	s.token = ""
}

func newTestClient(t *testing.T, rt http.RoundTripper, opts ...func(*Options)) *Client {
	t.Helper()
	o := Options{
		BaseURL:    "http://backend.test/",
		Timeout:    time.Second,
		HTTPClient: &http.Client{Transport: rt},
		Now:        func() time.Time { return testNow },
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestEveryEndpointHasRouteAndFallback(t *testing.T) {
	seen := map[string]Endpoint{}
	for e := Endpoint(0); e < endpointCount; e++ {
		method, path := e.Route()
		if method == "" || path == "" {
			t.Fatalf("%d: missing route", int(e))
		}
		if e.String() == "" || e.String() == "unknown" {
			t.Fatalf("%d: missing name", int(e))
		}
		key := method + " " + path
		if prev, dup := seen[key]; dup {
			t.Fatalf("%s and %s share route %s", prev, e, key)
		}
		seen[key] = e
		if fallbackFor(e, request{}, testNow) == nil {
			t.Fatalf("%s: missing fallback", e)
		}
	}
	if endpointCount.String() != "unknown" {
		t.Fatalf("sentinel has a name")
	}
}

func TestTransportFailureResolvesToFallback(t *testing.T) {
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	c := newTestClient(t, rt)
	ctx := context.Background()

	for e := Endpoint(0); e < endpointCount; e++ {
		want := fallbackFor(e, request{}, testNow)
		got, err := call[any](ctx, c, e, request{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", e, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got=%#v want=%#v", e, got, want)
		}
	}
}

func TestTypedFallbacks(t *testing.T) {
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c := newTestClient(t, rt)
	ctx := context.Background()

	p, err := c.CreateProfile(ctx, ProfileInput{Username: "ada", Avatar: "🦄"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "demo-user" || p.Username != "ada" || p.Avatar != "🦄" || p.Rank != "Bronze I" {
		t.Fatalf("profile fallback: %+v", p)
	}

	xp, _ := c.AddXP(ctx, AddXPRequest{Amount: 40, Source: "quest"})
	if xp != (XPResult{XP: 40, TotalXP: 40, Level: 1}) {
		t.Fatalf("xp fallback: %+v", xp)
	}

	task, _ := c.GenerateDIYTask(ctx, DIYRequest{Topic: "React", Level: "beginner", ProjectType: "todo app", Technologies: []string{"react"}})
	if task.Title != "React Practice Project" || task.Description != "Build a todo app focused on React" || task.Difficulty != "beginner" || task.XPReward != 500 {
		t.Fatalf("diy fallback: %+v", task)
	}

	play, _ := c.PlayFlashcard(ctx, "card-1", true, 1200)
	if play.XPEarned != 25 || !play.Correct {
		t.Fatalf("play fallback: %+v", play)
	}
	play, _ = c.PlayFlashcard(ctx, "card-1", false, 1200)
	if play.XPEarned != 0 {
		t.Fatalf("play fallback (wrong): %+v", play)
	}

	mood, _ := c.LogMood(ctx, MoodEntry{Mood: "focused", Intensity: 4})
	if mood.ID != "demo-mood" || mood.Mood != "focused" || !mood.CreatedAt.Equal(testNow) {
		t.Fatalf("mood fallback: %+v", mood)
	}

	rev, _ := c.ReviewSubmission(ctx, "sub-9", ReviewInput{Rating: 5})
	if rev.ID != "demo-review" || rev.SubmissionID != "sub-9" || rev.Rating != 5 {
		t.Fatalf("review fallback: %+v", rev)
	}

	reply, _ := c.BuddyChat(ctx, "hi", "")
	if reply.Response != demoChatReply {
		t.Fatalf("chat fallback: %q", reply.Response)
	}
}

func TestNon2xxAndBadBodyFallBack(t *testing.T) {
	cases := map[string]*http.Response{
		"server error": jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`),
		"not found":    jsonResponse(http.StatusNotFound, ``),
		"bad json":     jsonResponse(http.StatusOK, `<html>`),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			rt := roundTripperFunc(func(*http.Request) (*http.Response, error) { return resp, nil })
			c := newTestClient(t, rt)
			got, err := c.Leaderboard(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Leaderboard == nil || len(got.Leaderboard) != 0 {
				t.Fatalf("expected empty leaderboard fallback, got %+v", got)
			}
		})
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"detail":"expired"}`), nil
	})
	sess := &fakeSession{token: "tok"}
	var fired int
	c := newTestClient(t, rt, func(o *Options) {
		o.Session = sess
		o.OnSessionExpired = func() { fired++ }
		o.MaxRetries = 3
	})

	_, err := c.GetProfile(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err: got=%v want=%v", err, ErrSessionExpired)
	}
	if apierr.StatusOf(err) != http.StatusUnauthorized || apierr.CodeOf(err) != "session_expired" {
		t.Fatalf("apierr: status=%d code=%s", apierr.StatusOf(err), apierr.CodeOf(err))
	}
	if sess.invalidated != 1 || fired != 1 {
		t.Fatalf("invalidated=%d fired=%d", sess.invalidated, fired)
	}
}

func TestRequestHeadersAndDecoding(t *testing.T) {
	var gotAuth, gotRID, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRID = r.Header.Get("X-Request-Id")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"cards":[{"id":"c1","question":"q","answer":"a","category":"react","difficulty":"easy"}]}`)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Session: &fakeSession{token: "tok"}})
	if err != nil {
		t.Fatal(err)
	}
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-1"})
	list, err := c.Flashcards(ctx, "react", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Cards) != 1 || list.Cards[0].ID != "c1" {
		t.Fatalf("decoded: %+v", list)
	}
	if gotAuth != "Bearer tok" || gotRID != "req-1" {
		t.Fatalf("headers: auth=%q request_id=%q", gotAuth, gotRID)
	}
	if gotPath != "/api/flashcards" || gotQuery != "category=react" {
		t.Fatalf("url: path=%q query=%q", gotPath, gotQuery)
	}
}

func TestPathParameterIsEscaped(t *testing.T) {
	var gotPath string
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.EscapedPath()
		return jsonResponse(http.StatusOK, `{"status":"joined"}`), nil
	})
	c := newTestClient(t, rt)
	if _, err := c.JoinBattle(context.Background(), "a/b"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/battles/a%2Fb/join" {
		t.Fatalf("path: %q", gotPath)
	}
}

func TestRetriesServerErrorsOnly(t *testing.T) {
	var calls atomic.Int32
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return jsonResponse(http.StatusBadGateway, ``), nil
		}
		return jsonResponse(http.StatusOK, `{"status":"completed","xp_earned":150}`), nil
	})
	c := newTestClient(t, rt, func(o *Options) { o.MaxRetries = 1 })
	got, err := c.CompleteGoal(context.Background(), "goal-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.XPEarned != 150 || calls.Load() != 2 {
		t.Fatalf("got=%+v calls=%d", got, calls.Load())
	}

	calls.Store(0)
	rt400 := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusBadRequest, ``), nil
	})
	c = newTestClient(t, rt400, func(o *Options) { o.MaxRetries = 3 })
	if _, err := c.CompleteGoal(context.Background(), "goal-1"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx retried: calls=%d", calls.Load())
	}
}

func TestHangingBackendTimesOutToFallback(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, MaxRetries: 3, Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	got, err := c.FetchProfile(context.Background())
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !got.Fallback || got.Value.ID != "demo-user" {
		t.Fatalf("got=%+v", got)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("timeout not applied per call: elapsed=%s", elapsed)
	}
	if hits.Load() > 1 {
		t.Fatalf("retried after deadline: hits=%d", hits.Load())
	}

	if _, err := c.GetProfile(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
}

func TestFetchProfileReportsSource(t *testing.T) {
	c := newTestClient(t, roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":"u9","username":"grace","total_xp":2500}`), nil
	}))
	got, err := c.FetchProfile(context.Background())
	if err != nil || got.Fallback || got.Value.ID != "u9" {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}
