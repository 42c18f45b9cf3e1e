package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/session"
)

type countingStarter struct{ n atomic.Int32 }

func (c *countingStarter) Start(context.Context) bool {
	c.n.Add(1)
	return true
}

func TestAccountLoginUsesBackendProfile(t *testing.T) {
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth header: %q", r.Header.Get("Authorization"))
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"id":"u9","username":"grace","total_xp":2500}`)),
		}, nil
	})
	sessions := session.NewManager(nil, "", "")
	client, err := backend.New(backend.Options{BaseURL: "http://backend.test", HTTPClient: &http.Client{Transport: rt}, Session: sessions})
	if err != nil {
		t.Fatal(err)
	}
	store, _ := progression.NewStore()
	starter := &countingStarter{}
	acct := NewAccountService(context.Background(), nil, store, sessions, client, starter)

	p, err := acct.Login(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.ID != "u9" || p.Username != "grace" || p.Level != 3 {
		t.Fatalf("profile: %+v", p)
	}
	if p.Streak < 1 {
		t.Fatalf("streak not updated: %d", p.Streak)
	}
	if acct.Identity() != "u9" || starter.n.Load() != 1 {
		t.Fatalf("identity=%q starts=%d", acct.Identity(), starter.n.Load())
	}

	acct.Logout(context.Background())
	if acct.Identity() != "" || sessions.Authenticated() || store.State().Authenticated {
		t.Fatalf("still signed in after logout")
	}
}

func TestAccountLoginErrors(t *testing.T) {
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusUnauthorized, Body: io.NopCloser(strings.NewReader(``))}, nil
	})
	sessions := session.NewManager(nil, "", "")
	client, _ := backend.New(backend.Options{BaseURL: "http://backend.test", HTTPClient: &http.Client{Transport: rt}, Session: sessions})
	store, _ := progression.NewStore()
	acct := NewAccountService(context.Background(), nil, store, sessions, client, nil)

	if _, err := acct.Login(context.Background(), " "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("blank token: %v", err)
	}
	if _, err := acct.Login(context.Background(), "tok"); !errors.Is(err, backend.ErrSessionExpired) {
		t.Fatalf("rejected token: %v", err)
	}
	if store.State().Authenticated {
		t.Fatalf("store signed in after 401")
	}
}

func TestAccountFallbackKeepsSignedInProfile(t *testing.T) {
	var down atomic.Bool
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		if down.Load() {
			return nil, errors.New("connection refused")
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"id":"u9","username":"grace","total_xp":2500}`)),
		}, nil
	})
	sessions := session.NewManager(nil, "", "")
	client, err := backend.New(backend.Options{BaseURL: "http://backend.test", HTTPClient: &http.Client{Transport: rt}, Session: sessions})
	if err != nil {
		t.Fatal(err)
	}
	store, _ := progression.NewStore()
	acct := NewAccountService(context.Background(), nil, store, sessions, client, nil)

	if _, err := acct.Login(context.Background(), "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	store.GrantXP(300, "quest")
	down.Store(true)

	p, err := acct.SyncProfile(context.Background())
	if err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}
	if p.ID != "u9" || p.Username != "grace" || p.TotalXP != 2800 || p.Level != 3 {
		t.Fatalf("sync while offline replaced profile: %+v", p)
	}

	p, err = acct.Login(context.Background(), "tok")
	if err != nil {
		t.Fatalf("re-login: %v", err)
	}
	if p.ID != "u9" || p.TotalXP != 2800 {
		t.Fatalf("re-login while offline replaced profile: %+v", p)
	}

	down.Store(false)
	p, err = acct.SyncProfile(context.Background())
	if err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}
	if p.ID != "u9" || p.TotalXP != 2800 {
		t.Fatalf("stale remote lowered xp: %+v", p)
	}
}

func TestAccountOfflineLoginUsesDemoProfile(t *testing.T) {
	rt := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	sessions := session.NewManager(nil, "", "")
	client, _ := backend.New(backend.Options{BaseURL: "http://backend.test", HTTPClient: &http.Client{Transport: rt}, Session: sessions})
	store, _ := progression.NewStore()
	acct := NewAccountService(context.Background(), nil, store, sessions, client, nil)

	p, err := acct.Login(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.ID != "demo-user" || !store.State().Authenticated {
		t.Fatalf("offline login: %+v", p)
	}
}
