package app

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mentoro/internal/config"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/session"
	"github.com/yungbote/mentoro/internal/sse"
)

func TestWireStoreEmitsAndPersists(t *testing.T) {
	log := logger.NewNop()
	events, err := wireEvents(log, config.SSEConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if events.Bus != nil {
		t.Fatalf("bus wired without redis addr")
	}

	client := events.Hub.NewClient()
	events.Hub.AddChannel(client, sse.ChannelProgression)
	defer events.Hub.RemoveClient(client)

	cfg := config.StoreConfig{Driver: "memory", Key: "test-store", RankLadder: "medical"}
	store, blob, err := wireStore(context.Background(), log, cfg, events)
	if err != nil {
		t.Fatal(err)
	}
	defer blob.Close()

	store.GrantXP(10, "test")

	select {
	case msg := <-client.Outbound:
		if msg.Event != sse.EventStateChanged {
			t.Fatalf("event=%q", msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("no state change broadcast")
	}

	raw, err := blob.Get(context.Background(), "test-store")
	if err != nil || len(raw) == 0 {
		t.Fatalf("snapshot not saved: %v", err)
	}
}

func TestSignedInUser(t *testing.T) {
	store, err := progression.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewManager(nil, "", "")
	identity := signedInUser(store, sessions)

	if got := identity(); got != "" {
		t.Fatalf("guest identity=%q", got)
	}
	store.Login(progression.Profile{ID: "u1", Username: "ada"})
	if got := identity(); got != "" {
		t.Fatalf("identity without session=%q", got)
	}
	sessions.Set("tok")
	if got := identity(); got != "u1" {
		t.Fatalf("identity=%q", got)
	}
}
