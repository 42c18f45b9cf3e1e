package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/mentoro/internal/ai"
	"github.com/yungbote/mentoro/internal/progression"
)

func newOfflineBuddy(t *testing.T) (BuddyService, *progression.Store) {
	t.Helper()
	store, err := progression.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	gen, err := ai.NewGenerator(ai.GeneratorOptions{})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return NewBuddyService(nil, store, gen), store
}

func TestBuddyFlashcardCommandStartsSession(t *testing.T) {
	b, store := newOfflineBuddy(t)

	res, err := b.Send(context.Background(), "Make flashcards on react, easy please")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(res.Flashcards) != 5 {
		t.Fatalf("cards=%d want 5", len(res.Flashcards))
	}
	for _, c := range res.Flashcards {
		if c.Difficulty != progression.CardEasy || c.Category != "react" {
			t.Fatalf("card: %+v", c)
		}
	}
	if len(res.Replies) != 3 || res.Topic != "react" || b.Topic() != "react" {
		t.Fatalf("replies=%d topic=%q", len(res.Replies), res.Topic)
	}
	if !strings.Contains(res.Replies[1].Content, "easy flashcards about react") {
		t.Fatalf("confirmation: %q", res.Replies[1].Content)
	}

	st := store.State()
	if !st.FlashcardSession.Active || len(st.FlashcardSession.Cards) != 5 || st.FlashcardSession.Topic != "react" {
		t.Fatalf("session: %+v", st.FlashcardSession)
	}
	if len(st.ChatHistory) != 4 {
		t.Fatalf("chat history=%d want 4", len(st.ChatHistory))
	}
	if st.ChatHistory[0].Sender != progression.SenderUser || st.ChatHistory[1].Sender != progression.SenderAI {
		t.Fatalf("senders: %q %q", st.ChatHistory[0].Sender, st.ChatHistory[1].Sender)
	}
}

func TestBuddySuggestsFlashcardsForNewTopic(t *testing.T) {
	b, store := newOfflineBuddy(t)

	res, err := b.Send(context.Background(), "how do I learn python loops")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Topic != "python" {
		t.Fatalf("topic=%q", res.Topic)
	}
	if len(res.Replies) != 2 || res.Replies[1].Content != ai.SuggestionMessage("python") {
		t.Fatalf("replies: %+v", res.Replies)
	}
	if !strings.HasPrefix(res.Replies[0].Content, "I love your curiosity") {
		t.Fatalf("reply: %q", res.Replies[0].Content)
	}
	if store.State().FlashcardSession.Active {
		t.Fatalf("no session expected")
	}

	// Same topic again: no second suggestion.
	res, _ = b.Send(context.Background(), "explain python loops again")
	if len(res.Replies) != 1 {
		t.Fatalf("replies=%d want 1", len(res.Replies))
	}
}

func TestBuddyRejectsEmptyMessage(t *testing.T) {
	b, store := newOfflineBuddy(t)
	if _, err := b.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err=%v", err)
	}
	if n := len(store.State().ChatHistory); n != 0 {
		t.Fatalf("history=%d", n)
	}
}

func TestBuddyConversationFlashcards(t *testing.T) {
	b, store := newOfflineBuddy(t)
	b.SetDifficulty(progression.CardHard)
	b.SetDifficulty("impossible")

	cards := b.Flashcards(context.Background(), "css", "", 2)
	if len(cards) != 2 || cards[0].Difficulty != progression.CardHard {
		t.Fatalf("cards: %+v", cards)
	}

	cards = b.ConversationFlashcards(context.Background(), "")
	if len(cards) != 3 {
		t.Fatalf("conversation cards=%d want 3", len(cards))
	}
	if got := store.State().FlashcardSession.Cards; len(got) != 3 {
		t.Fatalf("session cards=%d", len(got))
	}
}
