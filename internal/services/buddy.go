package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentoro/internal/ai"
	"github.com/yungbote/mentoro/internal/platform/apierr"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
)

const (
	buddyCardCount    = 5
	buddyRecentWindow = 6
)

var ErrEmptyMessage = apierr.New(http.StatusBadRequest, "empty_message", errors.New("message is empty"))

// ChatResult is what one user message produced.
type ChatResult struct {
	Replies    []progression.ChatMessage `json:"replies"`
	Flashcards []progression.Flashcard   `json:"flashcards,omitempty"`
	Topic      string                    `json:"topic,omitempty"`
}

type BuddyService interface {
	// Send records message, asks the current personality for a reply and
	// acts on any flashcard request it contains.
	Send(ctx context.Context, message string) (ChatResult, error)
	// Flashcards generates a deck and starts a practice session with it.
	Flashcards(ctx context.Context, topic string, difficulty progression.CardDifficulty, count int) []progression.Flashcard
	// ConversationFlashcards builds a deck from the recent chat.
	ConversationFlashcards(ctx context.Context, difficulty progression.CardDifficulty) []progression.Flashcard
	SetDifficulty(d progression.CardDifficulty)
	Topic() string
}

type buddyService struct {
	log   *logger.Logger
	store *progression.Store
	gen   *ai.Generator
	now   func() time.Time

	mu         sync.Mutex
	topic      string
	difficulty progression.CardDifficulty
}

func NewBuddyService(log *logger.Logger, store *progression.Store, gen *ai.Generator) BuddyService {
	if log == nil {
		log = logger.NewNop()
	}
	return &buddyService{
		log:        log.With("service", "BuddyService"),
		store:      store,
		gen:        gen,
		now:        time.Now,
		difficulty: progression.CardMedium,
	}
}

func (s *buddyService) Send(ctx context.Context, message string) (ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatResult{}, ErrEmptyMessage
	}
	s.mu.Lock()
	topic, difficulty := s.topic, s.difficulty
	s.mu.Unlock()

	cmd := ai.DetectCommand(message, topic, difficulty)
	recent := s.recent()
	s.store.AddChatMessage(progression.ChatMessage{Content: message, Sender: progression.SenderUser})

	st := s.store.State()
	p := st.CurrentPersonality
	reply := s.gen.Chat(ctx, message, p, ai.UserContext{
		Level:  st.Profile.Level,
		Mood:   string(st.Profile.Mood),
		Topic:  topic,
		Recent: recent,
	})

	var res ChatResult
	res.Replies = append(res.Replies, s.say(reply, string(p.Style)))

	if cmd.Flashcards {
		res.Replies = append(res.Replies, s.say(
			fmt.Sprintf("🎯 I'll create some %s flashcards about %s for you! Give me a moment to generate them...", cmd.Difficulty, cmd.Topic),
			"helpful",
		))
		res.Flashcards = s.Flashcards(ctx, cmd.Topic, cmd.Difficulty, buddyCardCount)
		res.Replies = append(res.Replies, s.say(
			fmt.Sprintf("✅ Perfect! I've created %d %s flashcards about %s! Each correct answer earns you %d XP! 🎯", len(res.Flashcards), cmd.Difficulty, cmd.Topic, progression.XPPerCorrectCard),
			"helpful",
		))
		s.setTopic(cmd.Topic)
		res.Topic = cmd.Topic
		return res, nil
	}

	next, suggest := ai.FollowTopic(message, reply, topic)
	s.setTopic(next)
	res.Topic = next
	if suggest {
		res.Replies = append(res.Replies, s.say(ai.SuggestionMessage(next), "helpful"))
	}
	return res, nil
}

func (s *buddyService) Flashcards(ctx context.Context, topic string, difficulty progression.CardDifficulty, count int) []progression.Flashcard {
	if difficulty == "" {
		s.mu.Lock()
		difficulty = s.difficulty
		s.mu.Unlock()
	}
	prof := s.store.Profile()
	cards := s.gen.Flashcards(ctx, ai.FlashcardRequest{
		Topic:      topic,
		Difficulty: difficulty,
		Count:      count,
		UserLevel:  prof.Level,
	})
	s.store.StartFlashcardSession(topic, cards)
	s.log.Debug("Flashcard session started", "topic", topic, "cards", len(cards))
	return cards
}

func (s *buddyService) ConversationFlashcards(ctx context.Context, difficulty progression.CardDifficulty) []progression.Flashcard {
	recent := s.recent()
	cards := s.gen.TopicFlashcards(ctx, strings.Join(recent, "\n"), difficulty, 0)
	s.store.StartFlashcardSession(s.Topic(), cards)
	s.say("🎯 I've created flashcards based on our conversation! These questions will help you practice what we just discussed.", "helpful")
	return cards
}

func (s *buddyService) SetDifficulty(d progression.CardDifficulty) {
	switch d {
	case progression.CardEasy, progression.CardMedium, progression.CardHard:
	default:
		return
	}
	s.mu.Lock()
	s.difficulty = d
	s.mu.Unlock()
}

func (s *buddyService) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

func (s *buddyService) setTopic(t string) {
	s.mu.Lock()
	s.topic = t
	s.mu.Unlock()
}

// say posts an AI message as the current personality and returns it.
func (s *buddyService) say(content, mood string) progression.ChatMessage {
	m := progression.ChatMessage{
		ID:          uuid.NewString(),
		Content:     content,
		Timestamp:   s.now(),
		Sender:      progression.SenderAI,
		Personality: s.store.CurrentPersonality().ID,
		Mood:        mood,
	}
	s.store.AddChatMessage(m)
	return m
}

func (s *buddyService) recent() []string {
	hist := s.store.State().ChatHistory
	if len(hist) > buddyRecentWindow {
		hist = hist[len(hist)-buddyRecentWindow:]
	}
	out := make([]string, 0, len(hist))
	for _, m := range hist {
		out = append(out, fmt.Sprintf("%s: %s", m.Sender, m.Content))
	}
	return out
}
