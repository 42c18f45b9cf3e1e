package progression

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	XPPerCorrectCard     = 25
	flashcardHeroAnswers = 50
)

// StartFlashcardSession replaces any running session. An empty deck is ignored.
func (s *Store) StartFlashcardSession(topic string, cards []Flashcard) {
	s.apply("start_flashcard_session", func(st *state) bool {
		if len(cards) == 0 {
			return false
		}
		deck := make([]Flashcard, len(cards))
		for i, c := range cards {
			deck[i] = cloneFlashcard(c)
		}
		st.session = FlashcardSession{
			Topic:  strings.TrimSpace(topic),
			Cards:  deck,
			Active: true,
		}
		return true
	})
}

// AnswerFlashcard scores the next card. Answers beyond the deck size are
// ignored.
func (s *Store) AnswerFlashcard(correct bool) {
	s.apply("answer_flashcard", func(st *state) bool {
		if !st.session.Active || st.session.Correct+st.session.Incorrect >= len(st.session.Cards) {
			return false
		}
		if correct {
			st.session.Correct++
			st.session.XPEarned += XPPerCorrectCard
		} else {
			st.session.Incorrect++
		}
		st.profile.CardsCollected++
		if st.profile.CardsCollected >= flashcardHeroAnswers {
			st.unlockAchievement(AchievementFlashcardHero)
		}
		return true
	})
}

// FinishFlashcardSession grants the session's XP once and posts a summary.
func (s *Store) FinishFlashcardSession() {
	s.apply("finish_flashcard_session", func(st *state) bool {
		sess := &st.session
		if !sess.Active {
			return false
		}
		sess.Active = false
		total := sess.Correct + sess.Incorrect
		st.grantXP(sess.XPEarned, SourceFlashcard)
		st.notify(Notification{
			Title:    "Flashcard Practice Complete!",
			Message:  fmt.Sprintf("You got %d/%d correct and earned %d XP!", sess.Correct, total, sess.XPEarned),
			Type:     NotifySuccess,
			Priority: PriorityMedium,
			Icon:     "📚",
		})
		st.appendChat(ChatMessage{
			ID:          uuid.NewString(),
			Content:     sessionSummary(sess.Correct, total, sess.XPEarned),
			Sender:      SenderAI,
			Timestamp:   st.now(),
			Personality: st.personality,
			Mood:        "proud",
		})
		return true
	})
}

func sessionSummary(correct, total, xp int) string {
	tail := "Great progress! Keep practicing to strengthen your understanding."
	if total > 0 && correct == total {
		tail = "Perfect score! You're really mastering this topic!"
	}
	return fmt.Sprintf("🎉 Excellent work! You got %d/%d correct and earned %d XP! %s", correct, total, xp, tail)
}
