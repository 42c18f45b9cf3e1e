package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/mentoro/internal/progression"
)

var flashcardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)make flashcards?\s+(?:on|about|for)\s+(\w+)`),
	regexp.MustCompile(`(?i)create flashcards?\s+(?:on|about|for)\s+(\w+)`),
	regexp.MustCompile(`(?i)generate flashcards?\s+(?:on|about|for)\s+(\w+)`),
	regexp.MustCompile(`(?i)flashcards?\s+(?:on|about|for)\s+(\w+)`),
	regexp.MustCompile(`(?i)(?:can you |please )?make (?:some )?flashcards?`),
	regexp.MustCompile(`(?i)(?:can you |please )?create (?:some )?flashcards?`),
	regexp.MustCompile(`(?i)(?:can you |please )?generate (?:some )?flashcards?`),
}

// Ordered: the first difficulty whose vocabulary matches wins.
var difficultyPatterns = []struct {
	level progression.CardDifficulty
	re    *regexp.Regexp
}{
	{progression.CardEasy, regexp.MustCompile(`(?i)\b(easy|beginner|basic|simple)\b`)},
	{progression.CardMedium, regexp.MustCompile(`(?i)\b(medium|intermediate|normal)\b`)},
	{progression.CardHard, regexp.MustCompile(`(?i)\b(hard|advanced|difficult|expert)\b`)},
}

// ProgrammingTopics is searched in order, so longer names shadow their
// prefixes ("javascript" before "java").
var ProgrammingTopics = []string{
	"react", "javascript", "python", "css", "html", "node", "typescript",
	"vue", "angular", "java", "c++", "algorithms", "data structures",
	"api", "database", "sql", "mongodb", "express", "hooks", "components",
	"functions", "variables", "loops", "arrays", "objects", "classes",
}

// conversationTopics is the shorter list used when following a chat.
var conversationTopics = ProgrammingTopics[:20]

var learningCues = []string{"learn", "understand", "explain", "how"}

// Command is the outcome of scanning a chat message for a flashcard request.
type Command struct {
	Flashcards bool
	Topic      string
	Difficulty progression.CardDifficulty
}

// DetectCommand reports whether message asks for flashcards. The topic comes
// from the phrase itself, then the topic list, then currentTopic, then
// "programming". Difficulty falls back to def.
func DetectCommand(message, currentTopic string, def progression.CardDifficulty) Command {
	for _, re := range flashcardPatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		topic := ""
		if len(m) > 1 {
			topic = m[1]
		}
		if topic == "" {
			topic = findTopic(strings.ToLower(message), ProgrammingTopics)
		}
		if topic == "" {
			topic = currentTopic
		}
		if topic == "" {
			topic = fallbackTopic
		}
		return Command{Flashcards: true, Topic: topic, Difficulty: DetectDifficulty(message, def)}
	}
	return Command{}
}

func DetectDifficulty(text string, def progression.CardDifficulty) progression.CardDifficulty {
	for _, p := range difficultyPatterns {
		if p.re.MatchString(text) {
			return p.level
		}
	}
	if def == "" {
		return progression.CardMedium
	}
	return def
}

// FollowTopic looks for a programming topic in an exchange. suggest is true
// when the topic is new and the exchange reads like a learning conversation.
func FollowTopic(userMessage, reply, currentTopic string) (topic string, suggest bool) {
	text := strings.ToLower(userMessage + " " + reply)
	topic = findTopic(text, conversationTopics)
	if topic == "" || topic == currentTopic {
		return currentTopic, false
	}
	if strings.Contains(strings.ToLower(reply), "flashcard") {
		return topic, true
	}
	for _, cue := range learningCues {
		if strings.Contains(text, cue) {
			return topic, true
		}
	}
	return topic, false
}

func SuggestionMessage(topic string) string {
	return fmt.Sprintf("💡 I can create some flashcards to help you practice %s! Just say \"make flashcards on %s\" or choose a difficulty level. I can make them easy, medium, or hard.", topic, topic)
}

func findTopic(lower string, topics []string) string {
	for _, t := range topics {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

var chatFlashcardKeywords = []string{
	"make flashcard", "create flashcard", "generate flashcard",
	"flashcard on", "flashcard about", "flashcard for",
	"make cards", "create cards", "generate cards",
}

func mentionsFlashcards(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range chatFlashcardKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
