package ai

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
)

const (
	defaultCardCount      = 5
	defaultTopicCardCount = 3
	defaultCacheSize      = 128
	defaultTimeout        = 30 * time.Second
)

type FlashcardRequest struct {
	Topic      string                     `json:"topic"`
	Difficulty progression.CardDifficulty `json:"difficulty"`
	Count      int                        `json:"count"`
	UserLevel  int                        `json:"user_level"`
	Focus      string                     `json:"focus,omitempty"`
}

// UserContext is what the mentor knows about the learner when replying.
type UserContext struct {
	Level         int      `json:"level"`
	Mood          string   `json:"mood"`
	Topic         string   `json:"topic,omitempty"`
	LearningGoals []string `json:"learning_goals,omitempty"`
	Recent        []string `json:"recent,omitempty"`
}

type GeneratorOptions struct {
	Provider  Provider
	Extractor Extractor
	Logger    *logger.Logger
	Timeout   time.Duration
	CacheSize int
}

// Generator produces study content. Every method returns usable content:
// provider failures and unparseable output are replaced by canned material.
type Generator struct {
	provider Provider
	extract  Extractor
	log      *logger.Logger
	timeout  time.Duration
	cache    *lru.Cache
	tracer   trace.Tracer
}

func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		provider: opts.Provider,
		extract:  opts.Extractor,
		log:      opts.Logger,
		timeout:  opts.Timeout,
		cache:    cache,
		tracer:   otel.Tracer("github.com/yungbote/mentoro/internal/ai"),
	}
	if g.extract == nil {
		g.extract = FirstMatch{}
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	return g, nil
}

// Available reports whether a provider is configured.
func (g *Generator) Available() bool { return g.provider != nil }

func (r FlashcardRequest) normalized() FlashcardRequest {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		r.Topic = fallbackTopic
	}
	if r.Difficulty == "" {
		r.Difficulty = progression.CardMedium
	}
	if r.Count <= 0 {
		r.Count = defaultCardCount
	}
	if r.UserLevel < 1 {
		r.UserLevel = 1
	}
	r.Focus = strings.TrimSpace(r.Focus)
	return r
}

func (g *Generator) Flashcards(ctx context.Context, req FlashcardRequest) []progression.Flashcard {
	req = req.normalized()
	fallback := func() []progression.Flashcard {
		return FallbackFlashcards(req.Topic, req.Difficulty, req.Count)
	}
	prompt, err := renderPrompt(PromptFlashcards, req)
	if err != nil {
		g.log.Error("Flashcard prompt failed", "error", err)
		return fallback()
	}
	cards, ok := g.cards(ctx, PromptFlashcards, prompt, func(c *progression.Flashcard) {
		if c.Difficulty == "" {
			c.Difficulty = req.Difficulty
		}
		if c.Category == "" {
			c.Category = req.Topic
		}
		if c.Tags == nil {
			c.Tags = []string{req.Topic, string(req.Difficulty)}
		}
	})
	if !ok {
		return fallback()
	}
	return cards
}

// TopicFlashcards builds cards from a conversation excerpt.
func (g *Generator) TopicFlashcards(ctx context.Context, conversation string, difficulty progression.CardDifficulty, count int) []progression.Flashcard {
	if difficulty == "" {
		difficulty = progression.CardMedium
	}
	if count <= 0 {
		count = defaultTopicCardCount
	}
	fallback := func() []progression.Flashcard {
		return FallbackFlashcards(fallbackTopic, difficulty, count)
	}
	in := struct {
		Context    string
		Difficulty progression.CardDifficulty
		Count      int
	}{strings.TrimSpace(conversation), difficulty, count}
	prompt, err := renderPrompt(PromptTopicFlashcards, in)
	if err != nil {
		g.log.Error("Topic flashcard prompt failed", "error", err)
		return fallback()
	}
	cards, ok := g.cards(ctx, PromptTopicFlashcards, prompt, func(c *progression.Flashcard) {
		if c.Difficulty == "" {
			c.Difficulty = difficulty
		}
		if c.Category == "" {
			c.Category = fallbackTopic
		}
		if c.Tags == nil {
			c.Tags = []string{fallbackTopic}
		}
	})
	if !ok {
		return fallback()
	}
	return cards
}

func (g *Generator) Project(ctx context.Context, req ProjectRequest) Project {
	req = req.normalized()
	prompt, err := renderPrompt(PromptProject, req)
	if err != nil {
		g.log.Error("Project prompt failed", "error", err)
		return FallbackProject(req)
	}
	key := string(PromptProject) + "\x00" + prompt
	if v, ok := g.cache.Get(key); ok {
		observability.Current().IncAIGeneration(string(PromptProject), "cached")
		return cloneProject(v.(Project))
	}
	fallback := func() Project {
		observability.Current().IncAIGeneration(string(PromptProject), "fallback")
		return FallbackProject(req)
	}
	text, ok := g.generate(ctx, PromptProject, prompt)
	if !ok {
		return fallback()
	}
	raw, ok := g.extract.Extract(text, '{', func(raw string) bool {
		var p Project
		return json.Unmarshal([]byte(raw), &p) == nil && strings.TrimSpace(p.Title) != ""
	})
	if !ok {
		g.log.Warn("No project object in response", "prompt", PromptProject)
		return fallback()
	}
	var p Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil || strings.TrimSpace(p.Title) == "" {
		g.log.Warn("Unusable project response", "error", err)
		return fallback()
	}
	p = fillProject(p, req)
	g.cache.Add(key, cloneProject(p))
	observability.Current().IncAIGeneration(string(PromptProject), "ok")
	return p
}

// Chat answers as the given personality. Replies are never cached.
func (g *Generator) Chat(ctx context.Context, message string, p progression.Personality, uc UserContext) string {
	in := struct {
		Name             string
		Style            progression.ResponseStyle
		Traits           []string
		TeachingApproach string
		Level            int
		Mood             string
		Topic            string
		Recent           []string
		Message          string
		AsksFlashcards   bool
	}{
		Name:             p.Name,
		Style:            p.Style,
		Traits:           p.Traits,
		TeachingApproach: p.TeachingApproach,
		Level:            max(uc.Level, 1),
		Mood:             uc.Mood,
		Topic:            uc.Topic,
		Recent:           uc.Recent,
		Message:          message,
		AsksFlashcards:   mentionsFlashcards(message),
	}
	prompt, err := renderPrompt(PromptChat, in)
	if err != nil {
		g.log.Error("Chat prompt failed", "error", err)
		return fallbackReply(message, p.Style)
	}
	text, ok := g.generate(ctx, PromptChat, prompt)
	if !ok {
		observability.Current().IncAIGeneration(string(PromptChat), "fallback")
		return fallbackReply(message, p.Style)
	}
	observability.Current().IncAIGeneration(string(PromptChat), "ok")
	return strings.TrimSpace(text)
}

func (g *Generator) cards(ctx context.Context, name PromptName, prompt string, fill func(*progression.Flashcard)) ([]progression.Flashcard, bool) {
	key := string(name) + "\x00" + prompt
	if v, ok := g.cache.Get(key); ok {
		observability.Current().IncAIGeneration(string(name), "cached")
		return cloneCards(v.([]progression.Flashcard)), true
	}
	cards, ok := g.parseCards(ctx, name, prompt, fill)
	if !ok {
		observability.Current().IncAIGeneration(string(name), "fallback")
		return nil, false
	}
	g.cache.Add(key, cloneCards(cards))
	observability.Current().IncAIGeneration(string(name), "ok")
	return cards, true
}

func (g *Generator) parseCards(ctx context.Context, name PromptName, prompt string, fill func(*progression.Flashcard)) ([]progression.Flashcard, bool) {
	text, ok := g.generate(ctx, name, prompt)
	if !ok {
		return nil, false
	}
	raw, ok := g.extract.Extract(text, '[', func(raw string) bool {
		var v []progression.Flashcard
		if json.Unmarshal([]byte(raw), &v) != nil {
			return false
		}
		return slices.ContainsFunc(v, usableCard)
	})
	if !ok {
		g.log.Warn("No flashcard array in response", "prompt", name)
		return nil, false
	}
	var parsed []progression.Flashcard
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		g.log.Warn("Flashcard response did not decode", "prompt", name, "error", err)
		return nil, false
	}
	cards := parsed[:0]
	for _, c := range parsed {
		if !usableCard(c) {
			continue
		}
		fill(&c)
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		g.log.Warn("Flashcard response had no usable cards", "prompt", name)
		return nil, false
	}
	return cards, true
}

// usableCard reports whether c has both sides; blank cards are dropped.
func usableCard(c progression.Flashcard) bool {
	return strings.TrimSpace(c.Question) != "" && strings.TrimSpace(c.Answer) != ""
}

func (g *Generator) generate(ctx context.Context, name PromptName, prompt string) (string, bool) {
	if g.provider == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	ctx, span := g.tracer.Start(ctx, "ai "+string(name), trace.WithAttributes(
		attribute.String("ai.provider", g.provider.Name()),
		attribute.Int("ai.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.log.Warn("AI generation failed, using fallback",
			"prompt", name,
			"provider", g.provider.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		g.log.Warn("AI generation returned nothing, using fallback", "prompt", name)
		return "", false
	}
	g.log.Debug("AI generation done", "prompt", name, "duration_ms", time.Since(start).Milliseconds())
	return text, true
}

func cloneCards(in []progression.Flashcard) []progression.Flashcard {
	out := make([]progression.Flashcard, len(in))
	for i, c := range in {
		c.Tags = append([]string(nil), c.Tags...)
		out[i] = c
	}
	return out
}

func cloneProject(p Project) Project {
	p.Features = append([]string(nil), p.Features...)
	p.Challenges = append([]string(nil), p.Challenges...)
	p.Files = append([]ProjectFile(nil), p.Files...)
	p.Technologies = append([]string(nil), p.Technologies...)
	p.LearningOutcomes = append([]string(nil), p.LearningOutcomes...)
	p.PersonalizedTips = append([]string(nil), p.PersonalizedTips...)
	p.MoodBasedFeatures = append([]string(nil), p.MoodBasedFeatures...)
	p.NextSteps = append([]string(nil), p.NextSteps...)
	p.Resources = append([]Resource(nil), p.Resources...)
	p.CodeSnippets = append([]CodeSnippet(nil), p.CodeSnippets...)
	return p
}
