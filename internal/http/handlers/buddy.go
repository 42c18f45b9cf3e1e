package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/ai"
	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/services"
)

// BuddyHandler serves the mentor chat and AI-generated study content.
type BuddyHandler struct {
	buddy services.BuddyService
	gen   *ai.Generator
}

func NewBuddyHandler(buddy services.BuddyService, gen *ai.Generator) *BuddyHandler {
	return &BuddyHandler{buddy: buddy, gen: gen}
}

// POST /buddy/chat
// body: { "message": "make flashcards on react" }
func (h *BuddyHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	res, err := h.buddy.Send(c.Request.Context(), req.Message)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /buddy/flashcards
// body: { "topic": "react", "difficulty": "easy", "count": 5 }
// An empty topic uses the topic the conversation is on.
func (h *BuddyHandler) Flashcards(c *gin.Context) {
	var req struct {
		Topic      string                     `json:"topic"`
		Difficulty progression.CardDifficulty `json:"difficulty"`
		Count      int                        `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	topic := req.Topic
	if topic == "" {
		topic = h.buddy.Topic()
	}
	cards := h.buddy.Flashcards(c.Request.Context(), topic, req.Difficulty, req.Count)
	response.RespondOK(c, gin.H{"flashcards": cards})
}

// POST /buddy/flashcards/conversation
// body: { "difficulty": "medium" }
func (h *BuddyHandler) ConversationFlashcards(c *gin.Context) {
	var req struct {
		Difficulty progression.CardDifficulty `json:"difficulty"`
	}
	_ = c.ShouldBindJSON(&req)
	cards := h.buddy.ConversationFlashcards(c.Request.Context(), req.Difficulty)
	response.RespondOK(c, gin.H{"flashcards": cards})
}

// PUT /buddy/difficulty
// body: { "difficulty": "hard" }
func (h *BuddyHandler) SetDifficulty(c *gin.Context) {
	var req struct {
		Difficulty progression.CardDifficulty `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	h.buddy.SetDifficulty(req.Difficulty)
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /ai/flashcards
// Generates a deck without starting a session.
func (h *BuddyHandler) GenerateFlashcards(c *gin.Context) {
	var req ai.FlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flashcards": h.gen.Flashcards(c.Request.Context(), req)})
}

// POST /ai/project
func (h *BuddyHandler) GenerateProject(c *gin.Context) {
	var req ai.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": h.gen.Project(c.Request.Context(), req)})
}
