package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/progression"
)

// BackendHandler forwards to the learning backend. The client resolves
// every call to real data or a fallback; only an expired session surfaces
// as an error.
type BackendHandler struct {
	client *backend.Client
	store  *progression.Store
}

func NewBackendHandler(client *backend.Client, store *progression.Store) *BackendHandler {
	return &BackendHandler{client: client, store: store}
}

func reply[T any](c *gin.Context, v T, err error) {
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, v)
}

func bindOrReject(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.RespondBadRequest(c, err)
		return false
	}
	return true
}

// GET /xp/logs
func (h *BackendHandler) XPLogs(c *gin.Context) {
	v, err := h.client.XPLogs(c.Request.Context())
	reply(c, v, err)
}

// POST /xp/sync
// Records XP on the backend and mirrors it in the local store.
func (h *BackendHandler) AddXP(c *gin.Context) {
	var req backend.AddXPRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.AddXP(c.Request.Context(), req)
	if err == nil {
		h.store.GrantXP(req.Amount, req.Source)
	}
	reply(c, v, err)
}

// POST /mood
func (h *BackendHandler) LogMood(c *gin.Context) {
	var req backend.MoodEntry
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.LogMood(c.Request.Context(), req)
	if err == nil && req.Mood != "" {
		mood := progression.Mood(req.Mood)
		h.store.UpdateProfile(progression.ProfileUpdate{Mood: &mood})
	}
	reply(c, v, err)
}

// GET /mood/history
func (h *BackendHandler) MoodHistory(c *gin.Context) {
	v, err := h.client.MoodHistory(c.Request.Context())
	reply(c, v, err)
}

// POST /diy/generate
func (h *BackendHandler) GenerateDIY(c *gin.Context) {
	var req backend.DIYRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.GenerateDIYTask(c.Request.Context(), req)
	reply(c, v, err)
}

// GET /diy/tasks
func (h *BackendHandler) DIYTasks(c *gin.Context) {
	v, err := h.client.DIYTasks(c.Request.Context())
	reply(c, v, err)
}

// POST /diy/tasks/:id/complete
func (h *BackendHandler) CompleteDIY(c *gin.Context) {
	v, err := h.client.CompleteDIYTask(c.Request.Context(), c.Param("id"))
	if err == nil {
		h.store.GrantXP(v.XPEarned, "diy_project")
	}
	reply(c, v, err)
}

// POST /buddy/remote/chat
// body: { "content": "...", "personality": "ada" }
func (h *BackendHandler) BuddyChat(c *gin.Context) {
	var req backend.BuddyChatRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.BuddyChat(c.Request.Context(), req.Content, req.Personality)
	reply(c, v, err)
}

// GET /buddy/remote/history
func (h *BackendHandler) BuddyHistory(c *gin.Context) {
	v, err := h.client.BuddyHistory(c.Request.Context())
	reply(c, v, err)
}

// GET /flashcards?category=&difficulty=
func (h *BackendHandler) Flashcards(c *gin.Context) {
	v, err := h.client.Flashcards(c.Request.Context(), c.Query("category"), c.Query("difficulty"))
	reply(c, v, err)
}

// POST /flashcards/:id/play
// body: { "correct": true, "response_time": 1200 }
func (h *BackendHandler) PlayFlashcard(c *gin.Context) {
	var req backend.PlayFlashcardRequest
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.PlayFlashcard(c.Request.Context(), c.Param("id"), req.Correct, req.ResponseTime)
	reply(c, v, err)
}

// POST /submissions
func (h *BackendHandler) CreateSubmission(c *gin.Context) {
	var req backend.SubmissionInput
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.CreateSubmission(c.Request.Context(), req)
	reply(c, v, err)
}

// GET /submissions?status=
func (h *BackendHandler) Submissions(c *gin.Context) {
	v, err := h.client.Submissions(c.Request.Context(), c.Query("status"))
	reply(c, v, err)
}

// POST /submissions/:id/review
func (h *BackendHandler) ReviewSubmission(c *gin.Context) {
	var req backend.ReviewInput
	if !bindOrReject(c, &req) {
		return
	}
	v, err := h.client.ReviewSubmission(c.Request.Context(), c.Param("id"), req)
	reply(c, v, err)
}

// GET /leaderboard?limit=
func (h *BackendHandler) Leaderboard(c *gin.Context) {
	v, err := h.client.Leaderboard(c.Request.Context())
	if err == nil {
		if n, convErr := strconv.Atoi(c.Query("limit")); convErr == nil && n >= 0 && n < len(v.Leaderboard) {
			v.Leaderboard = v.Leaderboard[:n]
		}
	}
	reply(c, v, err)
}

// GET /goals/daily/remote
func (h *BackendHandler) DailyGoals(c *gin.Context) {
	v, err := h.client.DailyGoals(c.Request.Context())
	reply(c, v, err)
}

// POST /goals/remote/:id/complete
func (h *BackendHandler) CompleteGoal(c *gin.Context) {
	v, err := h.client.CompleteGoal(c.Request.Context(), c.Param("id"))
	reply(c, v, err)
}
