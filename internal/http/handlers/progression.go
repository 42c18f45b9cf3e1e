package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/progression"
)

// ProgressionHandler exposes the store. Store actions never fail; invalid
// input is a no-op, so most routes answer with the resulting state.
type ProgressionHandler struct {
	store *progression.Store
	now   func() time.Time
}

func NewProgressionHandler(store *progression.Store) *ProgressionHandler {
	return &ProgressionHandler{store: store, now: time.Now}
}

func (h *ProgressionHandler) state(c *gin.Context) {
	st := h.store.State()
	response.RespondOK(c, gin.H{"state": st, "unread_count": st.UnreadCount(), "seq": h.store.Seq()})
}

// GET /state
func (h *ProgressionHandler) GetState(c *gin.Context) { h.state(c) }

// GET /snapshot
func (h *ProgressionHandler) GetSnapshot(c *gin.Context) {
	response.RespondOK(c, gin.H{"snapshot": h.store.Snapshot()})
}

// POST /xp
// body: { "amount": 50, "source": "quest" }
func (h *ProgressionHandler) GrantXP(c *gin.Context) {
	var req struct {
		Amount int    `json:"amount"`
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	h.store.GrantXP(req.Amount, strings.TrimSpace(req.Source))
	response.RespondOK(c, gin.H{"profile": h.store.Profile()})
}

// POST /streak
func (h *ProgressionHandler) UpdateStreak(c *gin.Context) {
	h.store.UpdateStreak(h.now())
	response.RespondOK(c, gin.H{"profile": h.store.Profile()})
}

// GET /quests?q=
func (h *ProgressionHandler) ListQuests(c *gin.Context) {
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		response.RespondOK(c, gin.H{"quests": h.store.SearchQuests(q)})
		return
	}
	response.RespondOK(c, gin.H{"quests": h.store.State().Quests})
}

// GET /quests/:id
func (h *ProgressionHandler) GetQuest(c *gin.Context) {
	q, ok := h.store.Quest(c.Param("id"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "quest_not_found", errors.New("quest not found"))
		return
	}
	response.RespondOK(c, gin.H{"quest": q})
}

func (h *ProgressionHandler) questAction(c *gin.Context, fn func(id string)) {
	id := c.Param("id")
	if _, ok := h.store.Quest(id); !ok {
		response.RespondError(c, http.StatusNotFound, "quest_not_found", errors.New("quest not found"))
		return
	}
	fn(id)
	q, _ := h.store.Quest(id)
	response.RespondOK(c, gin.H{"quest": q, "profile": h.store.Profile()})
}

// POST /quests/:id/start
func (h *ProgressionHandler) StartQuest(c *gin.Context) { h.questAction(c, h.store.StartQuest) }

// POST /quests/:id/complete
func (h *ProgressionHandler) CompleteQuest(c *gin.Context) { h.questAction(c, h.store.CompleteQuest) }

// POST /quests/:id/unlock
func (h *ProgressionHandler) UnlockQuest(c *gin.Context) { h.questAction(c, h.store.UnlockQuest) }

// PATCH /quests/:id/progress
// body: { "progress": 40 }
func (h *ProgressionHandler) UpdateQuestProgress(c *gin.Context) {
	var req struct {
		Progress *int `json:"progress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Progress == nil {
		response.RespondBadRequest(c, errors.New("progress is required"))
		return
	}
	h.questAction(c, func(id string) { h.store.UpdateQuestProgress(id, *req.Progress) })
}

// POST /goals/:id/complete
func (h *ProgressionHandler) CompleteGoal(c *gin.Context) {
	h.store.CompleteGoal(c.Param("id"))
	st := h.store.State()
	response.RespondOK(c, gin.H{"daily_goals": st.DailyGoals, "profile": st.Profile})
}

// POST /achievements/:id/unlock
func (h *ProgressionHandler) UnlockAchievement(c *gin.Context) {
	h.store.UnlockAchievement(c.Param("id"))
	response.RespondOK(c, gin.H{"profile": h.store.Profile()})
}

// GET /skills?q=
func (h *ProgressionHandler) ListSkills(c *gin.Context) {
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		response.RespondOK(c, gin.H{"skills": h.store.SearchSkills(q)})
		return
	}
	response.RespondOK(c, gin.H{"skills": h.store.State().Skills})
}

// POST /skills/:id/upgrade
func (h *ProgressionHandler) UpgradeSkill(c *gin.Context) {
	h.store.UpgradeSkill(c.Param("id"))
	st := h.store.State()
	response.RespondOK(c, gin.H{"skills": st.Skills, "profile": st.Profile})
}

// GET /notifications
func (h *ProgressionHandler) ListNotifications(c *gin.Context) {
	st := h.store.State()
	response.RespondOK(c, gin.H{"notifications": st.Notifications, "unread_count": st.UnreadCount()})
}

// POST /notifications
// body: { "title": "...", "message": "...", "type": "info", "priority": "low" }
func (h *ProgressionHandler) AddNotification(c *gin.Context) {
	var n progression.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	n.ID = ""
	h.store.AddNotification(n)
	h.ListNotifications(c)
}

// POST /notifications/:id/read
func (h *ProgressionHandler) MarkRead(c *gin.Context) {
	h.store.MarkRead(c.Param("id"))
	h.ListNotifications(c)
}

// POST /notifications/read-all
func (h *ProgressionHandler) MarkAllRead(c *gin.Context) {
	h.store.MarkAllRead()
	h.ListNotifications(c)
}

// DELETE /notifications
func (h *ProgressionHandler) ClearNotifications(c *gin.Context) {
	h.store.ClearNotifications()
	h.ListNotifications(c)
}

// GET /chat
func (h *ProgressionHandler) ChatHistory(c *gin.Context) {
	response.RespondOK(c, gin.H{"messages": h.store.State().ChatHistory})
}

// DELETE /chat
func (h *ProgressionHandler) ClearChat(c *gin.Context) {
	h.store.ClearChatHistory()
	h.ChatHistory(c)
}

// PUT /preferences/theme
// body: { "theme": "cyberpunk" }
func (h *ProgressionHandler) ChangeTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	h.store.ChangeTheme(req.Theme)
	response.RespondOK(c, gin.H{"current_theme": h.store.State().CurrentTheme})
}

// POST /preferences/sidebar/toggle
func (h *ProgressionHandler) ToggleSidebar(c *gin.Context) {
	h.store.ToggleSidebar()
	response.RespondOK(c, gin.H{"sidebar_collapsed": h.store.State().SidebarCollapsed})
}

// PUT /preferences/personality
// body: { "id": "direct" }
func (h *ProgressionHandler) SwitchPersonality(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	h.store.SwitchPersonality(req.ID)
	response.RespondOK(c, gin.H{"current_personality": h.store.CurrentPersonality()})
}

// POST /flashcards/session/answer
// body: { "correct": true }
func (h *ProgressionHandler) AnswerFlashcard(c *gin.Context) {
	var req struct {
		Correct bool `json:"correct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	h.store.AnswerFlashcard(req.Correct)
	response.RespondOK(c, gin.H{"session": h.store.State().FlashcardSession})
}

// POST /flashcards/session/finish
func (h *ProgressionHandler) FinishFlashcards(c *gin.Context) {
	h.store.FinishFlashcardSession()
	st := h.store.State()
	response.RespondOK(c, gin.H{"session": st.FlashcardSession, "profile": st.Profile})
}
