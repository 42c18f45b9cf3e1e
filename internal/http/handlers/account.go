package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentoro/internal/http/response"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/services"
)

type AccountHandler struct {
	account services.AccountService
	store   *progression.Store
}

func NewAccountHandler(account services.AccountService, store *progression.Store) *AccountHandler {
	return &AccountHandler{account: account, store: store}
}

// POST /login
// body: { "token": "<identity provider token>" }
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	p, err := h.account.Login(c.Request.Context(), req.Token)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": p})
}

// POST /logout
func (h *AccountHandler) Logout(c *gin.Context) {
	h.account.Logout(c.Request.Context())
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /me
func (h *AccountHandler) GetMe(c *gin.Context) {
	st := h.store.State()
	response.RespondOK(c, gin.H{"me": st.Profile, "authenticated": st.Authenticated})
}

// PATCH /me
// body: { "username": "...", "avatar": "...", "email": "...", "mood": "focused" }
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req progression.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	p, err := h.account.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": p})
}

// POST /me/sync
func (h *AccountHandler) SyncMe(c *gin.Context) {
	p, err := h.account.SyncProfile(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": p})
}
