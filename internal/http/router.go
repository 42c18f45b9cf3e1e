package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mentoro/internal/http/handlers"
	httpMW "github.com/yungbote/mentoro/internal/http/middleware"
	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	SessionMiddleware *httpMW.SessionMiddleware

	AccountHandler     *httpH.AccountHandler
	ProgressionHandler *httpH.ProgressionHandler
	BuddyHandler       *httpH.BuddyHandler
	BackendHandler     *httpH.BackendHandler
	BattleHandler      *httpH.BattleHandler
	RealtimeHandler    *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.SessionMiddleware != nil {
		api.Use(cfg.SessionMiddleware.AdoptToken())
	}
	{
		if cfg.HealthHandler != nil {
			api.GET("/status", cfg.HealthHandler.Status)
		}

		// Account
		if cfg.AccountHandler != nil {
			api.POST("/login", cfg.AccountHandler.Login)
			api.POST("/logout", cfg.AccountHandler.Logout)
			api.GET("/me", cfg.AccountHandler.GetMe)
			api.PATCH("/me", cfg.AccountHandler.UpdateMe)
			api.POST("/me/sync", cfg.AccountHandler.SyncMe)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			api.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			api.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		// Progression
		if h := cfg.ProgressionHandler; h != nil {
			api.GET("/state", h.GetState)
			api.GET("/snapshot", h.GetSnapshot)
			api.POST("/xp", h.GrantXP)
			api.POST("/streak", h.UpdateStreak)

			api.GET("/quests", h.ListQuests)
			api.GET("/quests/:id", h.GetQuest)
			api.POST("/quests/:id/start", h.StartQuest)
			api.PATCH("/quests/:id/progress", h.UpdateQuestProgress)
			api.POST("/quests/:id/complete", h.CompleteQuest)
			api.POST("/quests/:id/unlock", h.UnlockQuest)

			api.POST("/goals/:id/complete", h.CompleteGoal)
			api.POST("/achievements/:id/unlock", h.UnlockAchievement)

			api.GET("/skills", h.ListSkills)
			api.POST("/skills/:id/upgrade", h.UpgradeSkill)

			api.GET("/notifications", h.ListNotifications)
			api.POST("/notifications", h.AddNotification)
			api.POST("/notifications/read-all", h.MarkAllRead)
			api.POST("/notifications/:id/read", h.MarkRead)
			api.DELETE("/notifications", h.ClearNotifications)

			api.GET("/chat", h.ChatHistory)
			api.DELETE("/chat", h.ClearChat)

			api.PUT("/preferences/theme", h.ChangeTheme)
			api.POST("/preferences/sidebar/toggle", h.ToggleSidebar)
			api.PUT("/preferences/personality", h.SwitchPersonality)

			api.POST("/flashcards/session/answer", h.AnswerFlashcard)
			api.POST("/flashcards/session/finish", h.FinishFlashcards)
		}

		// Mentor chat and generated content
		if h := cfg.BuddyHandler; h != nil {
			api.POST("/buddy/chat", h.Chat)
			api.POST("/buddy/flashcards", h.Flashcards)
			api.POST("/buddy/flashcards/conversation", h.ConversationFlashcards)
			api.PUT("/buddy/difficulty", h.SetDifficulty)
			api.POST("/ai/flashcards", h.GenerateFlashcards)
			api.POST("/ai/project", h.GenerateProject)
		}

		// Learning backend
		if h := cfg.BackendHandler; h != nil {
			api.GET("/xp/logs", h.XPLogs)
			api.POST("/xp/sync", h.AddXP)
			api.POST("/mood", h.LogMood)
			api.GET("/mood/history", h.MoodHistory)
			api.POST("/diy/generate", h.GenerateDIY)
			api.GET("/diy/tasks", h.DIYTasks)
			api.POST("/diy/tasks/:id/complete", h.CompleteDIY)
			api.POST("/buddy/remote/chat", h.BuddyChat)
			api.GET("/buddy/remote/history", h.BuddyHistory)
			api.GET("/flashcards", h.Flashcards)
			api.POST("/flashcards/:id/play", h.PlayFlashcard)
			api.POST("/submissions", h.CreateSubmission)
			api.GET("/submissions", h.Submissions)
			api.POST("/submissions/:id/review", h.ReviewSubmission)
			api.GET("/leaderboard", h.Leaderboard)
			api.GET("/goals/daily/remote", h.DailyGoals)
			api.POST("/goals/remote/:id/complete", h.CompleteGoal)
		}
	}

	// Battles need a signed-in identity for the live channel.
	battles := api.Group("/")
	{
		if cfg.SessionMiddleware != nil {
			battles.Use(cfg.SessionMiddleware.RequireSession())
		}
		if h := cfg.BattleHandler; h != nil {
			battles.POST("/battles", h.Create)
			battles.GET("/battles/active", h.Active)
			battles.POST("/battles/:id/join", h.Join)
			battles.POST("/battles/:id/submit", h.Submit)
			battles.POST("/battles/:id/message", h.Message)
			battles.POST("/battles/:id/code", h.CodeUpdate)
			battles.GET("/realtime/status", h.Status)
			battles.POST("/realtime/connect", h.Connect)
			battles.GET("/realtime/events", h.Events)
		}
	}

	return r
}
