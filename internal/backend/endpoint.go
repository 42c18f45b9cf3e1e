package backend

import "net/http"

// Endpoint names one backend operation. Every value below endpointCount must
// have a route and a fallback; the tests walk the whole range.
type Endpoint int

const (
	ProfileGet Endpoint = iota
	ProfileCreate
	ProfileUpdate
	XPAdd
	XPLogs
	MoodLog
	MoodHistory
	BattleCreate
	BattlesActive
	BattleJoin
	BattleSubmit
	DIYGenerate
	DIYTasks
	DIYComplete
	BuddyChat
	BuddyHistory
	FlashcardsList
	FlashcardPlay
	SubmissionCreate
	SubmissionsList
	SubmissionReview
	Leaderboard
	GoalsDaily
	GoalComplete

	endpointCount
)

var endpointNames = [endpointCount]string{
	ProfileGet:       "profile.get",
	ProfileCreate:    "profile.create",
	ProfileUpdate:    "profile.update",
	XPAdd:            "xp.add",
	XPLogs:           "xp.logs",
	MoodLog:          "mood.log",
	MoodHistory:      "mood.history",
	BattleCreate:     "battles.create",
	BattlesActive:    "battles.active",
	BattleJoin:       "battles.join",
	BattleSubmit:     "battles.submit",
	DIYGenerate:      "diy.generate",
	DIYTasks:         "diy.tasks",
	DIYComplete:      "diy.complete",
	BuddyChat:        "buddy.chat",
	BuddyHistory:     "buddy.history",
	FlashcardsList:   "flashcards.list",
	FlashcardPlay:    "flashcards.play",
	SubmissionCreate: "submissions.create",
	SubmissionsList:  "submissions.list",
	SubmissionReview: "submissions.review",
	Leaderboard:      "leaderboard.get",
	GoalsDaily:       "goals.daily",
	GoalComplete:     "goals.complete",
}

func (e Endpoint) String() string {
	if e < 0 || e >= endpointCount {
		return "unknown"
	}
	return endpointNames[e]
}

// Route returns the HTTP method and path template. "{id}" is replaced with
// the escaped path parameter.
func (e Endpoint) Route() (method, path string) {
	switch e {
	case ProfileGet:
		return http.MethodGet, "/api/profile"
	case ProfileCreate:
		return http.MethodPost, "/api/profile"
	case ProfileUpdate:
		return http.MethodPut, "/api/profile"
	case XPAdd:
		return http.MethodPost, "/api/xp/add"
	case XPLogs:
		return http.MethodGet, "/api/xp/logs"
	case MoodLog:
		return http.MethodPost, "/api/mood/log"
	case MoodHistory:
		return http.MethodGet, "/api/mood/history"
	case BattleCreate:
		return http.MethodPost, "/api/battles/create"
	case BattlesActive:
		return http.MethodGet, "/api/battles/active"
	case BattleJoin:
		return http.MethodPost, "/api/battles/{id}/join"
	case BattleSubmit:
		return http.MethodPost, "/api/battles/{id}/submit"
	case DIYGenerate:
		return http.MethodPost, "/api/diy/generate"
	case DIYTasks:
		return http.MethodGet, "/api/diy/tasks"
	case DIYComplete:
		return http.MethodPost, "/api/diy/tasks/{id}/complete"
	case BuddyChat:
		return http.MethodPost, "/api/buddy/chat"
	case BuddyHistory:
		return http.MethodGet, "/api/buddy/history"
	case FlashcardsList:
		return http.MethodGet, "/api/flashcards"
	case FlashcardPlay:
		return http.MethodPost, "/api/flashcards/{id}/play"
	case SubmissionCreate:
		return http.MethodPost, "/api/submissions/create"
	case SubmissionsList:
		return http.MethodGet, "/api/submissions"
	case SubmissionReview:
		return http.MethodPost, "/api/submissions/{id}/review"
	case Leaderboard:
		return http.MethodGet, "/api/leaderboard"
	case GoalsDaily:
		return http.MethodGet, "/api/goals/daily"
	case GoalComplete:
		return http.MethodPost, "/api/goals/{id}/complete"
	default:
		return "", ""
	}
}
