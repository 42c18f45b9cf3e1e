package backend

import (
	"time"

	"github.com/yungbote/mentoro/internal/progression"
)

type Profile struct {
	ID                    string   `json:"id"`
	Username              string   `json:"username"`
	Email                 string   `json:"email,omitempty"`
	Avatar                string   `json:"avatar"`
	Level                 int      `json:"level"`
	XP                    int      `json:"xp"`
	TotalXP               int      `json:"total_xp"`
	StreakDays            int      `json:"streak_days"`
	Rank                  string   `json:"rank"`
	TotalBattles          int      `json:"total_battles"`
	BattlesWon            int      `json:"battles_won"`
	QuestsCompleted       int      `json:"quests_completed"`
	CardsCollected        int      `json:"cards_collected"`
	ContributionsAccepted int      `json:"contributions_accepted"`
	CurrentTheme          string   `json:"current_theme"`
	UnlockedThemes        []string `json:"unlocked_themes"`
	Mood                  string   `json:"mood"`
}

// ToProgression converts to the store's profile. Level and rank are
// recomputed by the store on login.
func (p Profile) ToProgression() progression.Profile {
	return progression.Profile{
		ID:                    p.ID,
		Username:              p.Username,
		Email:                 p.Email,
		Avatar:                p.Avatar,
		XP:                    p.XP,
		TotalXP:               p.TotalXP,
		Streak:                p.StreakDays,
		Mood:                  progression.Mood(p.Mood),
		CurrentTheme:          p.CurrentTheme,
		UnlockedThemes:        append([]string(nil), p.UnlockedThemes...),
		TotalBattles:          p.TotalBattles,
		BattlesWon:            p.BattlesWon,
		QuestsCompleted:       p.QuestsCompleted,
		CardsCollected:        p.CardsCollected,
		ContributionsAccepted: p.ContributionsAccepted,
	}
}

type ProfileInput struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type AddXPRequest struct {
	Amount      int    `json:"amount"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

type XPResult struct {
	XP      int `json:"xp"`
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

type XPLog struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type XPLogList struct {
	Logs []XPLog `json:"logs"`
}

type MoodEntry struct {
	ID                string    `json:"id,omitempty"`
	Mood              string    `json:"mood"`
	Intensity         int       `json:"intensity"`
	Context           string    `json:"context,omitempty"`
	Triggers          []string  `json:"triggers"`
	Activities        []string  `json:"activities"`
	ProductivityScore int       `json:"productivity_score"`
	EngagementScore   int       `json:"engagement_score"`
	SessionDuration   int       `json:"session_duration"`
	CreatedAt         time.Time `json:"created_at,omitzero"`
}

type MoodHistoryList struct {
	History []MoodEntry `json:"history"`
}

type CreateBattleRequest struct {
	ProblemTitle string `json:"problem_title,omitempty"`
	Difficulty   string `json:"difficulty"`
	XPWager      int    `json:"xp_wager"`
	Mode         string `json:"mode"`
	TimeLimit    int    `json:"time_limit,omitempty"`
}

type BattleCreated struct {
	MatchID string `json:"match_id"`
	Status  string `json:"status"`
}

type Battle struct {
	MatchID      string   `json:"match_id"`
	ProblemTitle string   `json:"problem_title,omitempty"`
	Difficulty   string   `json:"difficulty"`
	Mode         string   `json:"mode"`
	Status       string   `json:"status"`
	XPWager      int      `json:"xp_wager"`
	Players      []string `json:"players,omitempty"`
}

type ActiveBattleList struct {
	Battles []Battle `json:"battles"`
}

type StatusResult struct {
	Status string `json:"status"`
}

type SubmitCodeRequest struct {
	Code string `json:"code"`
}

type SubmitResult struct {
	Score  int `json:"score"`
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

type DIYRequest struct {
	Topic        string   `json:"topic"`
	Level        string   `json:"level"`
	Technologies []string `json:"technologies"`
	ProjectType  string   `json:"project_type"`
}

type DIYFile struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Lines int    `json:"lines"`
}

type DIYTask struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	Technologies []string  `json:"technologies"`
	XPReward     int       `json:"xp_reward"`
	Features     []string  `json:"features"`
	Challenges   []string  `json:"challenges"`
	Files        []DIYFile `json:"files"`
	Status       string    `json:"status"`
}

type DIYTaskList struct {
	Tasks []DIYTask `json:"tasks"`
}

// CompletionResult is returned by task and goal completion.
type CompletionResult struct {
	Status   string `json:"status"`
	XPEarned int    `json:"xp_earned"`
}

type BuddyChatRequest struct {
	Content     string `json:"content"`
	Personality string `json:"personality"`
}

type BuddyReply struct {
	Response string `json:"response"`
}

type BuddyMessage struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Sender      string    `json:"sender"`
	Personality string    `json:"personality,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type BuddyHistoryList struct {
	Messages []BuddyMessage `json:"messages"`
}

type Flashcard struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags,omitempty"`
}

type FlashcardList struct {
	Cards []Flashcard `json:"cards"`
}

type PlayFlashcardRequest struct {
	Correct      bool `json:"correct"`
	ResponseTime int  `json:"response_time"`
}

type PlayResult struct {
	XPEarned int  `json:"xp_earned"`
	Correct  bool `json:"correct"`
}

type SubmissionInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	CodeURL     string   `json:"code_url"`
	LiveURL     string   `json:"live_url,omitempty"`
	Tags        []string `json:"tags"`
}

type Submission struct {
	ID string `json:"id"`
	SubmissionInput
	Status string `json:"status"`
}

type SubmissionList struct {
	Submissions []Submission `json:"submissions"`
}

type ReviewInput struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	CodeQuality   int    `json:"code_quality"`
	Functionality int    `json:"functionality"`
	Design        int    `json:"design"`
	Innovation    int    `json:"innovation"`
}

type Review struct {
	ID string `json:"id"`
	ReviewInput
	SubmissionID string `json:"submission_id"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
	TotalXP  int    `json:"total_xp"`
	Rank     string `json:"rank"`
	Position int    `json:"position"`
}

type LeaderboardList struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type DailyGoal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Target      int    `json:"target"`
	Current     int    `json:"current"`
	XPReward    int    `json:"xp_reward"`
	Completed   bool   `json:"completed"`
}

type DailyGoalList struct {
	Goals []DailyGoal `json:"goals"`
}
