package backend

import (
	"fmt"
	"time"
)

// request carries what a call sends: a path parameter, query values and a
// JSON body. Fallbacks may echo parts of it back.
type request struct {
	id    string
	query map[string]string
	body  any
}

const demoChatReply = "I'm here to help! Unfortunately, I'm running in demo mode right now. Please start the backend server to enable full AI functionality."

func demoProfile() Profile {
	return Profile{
		ID:             "demo-user",
		Username:       "Demo User",
		Avatar:         "🚀",
		Level:          1,
		Rank:           "Bronze I",
		CurrentTheme:   "dark",
		UnlockedThemes: []string{"dark"},
		Mood:           "excited",
	}
}

// fallbackFor returns the value a call to e resolves to when the backend is
// unreachable. The dynamic type always matches the endpoint's typed method.
func fallbackFor(e Endpoint, req request, now time.Time) any {
	switch e {
	case ProfileGet:
		return demoProfile()
	case ProfileCreate, ProfileUpdate:
		p := demoProfile()
		if in, ok := req.body.(ProfileInput); ok {
			if in.Username != "" {
				p.Username = in.Username
			}
			if in.Avatar != "" {
				p.Avatar = in.Avatar
			}
		}
		return p
	case XPAdd:
		in, _ := req.body.(AddXPRequest)
		return XPResult{XP: in.Amount, TotalXP: in.Amount, Level: 1}
	case XPLogs:
		return XPLogList{Logs: []XPLog{}}
	case MoodLog:
		in, _ := req.body.(MoodEntry)
		in.ID = "demo-mood"
		in.CreatedAt = now.UTC()
		return in
	case MoodHistory:
		return MoodHistoryList{History: []MoodEntry{}}
	case BattleCreate:
		return BattleCreated{MatchID: "demo-battle", Status: "created"}
	case BattlesActive:
		return ActiveBattleList{Battles: []Battle{}}
	case BattleJoin:
		return StatusResult{Status: "joined"}
	case BattleSubmit:
		return SubmitResult{Score: 100, Passed: 1, Total: 1}
	case DIYGenerate:
		in, _ := req.body.(DIYRequest)
		return DIYTask{
			ID:           "demo-task",
			Title:        fmt.Sprintf("%s Practice Project", in.Topic),
			Description:  fmt.Sprintf("Build a %s focused on %s", in.ProjectType, in.Topic),
			Difficulty:   in.Level,
			Technologies: append([]string{}, in.Technologies...),
			XPReward:     500,
			Features:     []string{"Core functionality", "User interface", "Error handling"},
			Challenges:   []string{"Master concepts", "Responsive design", "Performance"},
			Files:        []DIYFile{{Name: "src/App.tsx", Type: "component", Lines: 100}},
			Status:       "generated",
		}
	case DIYTasks:
		return DIYTaskList{Tasks: []DIYTask{}}
	case DIYComplete:
		return CompletionResult{Status: "completed", XPEarned: 500}
	case BuddyChat:
		return BuddyReply{Response: demoChatReply}
	case BuddyHistory:
		return BuddyHistoryList{Messages: []BuddyMessage{}}
	case FlashcardsList:
		return FlashcardList{Cards: []Flashcard{}}
	case FlashcardPlay:
		in, _ := req.body.(PlayFlashcardRequest)
		xp := 0
		if in.Correct {
			xp = 25
		}
		return PlayResult{XPEarned: xp, Correct: in.Correct}
	case SubmissionCreate:
		in, _ := req.body.(SubmissionInput)
		return Submission{ID: "demo-submission", SubmissionInput: in, Status: "pending"}
	case SubmissionsList:
		return SubmissionList{Submissions: []Submission{}}
	case SubmissionReview:
		in, _ := req.body.(ReviewInput)
		return Review{ID: "demo-review", ReviewInput: in, SubmissionID: req.id}
	case Leaderboard:
		return LeaderboardList{Leaderboard: []LeaderboardEntry{}}
	case GoalsDaily:
		return DailyGoalList{Goals: []DailyGoal{}}
	case GoalComplete:
		return CompletionResult{Status: "completed", XPEarned: 100}
	default:
		return nil
	}
}
