package backend

import "context"

func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	r, err := c.FetchProfile(ctx)
	return r.Value, err
}

// FetchProfile is GetProfile that also reports whether the demo profile
// stood in for an unreachable backend.
func (c *Client) FetchProfile(ctx context.Context) (Resolved[Profile], error) {
	return resolve[Profile](ctx, c, ProfileGet, request{})
}

func (c *Client) CreateProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	return call[Profile](ctx, c, ProfileCreate, request{body: in})
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	return call[Profile](ctx, c, ProfileUpdate, request{body: in})
}

func (c *Client) AddXP(ctx context.Context, in AddXPRequest) (XPResult, error) {
	return call[XPResult](ctx, c, XPAdd, request{body: in})
}

func (c *Client) XPLogs(ctx context.Context) (XPLogList, error) {
	return call[XPLogList](ctx, c, XPLogs, request{})
}

func (c *Client) LogMood(ctx context.Context, in MoodEntry) (MoodEntry, error) {
	return call[MoodEntry](ctx, c, MoodLog, request{body: in})
}

func (c *Client) MoodHistory(ctx context.Context) (MoodHistoryList, error) {
	return call[MoodHistoryList](ctx, c, MoodHistory, request{})
}

func (c *Client) CreateBattle(ctx context.Context, in CreateBattleRequest) (BattleCreated, error) {
	return call[BattleCreated](ctx, c, BattleCreate, request{body: in})
}

func (c *Client) ActiveBattles(ctx context.Context) (ActiveBattleList, error) {
	return call[ActiveBattleList](ctx, c, BattlesActive, request{})
}

func (c *Client) JoinBattle(ctx context.Context, matchID string) (StatusResult, error) {
	return call[StatusResult](ctx, c, BattleJoin, request{id: matchID})
}

func (c *Client) SubmitCode(ctx context.Context, matchID, code string) (SubmitResult, error) {
	return call[SubmitResult](ctx, c, BattleSubmit, request{id: matchID, body: SubmitCodeRequest{Code: code}})
}

func (c *Client) GenerateDIYTask(ctx context.Context, in DIYRequest) (DIYTask, error) {
	return call[DIYTask](ctx, c, DIYGenerate, request{body: in})
}

func (c *Client) DIYTasks(ctx context.Context) (DIYTaskList, error) {
	return call[DIYTaskList](ctx, c, DIYTasks, request{})
}

func (c *Client) CompleteDIYTask(ctx context.Context, taskID string) (CompletionResult, error) {
	return call[CompletionResult](ctx, c, DIYComplete, request{id: taskID})
}

func (c *Client) BuddyChat(ctx context.Context, content, personality string) (BuddyReply, error) {
	if personality == "" {
		personality = "ada"
	}
	return call[BuddyReply](ctx, c, BuddyChat, request{body: BuddyChatRequest{Content: content, Personality: personality}})
}

func (c *Client) BuddyHistory(ctx context.Context) (BuddyHistoryList, error) {
	return call[BuddyHistoryList](ctx, c, BuddyHistory, request{})
}

// Flashcards lists cards; empty filters are omitted from the query.
func (c *Client) Flashcards(ctx context.Context, category, difficulty string) (FlashcardList, error) {
	q := map[string]string{"category": category, "difficulty": difficulty}
	return call[FlashcardList](ctx, c, FlashcardsList, request{query: q})
}

func (c *Client) PlayFlashcard(ctx context.Context, cardID string, correct bool, responseTimeMS int) (PlayResult, error) {
	body := PlayFlashcardRequest{Correct: correct, ResponseTime: responseTimeMS}
	return call[PlayResult](ctx, c, FlashcardPlay, request{id: cardID, body: body})
}

func (c *Client) CreateSubmission(ctx context.Context, in SubmissionInput) (Submission, error) {
	return call[Submission](ctx, c, SubmissionCreate, request{body: in})
}

func (c *Client) Submissions(ctx context.Context, status string) (SubmissionList, error) {
	return call[SubmissionList](ctx, c, SubmissionsList, request{query: map[string]string{"status": status}})
}

func (c *Client) ReviewSubmission(ctx context.Context, submissionID string, in ReviewInput) (Review, error) {
	return call[Review](ctx, c, SubmissionReview, request{id: submissionID, body: in})
}

func (c *Client) Leaderboard(ctx context.Context) (LeaderboardList, error) {
	return call[LeaderboardList](ctx, c, Leaderboard, request{})
}

func (c *Client) DailyGoals(ctx context.Context) (DailyGoalList, error) {
	return call[DailyGoalList](ctx, c, GoalsDaily, request{})
}

func (c *Client) CompleteGoal(ctx context.Context, goalID string) (CompletionResult, error) {
	return call[CompletionResult](ctx, c, GoalComplete, request{id: goalID})
}
