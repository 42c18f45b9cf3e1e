package progression

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Rank orders difficulties; unknown values sort first.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	case DifficultyExpert:
		return 4
	default:
		return 0
	}
}

type QuestStatus string

const (
	QuestLocked     QuestStatus = "locked"
	QuestAvailable  QuestStatus = "available"
	QuestInProgress QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
)

type QuestType string

const (
	QuestCoding    QuestType = "coding"
	QuestTheory    QuestType = "theory"
	QuestProject   QuestType = "project"
	QuestChallenge QuestType = "challenge"
)

type Quest struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Difficulty       Difficulty  `json:"difficulty"`
	XPReward         int         `json:"xp_reward"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	Prerequisites    []string    `json:"prerequisites"`
	Skills           []string    `json:"skills"`
	Status           QuestStatus `json:"status"`
	Progress         int         `json:"progress"`
	Type             QuestType   `json:"type"`
	Category         string      `json:"category"`
	Objectives       []string    `json:"objectives"`
	Hints            []string    `json:"hints"`
}

type NotificationType string

const (
	NotifyInfo        NotificationType = "info"
	NotifySuccess     NotificationType = "success"
	NotifyWarning     NotificationType = "warning"
	NotifyError       NotificationType = "error"
	NotifyAchievement NotificationType = "achievement"
	NotifyBattle      NotificationType = "battle"
	NotifyQuest       NotificationType = "quest"
	NotifySocial      NotificationType = "social"
	NotifyLevelUp     NotificationType = "level_up"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	Priority  Priority         `json:"priority"`
	Icon      string           `json:"icon,omitempty"`
	ActionURL string           `json:"action_url,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type ChatMessage struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Sender      Sender    `json:"sender"`
	Timestamp   time.Time `json:"timestamp"`
	Personality string    `json:"personality"`
	Mood        string    `json:"mood,omitempty"`
}

type CardDifficulty string

const (
	CardEasy   CardDifficulty = "easy"
	CardMedium CardDifficulty = "medium"
	CardHard   CardDifficulty = "hard"
)

type Flashcard struct {
	Question    string         `json:"question"`
	Answer      string         `json:"answer"`
	Difficulty  CardDifficulty `json:"difficulty"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Explanation string         `json:"explanation,omitempty"`
	CodeExample string         `json:"codeExample,omitempty"`
}

type FlashcardSession struct {
	Topic     string      `json:"topic"`
	Cards     []Flashcard `json:"cards"`
	Correct   int         `json:"correct"`
	Incorrect int         `json:"incorrect"`
	XPEarned  int         `json:"xp_earned"`
	Active    bool        `json:"active"`
}

type ResponseStyle string

const (
	StyleEncouraging ResponseStyle = "encouraging"
	StyleDirect      ResponseStyle = "direct"
	StyleHumorous    ResponseStyle = "humorous"
	StyleAnalytical  ResponseStyle = "analytical"
	StyleSupportive  ResponseStyle = "supportive"
)

type Personality struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Avatar           string        `json:"avatar"`
	Description      string        `json:"description"`
	Style            ResponseStyle `json:"response_style"`
	Traits           []string      `json:"traits"`
	TeachingApproach string        `json:"teaching_approach"`
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Rarity      Rarity     `json:"rarity"`
	XPReward    int        `json:"xp_reward"`
	Category    string     `json:"category"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type GoalKind string

const (
	GoalXP      GoalKind = "xp"
	GoalQuests  GoalKind = "quests"
	GoalBattles GoalKind = "battles"
)

type DailyGoal struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        GoalKind `json:"type"`
	Target      int      `json:"target"`
	Current     int      `json:"current"`
	XPReward    int      `json:"xp_reward"`
	Icon        string   `json:"icon"`
	Completed   bool     `json:"completed"`
}

type Skill struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Rarity        Rarity     `json:"rarity"`
	Level         int        `json:"level"`
	MaxLevel      int        `json:"max_level"`
	XPCost        int        `json:"xp_cost"`
	Prerequisites []string   `json:"prerequisites"`
	Unlocked      bool       `json:"unlocked"`
	Mastered      bool       `json:"mastered"`
}

type Mood string

const (
	MoodExcited   Mood = "excited"
	MoodFocused   Mood = "focused"
	MoodTired     Mood = "tired"
	MoodConfused  Mood = "confused"
	MoodMotivated Mood = "motivated"
)

// Profile is owned by the Store. Level, XPToNextLevel and Rank are derived
// from TotalXP and recomputed on every change.
type Profile struct {
	ID                    string        `json:"id"`
	Username              string        `json:"username"`
	Email                 string        `json:"email,omitempty"`
	Avatar                string        `json:"avatar"`
	Level                 int           `json:"level"`
	XP                    int           `json:"xp"`
	TotalXP               int           `json:"total_xp"`
	XPToNextLevel         int           `json:"xp_to_next_level"`
	Streak                int           `json:"streak_days"`
	LastLoginDate         time.Time     `json:"last_login_date"`
	Rank                  string        `json:"rank"`
	Mood                  Mood          `json:"mood"`
	CurrentTheme          string        `json:"current_theme"`
	UnlockedThemes        []string      `json:"unlocked_themes"`
	TotalBattles          int           `json:"total_battles"`
	BattlesWon            int           `json:"battles_won"`
	QuestsCompleted       int           `json:"quests_completed"`
	CardsCollected        int           `json:"cards_collected"`
	ContributionsAccepted int           `json:"contributions_accepted"`
	Achievements          []Achievement `json:"achievements"`
}

// ProfileUpdate carries display fields only; progression fields change
// exclusively through Store actions.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Mood     *Mood   `json:"mood,omitempty"`
}

// State is a deep copy of the store contents.
type State struct {
	Profile            Profile          `json:"profile"`
	Authenticated      bool             `json:"authenticated"`
	Quests             []Quest          `json:"quests"`
	Notifications      []Notification   `json:"notifications"`
	ChatHistory        []ChatMessage    `json:"chat_history"`
	CurrentPersonality Personality      `json:"current_personality"`
	Personalities      []Personality    `json:"personalities"`
	CurrentTheme       string           `json:"current_theme"`
	SidebarCollapsed   bool             `json:"sidebar_collapsed"`
	DailyGoals         []DailyGoal      `json:"daily_goals"`
	Skills             []Skill          `json:"skills"`
	FlashcardSession   FlashcardSession `json:"flashcard_session"`
}

// UnreadCount counts notifications with Read == false.
func (s State) UnreadCount() int {
	n := 0
	for _, no := range s.Notifications {
		if !no.Read {
			n++
		}
	}
	return n
}
