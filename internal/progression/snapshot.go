package progression

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Bounds on what a snapshot keeps.
const (
	PersistedNotifications = 10
	PersistedChatMessages  = 50
)

type QuestProgress struct {
	ID       string      `json:"id"`
	Status   QuestStatus `json:"status"`
	Progress int         `json:"progress"`
}

type SkillProgress struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// Snapshot is the persisted projection of the store. Catalogs are not part
// of it; they are rebuilt from code.
type Snapshot struct {
	Profile          Profile         `json:"profile"`
	Authenticated    bool            `json:"authenticated"`
	Notifications    []Notification  `json:"notifications"`
	ChatHistory      []ChatMessage   `json:"chat_history"`
	Theme            string          `json:"current_theme"`
	SidebarCollapsed bool            `json:"sidebar_collapsed"`
	PersonalityID    string          `json:"current_personality"`
	Quests           []QuestProgress `json:"quests"`
	Skills           []SkillProgress `json:"skills"`
	DailyGoals       []DailyGoal     `json:"daily_goals"`
	GoalsDay         string          `json:"goals_day,omitempty"`
}

// Snapshot returns the projection that would be persisted now.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot()
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Profile:          cloneProfile(st.profile),
		Authenticated:    st.authenticated,
		Notifications:    append([]Notification(nil), tail(st.notifications, PersistedNotifications)...),
		ChatHistory:      append([]ChatMessage(nil), tail(st.chat, PersistedChatMessages)...),
		Theme:            st.theme,
		SidebarCollapsed: st.sidebar,
		PersonalityID:    st.personality,
		Quests:           make([]QuestProgress, len(st.quests)),
		Skills:           make([]SkillProgress, len(st.skills)),
		DailyGoals:       append([]DailyGoal(nil), st.goals...),
		GoalsDay:         st.goalsDay,
	}
	for i, q := range st.quests {
		snap.Quests[i] = QuestProgress{ID: q.ID, Status: q.Status, Progress: q.Progress}
	}
	for i, sk := range st.skills {
		snap.Skills[i] = SkillProgress{ID: sk.ID, Level: sk.Level}
	}
	return snap
}

func tail[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// Rehydrate loads the persisted snapshot. A missing snapshot leaves fresh
// state; a malformed one is logged and ignored. Only a failing Load is
// returned.
func (s *Store) Rehydrate(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	raw, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(raw) == 0 {
		s.log.Debug("no snapshot, starting fresh")
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn("malformed snapshot ignored", "error", err, "bytes", len(raw))
		return nil
	}

	s.mu.Lock()
	s.st.restore(snap)
	s.mu.Unlock()
	s.log.Info("snapshot restored",
		"user_id", snap.Profile.ID,
		"total_xp", snap.Profile.TotalXP,
		"notifications", len(snap.Notifications),
		"chat_messages", len(snap.ChatHistory),
	)
	return nil
}

func (st *state) restore(snap Snapshot) {
	if snap.Profile.ID != "" {
		st.profile = cloneProfile(snap.Profile)
		if len(st.profile.UnlockedThemes) == 0 {
			st.profile.UnlockedThemes = []string{"dark"}
		}
	}
	st.authenticated = snap.Authenticated
	st.notifications = append([]Notification(nil), tail(snap.Notifications, PersistedNotifications)...)
	st.chat = append([]ChatMessage(nil), tail(snap.ChatHistory, PersistedChatMessages)...)
	if snap.Theme != "" {
		st.theme = snap.Theme
	}
	st.sidebar = snap.SidebarCollapsed
	for _, p := range st.personalities {
		if p.ID == snap.PersonalityID {
			st.personality = p.ID
		}
	}

	for _, qp := range snap.Quests {
		q := st.quest(qp.ID)
		if q == nil {
			continue
		}
		switch qp.Status {
		case QuestLocked, QuestAvailable, QuestInProgress, QuestCompleted:
			q.Status = qp.Status
			q.Progress = max(0, min(100, qp.Progress))
		}
		if q.Status == QuestCompleted {
			q.Progress = 100
		}
	}
	st.enforceLocks()
	st.refreshAvailability()

	for _, sp := range snap.Skills {
		if sk := st.skill(sp.ID); sk != nil {
			sk.Level = max(0, min(sk.MaxLevel, sp.Level))
			sk.Unlocked = sk.Unlocked || sk.Level > 0
		}
	}
	st.refreshSkills()

	if len(snap.DailyGoals) > 0 {
		byID := make(map[string]DailyGoal, len(snap.DailyGoals))
		for _, g := range snap.DailyGoals {
			byID[g.ID] = g
		}
		for i := range st.goals {
			if g, ok := byID[st.goals[i].ID]; ok {
				st.goals[i].Current = max(0, min(st.goals[i].Target, g.Current))
				st.goals[i].Completed = g.Completed
			}
		}
	}
	if _, err := time.Parse(time.DateOnly, snap.GoalsDay); err == nil {
		st.goalsDay = snap.GoalsDay
	}
	st.recomputeDerived()
}
