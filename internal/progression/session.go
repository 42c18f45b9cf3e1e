package progression

import (
	"strings"

	"github.com/google/uuid"
)

func (s *Store) AddNotification(n Notification) {
	s.apply("add_notification", func(st *state) bool {
		if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Message) == "" {
			return false
		}
		st.notify(n)
		return true
	})
}

func (s *Store) MarkRead(id string) {
	s.apply("mark_read", func(st *state) bool {
		for i := range st.notifications {
			if st.notifications[i].ID == id {
				if st.notifications[i].Read {
					return false
				}
				st.notifications[i].Read = true
				return true
			}
		}
		return false
	})
}

func (s *Store) MarkAllRead() {
	s.apply("mark_all_read", func(st *state) bool {
		changed := false
		for i := range st.notifications {
			if !st.notifications[i].Read {
				st.notifications[i].Read = true
				changed = true
			}
		}
		return changed
	})
}

func (s *Store) ClearNotifications() {
	s.apply("clear_notifications", func(st *state) bool {
		if len(st.notifications) == 0 {
			return false
		}
		st.notifications = nil
		return true
	})
}

// AddChatMessage appends m to the chat history. Empty content is ignored;
// a missing sender defaults to the user and a missing personality to the
// current one.
func (s *Store) AddChatMessage(m ChatMessage) {
	s.apply("add_chat_message", func(st *state) bool {
		if strings.TrimSpace(m.Content) == "" {
			return false
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = st.now()
		}
		if m.Sender == "" {
			m.Sender = SenderUser
		}
		if m.Personality == "" {
			m.Personality = st.personality
		}
		st.appendChat(m)
		return true
	})
}

func (s *Store) ClearChatHistory() {
	s.apply("clear_chat_history", func(st *state) bool {
		if len(st.chat) == 0 {
			return false
		}
		st.chat = nil
		return true
	})
}

func (s *Store) SwitchPersonality(id string) {
	s.apply("switch_personality", func(st *state) bool {
		if id == st.personality {
			return false
		}
		for _, p := range st.personalities {
			if p.ID == id {
				st.personality = id
				return true
			}
		}
		return false
	})
}

func (s *Store) ChangeTheme(theme string) {
	s.apply("change_theme", func(st *state) bool {
		theme = strings.TrimSpace(theme)
		if theme == "" || theme == st.theme {
			return false
		}
		st.theme = theme
		st.profile.CurrentTheme = theme
		return true
	})
}

func (s *Store) ToggleSidebar() {
	s.apply("toggle_sidebar", func(st *state) bool {
		st.sidebar = !st.sidebar
		return true
	})
}

// Login replaces the profile with p and marks the session authenticated.
// Derived fields are recomputed from p.TotalXP. Re-signing the same user
// never lowers TotalXP below what was earned locally.
func (s *Store) Login(p Profile) {
	s.apply("login", func(st *state) bool {
		if strings.TrimSpace(p.ID) == "" {
			return false
		}
		p = cloneProfile(p)
		if p.XP > p.TotalXP {
			p.TotalXP = p.XP
		}
		if st.authenticated && st.profile.ID == p.ID && st.profile.TotalXP > p.TotalXP {
			p.TotalXP = st.profile.TotalXP
		}
		if p.CurrentTheme == "" {
			p.CurrentTheme = st.theme
		}
		if len(p.UnlockedThemes) == 0 {
			p.UnlockedThemes = []string{p.CurrentTheme}
		}
		if p.Mood == "" {
			p.Mood = MoodExcited
		}
		st.profile = p
		st.theme = p.CurrentTheme
		st.authenticated = true
		st.recomputeDerived()
		return true
	})
}

// Logout returns to a guest profile and drops per-user progress. UI
// preferences survive.
func (s *Store) Logout() {
	s.apply("logout", func(st *state) bool {
		catalog := make([]Quest, len(st.quests))
		copy(catalog, st.quests)
		st.profile = guestProfile()
		st.profile.CurrentTheme = st.theme
		st.authenticated = false
		st.notifications = nil
		st.chat = nil
		st.resetProgress(catalog)
		st.recomputeDerived()
		return true
	})
}

// UpdateProfile applies the non-nil display fields of u.
func (s *Store) UpdateProfile(u ProfileUpdate) {
	s.apply("update_profile", func(st *state) bool {
		changed := false
		set := func(dst *string, v *string) {
			if v == nil {
				return
			}
			val := strings.TrimSpace(*v)
			if val == "" || val == *dst {
				return
			}
			*dst = val
			changed = true
		}
		set(&st.profile.Username, u.Username)
		set(&st.profile.Email, u.Email)
		set(&st.profile.Avatar, u.Avatar)
		if u.Mood != nil && *u.Mood != "" && *u.Mood != st.profile.Mood {
			st.profile.Mood = *u.Mood
			changed = true
		}
		return changed
	})
}
