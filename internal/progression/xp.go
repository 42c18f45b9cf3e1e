package progression

import (
	"fmt"
	"time"
)

// XP sources with special handling.
const (
	SourceDailyGoal = "daily_goal"
	SourceFlashcard = "flashcard_practice"
	SourceBattle    = "battle"
)

const streakWarriorDays = 7

// GrantXP adds amount to the profile. Non-positive amounts are ignored.
func (s *Store) GrantXP(amount int, source string) {
	s.apply("grant_xp", func(st *state) bool { return st.grantXP(amount, source) })
}

func (st *state) grantXP(amount int, source string) bool {
	if amount <= 0 {
		return false
	}
	before := st.profile.Level
	st.profile.XP += amount
	st.profile.TotalXP += amount
	st.recomputeDerived()

	if st.profile.Level > before {
		st.notify(Notification{
			Title:    "Level Up!",
			Message:  fmt.Sprintf("Congratulations! You've reached level %d!", st.profile.Level),
			Type:     NotifyLevelUp,
			Priority: PriorityHigh,
			Icon:     "🎉",
		})
	}
	if source != SourceDailyGoal {
		st.advanceGoals(GoalXP, amount)
	}
	return true
}

// UpdateStreak records a login at now. Days are compared in the store's
// location.
func (s *Store) UpdateStreak(now time.Time) {
	s.apply("update_streak", func(st *state) bool { return st.updateStreak(now) })
}

func (st *state) updateStreak(now time.Time) bool {
	today := st.day(now)
	last := st.profile.LastLoginDate
	switch {
	case last.IsZero():
		st.profile.Streak = 1
	case st.day(last).Equal(today), today.Before(st.day(last)):
		return false
	case st.day(last).AddDate(0, 0, 1).Equal(today):
		st.profile.Streak++
	default:
		st.profile.Streak = 1
	}
	st.profile.LastLoginDate = now

	if key := today.Format(time.DateOnly); st.goalsDay != key {
		st.goals = DefaultDailyGoals()
		st.goalsDay = key
	}
	if st.profile.Streak >= streakWarriorDays {
		st.unlockAchievement(AchievementStreakWarrior)
	}
	return true
}

// day truncates t to midnight in the store's location.
func (st *state) day(t time.Time) time.Time {
	t = t.In(st.env.loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, st.env.loc)
}

// CompleteGoal marks a daily goal done and grants its reward once per day.
func (s *Store) CompleteGoal(id string) {
	s.apply("complete_goal", func(st *state) bool { return st.completeGoal(id) })
}

func (st *state) completeGoal(id string) bool {
	for i := range st.goals {
		g := &st.goals[i]
		if g.ID != id {
			continue
		}
		if g.Completed {
			return false
		}
		g.Completed = true
		g.Current = g.Target
		st.grantXP(g.XPReward, SourceDailyGoal)
		st.notify(Notification{
			Title:    "Daily Goal Complete!",
			Message:  fmt.Sprintf("%s: +%d XP", g.Title, g.XPReward),
			Type:     NotifySuccess,
			Priority: PriorityMedium,
			Icon:     g.Icon,
		})
		return true
	}
	return false
}

// advanceGoals moves open goals of kind toward their target. Reaching the
// target does not complete the goal; CompleteGoal does.
func (st *state) advanceGoals(kind GoalKind, n int) {
	for i := range st.goals {
		g := &st.goals[i]
		if g.Kind != kind || g.Completed {
			continue
		}
		g.Current = min(g.Target, g.Current+n)
	}
}

// UnlockAchievement adds a catalog achievement to the profile and grants its
// reward. Already unlocked or unknown IDs are ignored.
func (s *Store) UnlockAchievement(id string) {
	s.apply("unlock_achievement", func(st *state) bool { return st.unlockAchievement(id) })
}

func (st *state) unlockAchievement(id string) bool {
	for _, a := range st.profile.Achievements {
		if a.ID == id {
			return false
		}
	}
	for _, a := range st.achievements {
		if a.ID != id {
			continue
		}
		at := st.now()
		a.UnlockedAt = &at
		st.profile.Achievements = append(st.profile.Achievements, a)
		st.notify(Notification{
			Title:    "Achievement Unlocked!",
			Message:  fmt.Sprintf("%s: %s", a.Title, a.Description),
			Type:     NotifyAchievement,
			Priority: PriorityHigh,
			Icon:     a.Icon,
		})
		st.grantXP(a.XPReward, "achievement:"+id)
		return true
	}
	return false
}

// RecordBattle counts a finished battle and grants xp.
func (s *Store) RecordBattle(won bool, xp int) {
	s.apply("record_battle", func(st *state) bool {
		st.profile.TotalBattles++
		if won {
			st.profile.BattlesWon++
			st.advanceGoals(GoalBattles, 1)
			st.unlockAchievement(AchievementFirstVictory)
		}
		st.grantXP(xp, SourceBattle)

		n := Notification{Type: NotifyBattle, Priority: PriorityMedium, Icon: "⚔️"}
		if won {
			n.Title = "Battle Won!"
			n.Message = fmt.Sprintf("Victory! You earned %d XP.", max(xp, 0))
		} else {
			n.Title = "Battle Finished"
			n.Message = "Good fight! Practice makes perfect."
		}
		st.notify(n)
		return true
	})
}
