package progression

import "fmt"

func (s *Store) StartQuest(id string) {
	s.apply("start_quest", func(st *state) bool {
		q := st.quest(id)
		if q == nil || q.Status != QuestAvailable {
			return false
		}
		q.Status = QuestInProgress
		q.Progress = 0
		return true
	})
}

// UpdateQuestProgress sets progress on an in-progress quest, clamped to 0..100.
func (s *Store) UpdateQuestProgress(id string, progress int) {
	s.apply("update_quest_progress", func(st *state) bool {
		q := st.quest(id)
		if q == nil || q.Status != QuestInProgress {
			return false
		}
		progress = max(0, min(100, progress))
		if q.Progress == progress {
			return false
		}
		q.Progress = progress
		return true
	})
}

// CompleteQuest finishes an in-progress quest and grants its reward. Any
// other status is a no-op, so the reward is granted at most once.
func (s *Store) CompleteQuest(id string) {
	s.apply("complete_quest", func(st *state) bool { return st.completeQuest(id) })
}

func (st *state) completeQuest(id string) bool {
	q := st.quest(id)
	if q == nil || q.Status != QuestInProgress {
		return false
	}
	q.Status = QuestCompleted
	q.Progress = 100
	title, reward := q.Title, q.XPReward

	st.profile.QuestsCompleted++
	st.grantXP(reward, "quest:"+id)
	st.notify(Notification{
		Title:    "Quest Completed!",
		Message:  fmt.Sprintf("You completed %q and earned %d XP!", title, reward),
		Type:     NotifyQuest,
		Priority: PriorityHigh,
		Icon:     "🏆",
	})
	for _, unlocked := range st.refreshAvailability() {
		st.notify(Notification{
			Title:    "New Quest Unlocked",
			Message:  fmt.Sprintf("%q is now available.", unlocked.Title),
			Type:     NotifyQuest,
			Priority: PriorityLow,
			Icon:     "🔓",
		})
	}
	st.advanceGoals(GoalQuests, 1)
	st.unlockAchievement(AchievementFirstQuest)
	return true
}

// UnlockQuest makes a locked quest available when its prerequisites are met.
func (s *Store) UnlockQuest(id string) {
	s.apply("unlock_quest", func(st *state) bool {
		q := st.quest(id)
		if q == nil || q.Status != QuestLocked || !st.prerequisitesMet(q) {
			return false
		}
		q.Status = QuestAvailable
		return true
	})
}

func (st *state) prerequisitesMet(q *Quest) bool {
	for _, p := range q.Prerequisites {
		dep := st.quest(p)
		if dep == nil || dep.Status != QuestCompleted {
			return false
		}
	}
	return true
}

// refreshAvailability promotes locked quests whose prerequisites are all
// completed and returns the promoted quests.
func (st *state) refreshAvailability() []Quest {
	var promoted []Quest
	for i := range st.quests {
		q := &st.quests[i]
		if q.Status == QuestLocked && st.prerequisitesMet(q) {
			q.Status = QuestAvailable
			promoted = append(promoted, *q)
		}
	}
	return promoted
}

// enforceLocks demotes quests whose prerequisites are not all completed.
// Used after restoring persisted statuses.
func (st *state) enforceLocks() {
	for changed := true; changed; {
		changed = false
		for i := range st.quests {
			q := &st.quests[i]
			if q.Status != QuestLocked && !st.prerequisitesMet(q) {
				q.Status = QuestLocked
				q.Progress = 0
				changed = true
			}
		}
	}
}
