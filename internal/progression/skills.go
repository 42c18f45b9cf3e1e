package progression

import "fmt"

// UpgradeSkill raises an unlocked skill by one level when the profile has at
// least XPCost experience. Experience is a threshold, not a currency.
func (s *Store) UpgradeSkill(id string) {
	s.apply("upgrade_skill", func(st *state) bool {
		sk := st.skill(id)
		if sk == nil || !sk.Unlocked || sk.Level >= sk.MaxLevel || st.profile.XP < sk.XPCost {
			return false
		}
		sk.Level++
		sk.Mastered = sk.Level >= sk.MaxLevel
		name := sk.Name
		st.refreshSkills()
		st.notify(Notification{
			Title:    "Skill Upgraded!",
			Message:  fmt.Sprintf("%s leveled up! You're getting stronger.", name),
			Type:     NotifySuccess,
			Priority: PriorityMedium,
			Icon:     "⬆️",
		})
		return true
	})
}

// refreshSkills unlocks skills whose prerequisites all have level >= 1.
func (st *state) refreshSkills() {
	for i := range st.skills {
		sk := &st.skills[i]
		sk.Mastered = sk.Level >= sk.MaxLevel
		if sk.Unlocked {
			continue
		}
		ready := true
		for _, p := range sk.Prerequisites {
			dep := st.skill(p)
			if dep == nil || dep.Level < 1 {
				ready = false
				break
			}
		}
		sk.Unlocked = ready
	}
}
