package progression

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type questSource []Quest

func (q questSource) String(i int) string { return q[i].Title }
func (q questSource) Len() int            { return len(q) }

type skillSource []Skill

func (s skillSource) String(i int) string { return s[i].Name }
func (s skillSource) Len() int            { return len(s) }

// SearchQuests returns quests whose title fuzzily matches term, best match
// first. A blank term returns every quest in catalog order.
func (s *Store) SearchQuests(term string) []Quest {
	quests := s.State().Quests
	term = strings.TrimSpace(term)
	if term == "" {
		return quests
	}
	matches := fuzzy.FindFrom(term, questSource(quests))
	out := make([]Quest, 0, len(matches))
	for _, m := range matches {
		out = append(out, quests[m.Index])
	}
	return out
}

func (s *Store) SearchSkills(term string) []Skill {
	skills := s.State().Skills
	term = strings.TrimSpace(term)
	if term == "" {
		return skills
	}
	matches := fuzzy.FindFrom(term, skillSource(skills))
	out := make([]Skill, 0, len(matches))
	for _, m := range matches {
		out = append(out, skills[m.Index])
	}
	return out
}
