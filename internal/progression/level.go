package progression

import "strings"

const XPPerLevel = 1000

// LevelForXP is floor(totalXP/1000)+1. Negative input is treated as zero.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

func XPToNextLevel(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return XPPerLevel - totalXP%XPPerLevel
}

type rankStep struct {
	minXP int
	label string
}

// RankLadder maps total XP to a display rank. Steps are sorted by ascending minXP.
type RankLadder struct {
	name  string
	steps []rankStep
}

var (
	CodingRanks = RankLadder{name: "coding", steps: []rankStep{
		{0, "Bronze I"},
		{1000, "Bronze II"},
		{1500, "Silver I"},
		{2000, "Silver II"},
		{5000, "Gold I"},
		{7500, "Gold II"},
		{10000, "Platinum"},
		{20000, "Diamond"},
	}}
	MedicalRanks = RankLadder{name: "medical", steps: []rankStep{
		{0, "Intern"},
		{2000, "Resident"},
		{5000, "Consultant"},
		{10000, "Nova Surgeon"},
	}}
)

// LadderByName resolves "coding" or "medical"; anything else yields CodingRanks.
func LadderByName(name string) RankLadder {
	if strings.EqualFold(strings.TrimSpace(name), MedicalRanks.name) {
		return MedicalRanks
	}
	return CodingRanks
}

func (l RankLadder) Name() string { return l.name }

func (l RankLadder) RankFor(totalXP int) string {
	if len(l.steps) == 0 {
		return ""
	}
	label := l.steps[0].label
	for _, s := range l.steps {
		if totalXP < s.minXP {
			break
		}
		label = s.label
	}
	return label
}
