package ai

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ProjectRequest struct {
	ProjectType    string   `json:"projectType"`
	Difficulty     string   `json:"difficulty"`
	Technologies   []string `json:"technologies"`
	ProjectSize    string   `json:"projectSize"`
	FocusArea      string   `json:"focusArea"`
	TimePreference string   `json:"timePreference"`
	LearningGoal   string   `json:"learningGoal"`
	CurrentMood    string   `json:"currentMood"`
	EnergyLevel    string   `json:"energyLevel"`
	PreferredStyle string   `json:"preferredStyle"`
	UserLevel      int      `json:"userLevel"`

	// Optional mood and time hints folded into the prompt.
	MoodMessage    string `json:"moodMessage,omitempty"`
	MoodBoost      string `json:"moodBoost,omitempty"`
	TimeSuggestion string `json:"timeSuggestion,omitempty"`
}

type ProjectFile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Lines       int    `json:"lines"`
	Description string `json:"description"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type CodeSnippet struct {
	Filename    string `json:"filename"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

type Project struct {
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Features            []string      `json:"features"`
	Challenges          []string      `json:"challenges"`
	Files               []ProjectFile `json:"files"`
	EstimatedTime       string        `json:"estimatedTime"`
	XPReward            int           `json:"xpReward"`
	Difficulty          string        `json:"difficulty"`
	Technologies        []string      `json:"technologies"`
	LearningOutcomes    []string      `json:"learningOutcomes"`
	MotivationalMessage string        `json:"motivationalMessage"`
	PersonalizedTips    []string      `json:"personalizedTips"`
	MoodBasedFeatures   []string      `json:"moodBasedFeatures"`
	NextSteps           []string      `json:"nextSteps"`
	Resources           []Resource    `json:"resources"`
	CodeSnippets        []CodeSnippet `json:"codeSnippets"`
}

func (r ProjectRequest) normalized() ProjectRequest {
	r.ProjectType = strings.TrimSpace(r.ProjectType)
	if r.ProjectType == "" {
		r.ProjectType = "web app"
	}
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = "beginner"
	}
	r.ProjectSize = strings.ToLower(strings.TrimSpace(r.ProjectSize))
	if r.ProjectSize == "" {
		r.ProjectSize = "medium"
	}
	if r.UserLevel < 1 {
		r.UserLevel = 1
	}
	return r
}

var estimatedTimeBySize = map[string]string{
	"small":  "2-4 hours",
	"medium": "4-8 hours",
	"large":  "8-16 hours",
}

// FallbackProject is the canned project used when generation fails.
func FallbackProject(req ProjectRequest) Project {
	req = req.normalized()
	focus := strings.TrimSpace(req.FocusArea)
	if focus == "" {
		focus = req.ProjectType
	}
	eta, ok := estimatedTimeBySize[req.ProjectSize]
	if !ok {
		eta = estimatedTimeBySize["medium"]
	}
	return Project{
		Title:       fmt.Sprintf("%s Practice Project", titleCase(focus)),
		Description: fmt.Sprintf("Build a %s focused on %s", req.ProjectType, focus),
		Features:    []string{"Core functionality", "User interface", "Data management"},
		Challenges:  []string{"Implement the main feature", "Handle edge cases"},
		Files: []ProjectFile{
			{Name: "src/App.tsx", Type: "component", Lines: 100, Description: "Main application component"},
		},
		EstimatedTime:       eta,
		XPReward:            500,
		Difficulty:          req.Difficulty,
		Technologies:        append([]string(nil), req.Technologies...),
		LearningOutcomes:    []string{"Problem solving", "Project structure"},
		MotivationalMessage: "You've got this! Start small, ship something, then iterate.",
		PersonalizedTips:    []string{"Break the work into small milestones", "Commit after every working step"},
		MoodBasedFeatures:   []string{},
		NextSteps:           []string{"Set up the project", "Build the core feature", "Polish and share"},
		Resources:           []Resource{},
		CodeSnippets:        []CodeSnippet{},
	}
}

// fillProject completes blank fields of a generated project from the request.
func fillProject(p Project, req ProjectRequest) Project {
	if p.Difficulty == "" {
		p.Difficulty = req.Difficulty
	}
	if p.Technologies == nil {
		p.Technologies = append([]string(nil), req.Technologies...)
	}
	if p.EstimatedTime == "" {
		p.EstimatedTime = FallbackProject(req).EstimatedTime
	}
	return p
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
