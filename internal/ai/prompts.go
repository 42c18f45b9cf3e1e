package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

type PromptName string

const (
	PromptFlashcards      PromptName = "flashcards"
	PromptTopicFlashcards PromptName = "topic_flashcards"
	PromptProject         PromptName = "diy_project"
	PromptChat            PromptName = "buddy_chat"
)

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"json": func(v any) string {
		b, _ := json.Marshal(v)
		return string(b)
	},
	"orDefault": func(s, def string) string {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return s
	},
}

var prompts = map[PromptName]*template.Template{
	PromptFlashcards: mustPrompt(PromptFlashcards, `Generate {{.Count}} educational flashcards about {{.Topic}}{{if .Focus}} with specific focus on {{.Focus}}{{end}} for a {{.Difficulty}} level programmer (user level: {{.UserLevel}}).

Create practical, coding-focused questions that test real understanding, not just memorization.

Return ONLY a valid JSON array with this exact structure:
[
  {
    "question": "Clear, specific question about {{.Topic}} that tests practical understanding",
    "answer": "Comprehensive answer with clear explanation",
    "difficulty": "{{.Difficulty}}",
    "category": "{{.Topic}}",
    "tags": ["relevant", "programming", "tags"],
    "explanation": "Why this concept is important and how it's used",
    "codeExample": "// Optional: Brief code example if relevant\nconst example = 'code here';"
  }
]

Guidelines:
- Make questions practical and scenario-based
- Include code examples in answers when helpful
- Ensure answers teach the concept, not just state facts
- Use real-world programming scenarios
- Make explanations beginner-friendly but technically accurate
- Focus on concepts that {{.Difficulty}} level programmers should know`),

	PromptTopicFlashcards: mustPrompt(PromptTopicFlashcards, `Based on this conversation context, generate {{.Count}} relevant flashcards:

"{{.Context}}"

Create flashcards that reinforce the concepts discussed. Return ONLY a valid JSON array:
[
  {
    "question": "Question based on the conversation topic",
    "answer": "Detailed answer with explanation",
    "difficulty": "{{.Difficulty}}",
    "category": "extracted from context",
    "tags": ["relevant", "tags"],
    "explanation": "Why this is important to understand",
    "codeExample": "// Code example if relevant"
  }
]

Make the flashcards directly relevant to what was just discussed.`),

	PromptProject: mustPrompt(PromptProject, `Generate a comprehensive, personalized {{.ProjectType}} project with the following specifications:

**Project Configuration:**
- Type: {{.ProjectType}}
- Difficulty: {{.Difficulty}}
- Technologies: {{join .Technologies ", "}}
- Size: {{.ProjectSize}}
- Focus Area: {{.FocusArea}}
- Time Preference: {{.TimePreference}}
- Learning Goal: {{.LearningGoal}}

**Personalization Context:**
- Current Mood: {{.CurrentMood}} ({{orDefault .MoodMessage "Ready to code!"}})
- Energy Level: {{.EnergyLevel}}
- Preferred Style: {{.PreferredStyle}}
- User Level: {{.UserLevel}}
- Time Context: {{orDefault .TimeSuggestion "Perfect time for coding!"}}

**Mood-Based Enhancements:**
{{orDefault .MoodBoost "Add engaging features"}}
{{orDefault .TimeSuggestion "Focus on core functionality"}}

Create a project that:
1. Matches the user's current emotional state and energy level
2. Provides appropriate challenge for their skill level
3. Includes motivational elements and personal encouragement
4. Has clear, achievable learning outcomes
5. Feels personally relevant and engaging
6. Uses sensory language to create excitement
7. Includes mood-appropriate features and suggestions

Return ONLY a valid JSON object with this exact structure:
{
  "title": "Compelling, personalized project title that excites the user",
  "description": "Detailed description that makes the user excited to build this",
  "features": ["Feature 1 with emotional appeal", "Feature 2 that matches their mood", "Feature 3 that challenges appropriately"],
  "challenges": ["Challenge 1 suited to their energy", "Challenge 2 that builds confidence"],
  "files": [
    {
      "name": "src/App.tsx",
      "type": "component",
      "lines": 120,
      "description": "Main application component with routing and state"
    }
  ],
  "estimatedTime": "X-Y hours based on project size",
  "xpReward": 750,
  "difficulty": "{{.Difficulty}}",
  "technologies": {{json .Technologies}},
  "learningOutcomes": ["Specific skill 1", "Specific skill 2", "Specific skill 3"],
  "motivationalMessage": "Personal, encouraging message that acknowledges their mood and energy",
  "personalizedTips": ["Tip based on their mood", "Tip based on their energy level", "Tip based on their learning style"],
  "moodBasedFeatures": ["Feature that matches their current mood"],
  "nextSteps": ["Step 1", "Step 2", "Step 3"],
  "resources": [
    {
      "title": "Resource title",
      "url": "#",
      "type": "documentation"
    }
  ],
  "codeSnippets": [
    {
      "filename": "src/App.tsx",
      "code": "// Starter code example",
      "explanation": "What this code does and why it's important"
    }
  ]
}

Make the project feel like it was designed specifically for this person in this moment.`),

	PromptChat: mustPrompt(PromptChat, `You are {{.Name}}, an AI coding mentor with these characteristics:
- Style: {{.Style}}
- Traits: {{join .Traits ", "}}
- Teaching approach: {{.TeachingApproach}}

User context:
- Level: {{.Level}}
- Current mood: {{.Mood}}
- Current topic: {{orDefault .Topic "general programming"}}
{{- if .Recent}}

Recent conversation:
{{range .Recent}}- {{.}}
{{end}}{{end}}

User message: "{{.Message}}"

Respond in character as {{.Name}}. Keep responses helpful, encouraging, and under 200 words.
{{if .AsksFlashcards}}
IMPORTANT: The user is asking for flashcards. Acknowledge their request and confirm that you'll create flashcards for them. Say something like "I'll create flashcards for you right away!" or "Perfect! I'll generate some practice cards about [topic]."
{{else}}
If the user is asking about a programming concept, you can naturally offer to create flashcards by saying something like "I can create some practice flashcards to help you master this concept!" or "Would you like me to generate some flashcards to reinforce what we just discussed?"
{{end}}
Focus on being helpful and educational while maintaining your personality traits.`),
}

func mustPrompt(name PromptName, text string) *template.Template {
	return template.Must(template.New(string(name)).Funcs(promptFuncs).Option("missingkey=zero").Parse(text))
}

func renderPrompt(name PromptName, in any) (string, error) {
	t, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		return "", fmt.Errorf("%s prompt render: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
