package progression

import (
	"fmt"
	"strings"
)

// DefaultQuests is the static quest catalog. Statuses are recomputed from
// prerequisites when a Store is built.
func DefaultQuests() []Quest {
	return []Quest{
		{
			ID:               "quest-1",
			Title:            "JavaScript Fundamentals",
			Description:      "Master the basics of JavaScript programming including variables, functions, and control structures.",
			Difficulty:       DifficultyBeginner,
			XPReward:         500,
			EstimatedMinutes: 120,
			Skills:           []string{"JavaScript", "Programming Basics", "Syntax"},
			Type:             QuestTheory,
			Category:         "Frontend",
			Objectives: []string{
				"Understand variable declarations",
				"Learn function syntax",
				"Master conditional statements",
				"Practice loops and iterations",
			},
			Hints: []string{
				"Start with let and const declarations",
				"Functions can be declared or expressed",
				"Use console.log() to debug your code",
			},
		},
		{
			ID:               "quest-2",
			Title:            "React Component Mastery",
			Description:      "Build dynamic user interfaces with React components, hooks, and state management.",
			Difficulty:       DifficultyIntermediate,
			XPReward:         750,
			EstimatedMinutes: 180,
			Prerequisites:    []string{"quest-1"},
			Skills:           []string{"React", "JSX", "Hooks", "State Management"},
			Type:             QuestCoding,
			Category:         "Frontend",
			Objectives: []string{
				"Create functional components",
				"Implement useState and useEffect",
				"Handle events and forms",
				"Manage component lifecycle",
			},
			Hints: []string{
				"Components should be pure functions",
				"Use hooks for state and side effects",
				"Props flow down, events flow up",
			},
		},
		{
			ID:               "quest-3",
			Title:            "API Integration Challenge",
			Description:      "Connect your frontend to real-world APIs and handle asynchronous data.",
			Difficulty:       DifficultyAdvanced,
			XPReward:         1000,
			EstimatedMinutes: 240,
			Prerequisites:    []string{"quest-2"},
			Skills:           []string{"APIs", "Async/Await", "Error Handling", "HTTP"},
			Type:             QuestProject,
			Category:         "Full-Stack",
			Objectives: []string{
				"Fetch data from REST APIs",
				"Handle loading and error states",
				"Implement proper error boundaries",
				"Cache and optimize API calls",
			},
			Hints: []string{
				"Always handle loading states",
				"Use try-catch for error handling",
				"Consider using React Query for caching",
			},
		},
		{
			ID:               "quest-4",
			Title:            "CSS Layout Fundamentals",
			Description:      "Lay out real pages with the box model, Flexbox and CSS Grid.",
			Difficulty:       DifficultyBeginner,
			XPReward:         400,
			EstimatedMinutes: 90,
			Skills:           []string{"CSS", "Flexbox", "Grid"},
			Type:             QuestCoding,
			Category:         "Frontend",
			Objectives: []string{
				"Explain the box model",
				"Build a one-dimensional layout with Flexbox",
				"Build a two-dimensional layout with Grid",
			},
			Hints: []string{
				"Use the browser devtools box model view",
				"Flexbox for rows or columns, Grid for both",
			},
		},
		{
			ID:               "quest-5",
			Title:            "Full-Stack Capstone",
			Description:      "Ship a responsive app backed by a real API, end to end.",
			Difficulty:       DifficultyExpert,
			XPReward:         1500,
			EstimatedMinutes: 480,
			Prerequisites:    []string{"quest-3", "quest-4"},
			Skills:           []string{"Architecture", "APIs", "CSS", "Deployment"},
			Type:             QuestChallenge,
			Category:         "Full-Stack",
			Objectives: []string{
				"Design the data model",
				"Integrate the API with loading and error states",
				"Make the layout responsive",
				"Deploy and share the result",
			},
			Hints: []string{
				"Start from the API contract",
				"Keep components small and testable",
			},
		},
	}
}

func DefaultPersonalities() []Personality {
	return []Personality{
		{
			ID:               "encouraging",
			Name:             "Alex the Motivator",
			Avatar:           "🌟",
			Description:      "Your cheerful coding companion who celebrates every victory",
			Style:            StyleEncouraging,
			Traits:           []string{"Positive", "Supportive", "Energetic", "Patient"},
			TeachingApproach: "Celebrates small wins and builds confidence step by step",
		},
		{
			ID:               "direct",
			Name:             "Code Master Pro",
			Avatar:           "🤖",
			Description:      "Straight to the point with efficient solutions",
			Style:            StyleDirect,
			Traits:           []string{"Efficient", "Logical", "Precise", "Technical"},
			TeachingApproach: "Gives the shortest correct path and the reasoning behind it",
		},
		{
			ID:               "humorous",
			Name:             "Debug Duck",
			Avatar:           "🦆",
			Description:      "Makes coding fun with jokes and witty explanations",
			Style:            StyleHumorous,
			Traits:           []string{"Funny", "Creative", "Relaxed", "Entertaining"},
			TeachingApproach: "Explains concepts through jokes, analogies and rubber-duck debugging",
		},
		{
			ID:               "analytical",
			Name:             "Data Sage",
			Avatar:           "🧠",
			Description:      "Deep analytical insights and systematic problem solving",
			Style:            StyleAnalytical,
			Traits:           []string{"Thorough", "Methodical", "Insightful", "Strategic"},
			TeachingApproach: "Breaks problems into parts and reasons about trade-offs",
		},
		{
			ID:               "supportive",
			Name:             "Mentor Maya",
			Avatar:           "💝",
			Description:      "Gentle guidance through challenging concepts",
			Style:            StyleSupportive,
			Traits:           []string{"Empathetic", "Understanding", "Nurturing", "Wise"},
			TeachingApproach: "Meets the learner where they are and normalizes struggle",
		},
	}
}

const (
	AchievementFirstQuest    = "first-quest"
	AchievementStreakWarrior = "streak-warrior"
	AchievementFlashcardHero = "flashcard-hero"
	AchievementFirstVictory  = "first-victory"
)

func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstQuest, Title: "First Steps", Description: "Completed your first quest", Icon: "🎯", Rarity: RarityCommon, XPReward: 100, Category: "Progress"},
		{ID: AchievementStreakWarrior, Title: "Streak Warrior", Description: "Maintain a 7-day learning streak", Icon: "🔥", Rarity: RarityRare, XPReward: 250, Category: "Consistency"},
		{ID: AchievementFlashcardHero, Title: "Flashcard Hero", Description: "Review 50 flashcards", Icon: "📚", Rarity: RarityRare, XPReward: 150, Category: "Practice"},
		{ID: AchievementFirstVictory, Title: "First Victory", Description: "Win your first coding battle", Icon: "⚔️", Rarity: RarityCommon, XPReward: 100, Category: "Battles"},
	}
}

func DefaultDailyGoals() []DailyGoal {
	return []DailyGoal{
		{ID: "goal-xp", Title: "Earn 500 XP", Description: "Complete quests and battles", Kind: GoalXP, Target: 500, XPReward: 100, Icon: "⚡"},
		{ID: "goal-quests", Title: "Complete 2 Quests", Description: "Finish any learning activities", Kind: GoalQuests, Target: 2, XPReward: 150, Icon: "🎯"},
		{ID: "goal-battles", Title: "Win 1 Battle", Description: "Emerge victorious in coding battles", Kind: GoalBattles, Target: 1, XPReward: 200, Icon: "⚔️"},
	}
}

func DefaultSkills() []Skill {
	mk := func(id, name, desc, category string, d Difficulty, r Rarity, cost int, prereqs ...string) Skill {
		return Skill{ID: id, Name: name, Description: desc, Category: category, Difficulty: d, Rarity: r, MaxLevel: 5, XPCost: cost, Prerequisites: prereqs}
	}
	return []Skill{
		mk("html-mastery", "HTML Mastery", "Master semantic HTML, accessibility, and modern web standards", "frontend", DifficultyBeginner, RarityCommon, 200),
		mk("css-artistry", "CSS Artistry", "Create stunning visual experiences with advanced CSS", "frontend", DifficultyIntermediate, RarityRare, 300, "html-mastery"),
		mk("js-foundations", "JavaScript Foundations", "Build solid JavaScript fundamentals and ES6+ features", "frontend", DifficultyIntermediate, RarityCommon, 400, "html-mastery"),
		mk("react-foundations", "React Foundations", "Master React fundamentals and component architecture", "frontend", DifficultyIntermediate, RarityEpic, 500, "js-foundations", "css-artistry"),
		mk("react-hooks", "React Hooks Mastery", "Master React Hooks and functional components", "frontend", DifficultyAdvanced, RarityEpic, 600, "react-foundations"),
		mk("state-management", "State Management", "Master complex state with Redux, Zustand, and more", "frontend", DifficultyAdvanced, RarityLegendary, 700, "react-hooks"),
		mk("node-mastery", "Node.js Mastery", "Build scalable server-side applications", "backend", DifficultyIntermediate, RarityRare, 500, "js-foundations"),
		mk("database-design", "Database Design", "Design efficient and scalable databases", "backend", DifficultyAdvanced, RarityEpic, 600, "node-mastery"),
		mk("data-structures", "Data Structures", "Master fundamental data structures", "algorithms", DifficultyIntermediate, RarityCommon, 400, "js-foundations"),
		mk("sorting-algorithms", "Sorting Algorithms", "Implement and optimize sorting algorithms", "algorithms", DifficultyIntermediate, RarityRare, 500, "data-structures"),
	}
}

// ValidateCatalog checks quest IDs are unique and non-empty, rewards are
// positive, prerequisites reference known quests, and the prerequisite graph
// is acyclic.
func ValidateCatalog(quests []Quest) error {
	byID := make(map[string]*Quest, len(quests))
	for i := range quests {
		q := &quests[i]
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return fmt.Errorf("quest %d: empty id", i)
		}
		if _, dup := byID[id]; dup {
			return fmt.Errorf("quest %q: duplicate id", id)
		}
		if q.XPReward <= 0 {
			return fmt.Errorf("quest %q: xp reward must be positive", id)
		}
		byID[id] = q
	}
	for _, q := range quests {
		for _, p := range q.Prerequisites {
			if _, ok := byID[p]; !ok {
				return fmt.Errorf("quest %q: unknown prerequisite %q", q.ID, p)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	mark := make(map[string]int, len(quests))
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch mark[id] {
		case visiting:
			return fmt.Errorf("prerequisite cycle: %s", strings.Join(append(path, id), " -> "))
		case done:
			return nil
		}
		mark[id] = visiting
		for _, p := range byID[id].Prerequisites {
			if err := visit(p, append(path, id)); err != nil {
				return err
			}
		}
		mark[id] = done
		return nil
	}
	for _, q := range quests {
		if err := visit(q.ID, nil); err != nil {
			return err
		}
	}
	return nil
}
