package ai

import (
	"strings"

	"github.com/yungbote/mentoro/internal/progression"
)

const fallbackTopic = "programming"

type cannedCard struct {
	question, answer, explanation, code string
	tags                                []string
}

var cannedCards = map[string][]cannedCard{
	"react": {
		{
			question:    "What is JSX and why is it used in React?",
			answer:      "JSX (JavaScript XML) is a syntax extension for JavaScript that allows you to write HTML-like code in your JavaScript files. It gets transpiled to React.createElement() calls.",
			tags:        []string{"jsx", "syntax", "react"},
			explanation: "JSX makes React code more readable and allows developers to write component templates in a familiar HTML-like syntax.",
			code:        "const element = <h1>Hello, World!</h1>;\n// Transpiles to: React.createElement('h1', null, 'Hello, World!');",
		},
		{
			question:    "What is the difference between state and props in React?",
			answer:      "Props are read-only data passed from parent to child components, while state is mutable data managed within a component that can trigger re-renders when changed.",
			tags:        []string{"state", "props", "components"},
			explanation: "Understanding the difference between props and state is fundamental to React's data flow and component architecture.",
			code:        "// Props (read-only)\nfunction Child({ name }) { return <h1>Hello {name}</h1>; }\n\n// State (mutable)\nconst [count, setCount] = useState(0);",
		},
		{
			question:    "What is the purpose of the useEffect hook?",
			answer:      "useEffect is used to perform side effects in functional components, such as data fetching, subscriptions, or manually changing the DOM. It runs after render and can be controlled with dependencies.",
			tags:        []string{"hooks", "useEffect", "side-effects"},
			explanation: "useEffect replaces lifecycle methods in functional components and helps manage side effects in a declarative way.",
			code:        "useEffect(() => {\n  // Side effect code\n  fetchData();\n}, [dependency]); // Runs when dependency changes",
		},
		{
			question:    "How do you handle events in React?",
			answer:      "React uses SyntheticEvents, which are wrappers around native events. Event handlers are passed as props and use camelCase naming convention.",
			tags:        []string{"events", "handlers", "synthetic-events"},
			explanation: "React's event system provides consistent behavior across different browsers and integrates well with React's component model.",
			code:        "function Button() {\n  const handleClick = (e) => {\n    e.preventDefault();\n    console.log('Button clicked!');\n  };\n  return <button onClick={handleClick}>Click me</button>;\n}",
		},
		{
			question:    "What are React keys and why are they important?",
			answer:      "Keys are special attributes that help React identify which items have changed, been added, or removed in lists. They should be stable, predictable, and unique among siblings.",
			tags:        []string{"keys", "lists", "performance"},
			explanation: "Keys help React optimize rendering performance by tracking list items and minimizing DOM manipulations.",
			code:        "const items = data.map(item => \n  <li key={item.id}>{item.name}</li>\n); // Use unique, stable keys",
		},
	},
	"javascript": {
		{
			question:    "What is a closure in JavaScript and how does it work?",
			answer:      "A closure is a function that has access to variables in its outer (enclosing) scope even after the outer function has returned. This allows for data privacy and function factories.",
			tags:        []string{"closure", "scope", "functions"},
			explanation: "Closures are fundamental to JavaScript and enable powerful patterns like module patterns, callbacks, and data encapsulation.",
			code:        "function outer(x) {\n  return function inner(y) {\n    return x + y; // inner has access to x\n  };\n}\nconst add5 = outer(5);\nconsole.log(add5(3)); // 8",
		},
		{
			question:    "What is the difference between let, const, and var?",
			answer:      "var is function-scoped and can be redeclared; let is block-scoped and can be reassigned but not redeclared; const is block-scoped and cannot be reassigned or redeclared.",
			tags:        []string{"variables", "scope", "declarations"},
			explanation: "Understanding variable declarations is crucial for avoiding scope-related bugs and writing predictable JavaScript code.",
			code:        "var a = 1; // function-scoped\nlet b = 2; // block-scoped, reassignable\nconst c = 3; // block-scoped, immutable binding",
		},
		{
			question:    "What is the event loop in JavaScript?",
			answer:      "The event loop is JavaScript's concurrency model that handles asynchronous operations. It continuously checks the call stack and task queue, moving tasks from the queue to the stack when the stack is empty.",
			tags:        []string{"event-loop", "async", "concurrency"},
			explanation: "The event loop enables JavaScript's non-blocking behavior and is essential for understanding how async code executes.",
			code:        "console.log('1');\nsetTimeout(() => console.log('2'), 0);\nconsole.log('3');\n// Output: 1, 3, 2",
		},
		{
			question:    "What is prototypal inheritance in JavaScript?",
			answer:      "Prototypal inheritance is JavaScript's inheritance model where objects can inherit properties and methods from other objects through the prototype chain.",
			tags:        []string{"prototype", "inheritance", "objects"},
			explanation: "Understanding prototypes is key to mastering JavaScript's object-oriented features and how built-in methods work.",
			code:        "const parent = { greet() { return 'Hello'; } };\nconst child = Object.create(parent);\nconsole.log(child.greet()); // 'Hello'",
		},
		{
			question:    "What are JavaScript functions and how do they work?",
			answer:      "Functions are reusable blocks of code that perform specific tasks. They can take parameters, return values, and can be declared, expressed, or created as arrow functions.",
			tags:        []string{"functions", "parameters", "return"},
			explanation: "Functions are fundamental building blocks in JavaScript that enable code reusability and modular programming.",
			code:        "// Function declaration\nfunction greet(name) {\n  return `Hello, ${name}!`;\n}\n\n// Arrow function\nconst greet = (name) => `Hello, ${name}!`;",
		},
	},
	"css": {
		{
			question:    "What is the CSS Box Model?",
			answer:      "The CSS Box Model describes how elements are structured with content, padding, border, and margin. It determines the total space an element occupies.",
			tags:        []string{"box-model", "layout", "spacing"},
			explanation: "Understanding the box model is fundamental for controlling layout and spacing in CSS.",
			code:        "/* Total width = content + padding + border + margin */\n.box {\n  width: 100px;\n  padding: 10px;\n  border: 2px solid;\n  margin: 5px;\n}",
		},
		{
			question:    "What is the difference between Flexbox and CSS Grid?",
			answer:      "Flexbox is designed for one-dimensional layouts (row or column), while CSS Grid is designed for two-dimensional layouts (rows and columns simultaneously).",
			tags:        []string{"flexbox", "grid", "layout"},
			explanation: "Choosing between Flexbox and Grid depends on whether you need one-dimensional or two-dimensional layout control.",
			code:        "/* Flexbox - 1D */\n.flex { display: flex; }\n\n/* Grid - 2D */\n.grid {\n  display: grid;\n  grid-template-columns: 1fr 1fr;\n}",
		},
	},
	fallbackTopic: {
		{
			question:    "What is a variable in programming?",
			answer:      "A variable is a named storage location that holds data which can be modified during program execution. Variables have types and scope.",
			tags:        []string{"variables", "data", "storage"},
			explanation: "Variables are fundamental concepts in programming that allow us to store and manipulate data.",
			code:        "// JavaScript variable examples\nlet name = 'John';  // String variable\nconst age = 25;     // Number constant\nvar isActive = true; // Boolean variable",
		},
		{
			question:    "What is a function in programming?",
			answer:      "A function is a reusable block of code that performs a specific task. It can accept input parameters and return output values.",
			tags:        []string{"functions", "reusability", "parameters"},
			explanation: "Functions help organize code, promote reusability, and make programs more modular and maintainable.",
			code:        "// Function that adds two numbers\nfunction add(a, b) {\n  return a + b;\n}\n\n// Usage\nconst result = add(5, 3); // Returns 8",
		},
		{
			question:    "What is a loop in programming?",
			answer:      "A loop is a programming construct that repeats a block of code multiple times until a specified condition is met.",
			tags:        []string{"loops", "iteration", "control-flow"},
			explanation: "Loops are essential for automating repetitive tasks and processing collections of data efficiently.",
			code:        "// For loop example\nfor (let i = 0; i < 5; i++) {\n  console.log('Count:', i);\n}\n// Prints numbers 0 through 4",
		},
	},
}

// FallbackFlashcards returns the canned set for topic, labelled with the
// requested topic and difficulty. Unknown topics get the general programming
// set. The result holds at most count cards.
func FallbackFlashcards(topic string, difficulty progression.CardDifficulty, count int) []progression.Flashcard {
	set, ok := cannedCards[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		set = cannedCards[fallbackTopic]
	}
	if count < 0 {
		count = 0
	}
	n := min(count, len(set))
	out := make([]progression.Flashcard, 0, n)
	for _, c := range set[:n] {
		out = append(out, progression.Flashcard{
			Question:    c.question,
			Answer:      c.answer,
			Difficulty:  difficulty,
			Category:    topic,
			Tags:        append([]string(nil), c.tags...),
			Explanation: c.explanation,
			CodeExample: c.code,
		})
	}
	return out
}

// fallbackReply answers in the personality's voice without a provider.
func fallbackReply(message string, style progression.ResponseStyle) string {
	lower := strings.ToLower(message)
	asksCards := strings.Contains(lower, "flashcard") ||
		strings.Contains(lower, "make card") ||
		strings.Contains(lower, "create card")

	pick := func(cond bool, yes, no string) string {
		if cond {
			return yes
		}
		return no
	}

	switch style {
	case progression.StyleDirect:
		if asksCards {
			return "Confirmed. I'll generate flashcards for you. Specify the topic and difficulty level for optimal results."
		}
		return "I'm currently running in limited mode, but I can still assist you. " + pick(strings.Contains(lower, "error"),
			"For debugging, try checking your console logs and breaking down the problem step by step.",
			"What programming challenge are you working on? I can generate practice flashcards for any topic.")
	case progression.StyleHumorous:
		if asksCards {
			return "Flashcards coming right up! 🃏 Even though my AI brain is taking a coffee break, I can still whip up some awesome practice questions for you! What topic shall we tackle?"
		}
		return "Oops! Looks like my AI brain is taking a coffee break ☕ But don't worry, I'm still here to help! " + pick(strings.Contains(lower, "bug"),
			"Bugs are just undocumented features, right? 😄 Let me know what you're working on!",
			"What coding adventure shall we embark on today? I can whip up some flashcards to make learning more fun!")
	case progression.StyleAnalytical:
		if asksCards {
			return "Request acknowledged. I'll systematically generate flashcards based on your specified parameters. Please provide the topic and desired difficulty level."
		}
		return "I'm currently operating with reduced functionality, but I can still provide structured guidance. " + pick(strings.Contains(lower, "algorithm"),
			"For algorithmic problems, let's break this down systematically.",
			"What specific technical concept would you like to analyze? I can create targeted flashcards to test your understanding.")
	case progression.StyleSupportive:
		if asksCards {
			return "Of course! I'm here to support your learning journey! 💪 I'll create some helpful flashcards for you. What topic would you like to practice? Remember, every expert was once a beginner!"
		}
		return "I understand this might be frustrating, but I'm here to support you! 💪 " + pick(strings.Contains(lower, "difficult"),
			"Remember, every expert was once a beginner. What specific area would you like help with?",
			"What programming goal are you working towards today? I can create personalized flashcards to help you succeed!")
	default:
		if asksCards {
			return "Absolutely! I'd love to create some flashcards for you! 🎯 While my AI is having a moment, I can still help you practice. What topic would you like flashcards on? I'll generate some great practice questions to help you learn!"
		}
		return "I love your curiosity about coding! While I'm having trouble connecting to my full AI capabilities right now, I'm still here to help. " + pick(strings.Contains(lower, "react"),
			"React is such a powerful library - would you like me to create some flashcards to help you learn React concepts better?",
			"What specific programming topic would you like to explore together? I can create flashcards to help you practice!")
	}
}
