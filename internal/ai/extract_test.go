package ai

import (
	"encoding/json"
	"testing"
)

func TestFirstMatch(t *testing.T) {
	cases := []struct {
		name string
		text string
		open byte
		want string
		ok   bool
	}{
		{"bare array", `[1,2]`, '[', `[1,2]`, true},
		{"prose around", "cards:\n[{\"a\":1}]\nenjoy", '[', `[{"a":1}]`, true},
		{"trailing bracket in prose", `x [1] then [note`, '[', `[1]`, true},
		{"closer inside string", `here [{"q":"what is a[0]?"}] and [more]`, '[', `[{"q":"what is a[0]?"}]`, true},
		{"escaped quote", `{"a":"say \"}\""} trailing }`, '{', `{"a":"say \"}\""}`, true},
		{"fenced object", "```json\n{\"title\":\"x\"}\n```", '{', `{"title":"x"}`, true},
		{"skips invalid first span", `[oops] [true]`, '[', `[true]`, true},
		{"no opener", `nothing here`, '[', "", false},
		{"unbalanced", `[1, 2`, '[', "", false},
		{"bad opener", `(1)`, '(', "", false},
	}
	for _, tc := range cases {
		got, ok := FirstMatch{}.Extract(tc.text, tc.open, nil)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got=(%q,%v) want=(%q,%v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFirstMatchSkipsLiteralsThatDoNotFit(t *testing.T) {
	objects := func(raw string) bool {
		var v []map[string]any
		return json.Unmarshal([]byte(raw), &v) == nil && len(v) > 0
	}
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"citation before payload", `Here are the 2 cards [1]: [{"q":"a"},{"q":"b"}]`, `[{"q":"a"},{"q":"b"}]`, true},
		{"empty array then payload", `[] or rather [{"q":"a"}] [2]`, `[{"q":"a"}]`, true},
		{"nothing fits", `see [1] and [2, 3]`, "", false},
	}
	for _, tc := range cases {
		got, ok := FirstMatch{}.Extract(tc.text, '[', objects)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got=(%q,%v) want=(%q,%v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
