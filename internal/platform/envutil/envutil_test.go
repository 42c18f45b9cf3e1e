package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("MENTORO_TEST_INT", "nope")
	if got := Int("MENTORO_TEST_INT", 7); got != 7 {
		t.Fatalf("got=%d", got)
	}
	t.Setenv("MENTORO_TEST_INT", " 12 ")
	if got := Int("MENTORO_TEST_INT", 7); got != 12 {
		t.Fatalf("got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("MENTORO_TEST_BOOL", "on")
	if !Bool("MENTORO_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("MENTORO_TEST_BOOL", "maybe")
	if !Bool("MENTORO_TEST_BOOL", true) {
		t.Fatalf("expected default")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("MENTORO_TEST_DUR", "250ms")
	if got := Duration("MENTORO_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("got=%s", got)
	}
	t.Setenv("MENTORO_TEST_DUR", "3")
	if got := Duration("MENTORO_TEST_DUR", time.Second); got != 3*time.Second {
		t.Fatalf("got=%s", got)
	}
}
