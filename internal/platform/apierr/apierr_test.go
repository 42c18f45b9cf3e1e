package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndCodeThroughWrapping(t *testing.T) {
	base := New(http.StatusUnauthorized, "session_expired", errors.New("session expired"))
	wrapped := fmt.Errorf("get profile: %w", base)

	if got := StatusOf(wrapped); got != http.StatusUnauthorized {
		t.Fatalf("status=%d", got)
	}
	if got := CodeOf(wrapped); got != "session_expired" {
		t.Fatalf("code=%q", got)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("errors.Is lost the api error")
	}
}

func TestDefaults(t *testing.T) {
	if got := StatusOf(errors.New("x")); got != http.StatusInternalServerError {
		t.Fatalf("status=%d", got)
	}
	if got := CodeOf(nil); got != "internal" {
		t.Fatalf("code=%q", got)
	}
	if got := (&Error{Status: 418}).Error(); got != "api error (418)" {
		t.Fatalf("msg=%q", got)
	}
}
