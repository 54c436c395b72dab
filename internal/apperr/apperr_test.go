package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{Validation("items are required"), KindValidation, http.StatusBadRequest},
		{NotFound("order %s not found", "x"), KindNotFound, http.StatusNotFound},
		{Forbidden("email does not match"), KindForbidden, http.StatusForbidden},
		{Conflict("duplicate review"), KindConflict, http.StatusConflict},
		{Dependency("store error", errors.New("conn refused")), KindDependency, http.StatusInternalServerError},
		{errors.New("plain"), KindUnknown, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.kind {
			t.Errorf("KindOf(%v)=%d, want %d", c.err, got, c.kind)
		}
		if got := HTTPStatus(c.err); got != c.status {
			t.Errorf("HTTPStatus(%v)=%d, want %d", c.err, got, c.status)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NotFound("order not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("wrapped error lost its kind")
	}
}

func TestMessageSuppressesDetail(t *testing.T) {
	err := Dependency("store error", errors.New("dial tcp 10.0.0.1: refused"))
	if msg := Message(err, false); msg != "store error" {
		t.Fatalf("production message leaked detail: %q", msg)
	}
	if msg := Message(err, true); msg == "store error" {
		t.Fatalf("development message should include the cause")
	}
}
