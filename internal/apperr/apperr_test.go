package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorsIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("wrapping: %w", NotFound("timeline"))
	if !errors.Is(err, NotFound("")) {
		t.Error("wrapped not-found error must match on code")
	}
	if errors.Is(err, Validation("")) {
		t.Error("codes must not cross-match")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{AccessDenied(""), http.StatusForbidden},
		{NotFound("report"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{ActionTypeMismatch("delete", "user"), http.StatusBadRequest},
		{OrphanViolation(""), http.StatusConflict},
		{ProtectedAccount(), http.StatusForbidden},
		{SubmissionRestricted("no"), http.StatusForbidden},
		{Internal(""), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.err.Code, tc.status, tc.err.Status)
		}
	}
}

func TestWithDetailsCopies(t *testing.T) {
	base := OrphanViolation("")
	detailed := base.WithDetails(map[string]any{"tag_count": 1})
	if base.Details != nil {
		t.Error("WithDetails must not mutate the original")
	}
	if detailed.Details["tag_count"] != 1 {
		t.Error("details missing on the copy")
	}
}
