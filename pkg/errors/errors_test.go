package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New(http.StatusBadRequest, "test")
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestFromError(t *testing.T) {
	apiErr := ErrForbidden
	if out := FromError(apiErr); out != apiErr {
		t.Fatal("expected FromError to return the same APIError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != http.StatusInternalServerError {
		t.Fatalf("expected internal server code, got %d", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestUnwrap(t *testing.T) {
	internal := stdErrors.New("inner")
	err := ErrInternalServer.WithInternal(internal)

	if !stdErrors.Is(err, internal) {
		t.Fatal("expected errors.Is to reach the internal error")
	}
}

func TestNewHelpers(t *testing.T) {
	cases := []struct {
		err  *APIError
		code int
	}{
		{NewBadRequest("bad"), http.StatusBadRequest},
		{NewNotFound("gone"), http.StatusNotFound},
		{NewConflict("dup"), http.StatusConflict},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Fatalf("expected code %d, got %d", tc.code, tc.err.Code)
		}
	}
}
