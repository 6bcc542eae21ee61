package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeEqualityThroughWrap(t *testing.T) {
	err := ErrAlreadyRequested.WrapMsg("pair", "from", "a", "to", "b")
	if !errors.Is(err, ErrAlreadyRequested) {
		t.Fatal("wrapped error must keep its code identity")
	}
	if errors.Is(err, ErrAlreadyFriends) {
		t.Fatal("different codes must not compare equal")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
	if WrapMsg(nil, "ctx") != nil {
		t.Fatal("WrapMsg(nil) must be nil")
	}
}

func TestDetailAccumulates(t *testing.T) {
	e := ErrValidation.WithDetail("first").WithDetail("second")
	if e.Detail != "first, second" {
		t.Fatalf("detail = %q", e.Detail)
	}
	if e.Code != ValidationErrorCode {
		t.Fatalf("code = %d", e.Code)
	}
}

func TestUnwrapReachesBottom(t *testing.T) {
	base := ErrNotFound.Wrap()
	wrapped := fmt.Errorf("outer: %w", base)
	var ce CodeError
	if !errors.As(Unwrap(wrapped), &ce) {
		t.Fatal("Unwrap must expose the CodeError")
	}
	if ce.Code != NotFoundError {
		t.Fatalf("code = %d", ce.Code)
	}
}
