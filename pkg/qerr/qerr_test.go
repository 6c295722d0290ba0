package qerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_NilPassthrough(t *testing.T) {
	if New(CodeQueryFailed, nil) != nil {
		t.Error("New with nil error should return nil")
	}
}

func TestIsCode_FollowsWrapping(t *testing.T) {
	base := Errorf(CodeNoBackend, "none of [a b] found")
	wrapped := fmt.Errorf("selecting backend: %w", base)

	if !IsCode(wrapped, CodeNoBackend) {
		t.Error("expected wrapped error to keep its code")
	}
	if IsCode(wrapped, CodeQueryFailed) {
		t.Error("unexpected code match")
	}
	if IsCode(nil, CodeNoBackend) {
		t.Error("nil error should not match any code")
	}
	if CodeOf(errors.New("plain")) != CodeUnknown {
		t.Error("plain errors should report CodeUnknown")
	}
}

func TestError_Message(t *testing.T) {
	err := New(CodeVersionParse, errors.New("bad version \"x\""))
	if err.Error() != `version_parse: bad version "x"` {
		t.Errorf("unexpected message %q", err.Error())
	}

	inner := errors.New("inner")
	if !errors.Is(New(CodeUnknown, inner), inner) {
		t.Error("Unwrap should expose the inner error")
	}
}

func TestIsConfig(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{CodeConfig, true},
		{CodeUnsupportedScheduler, true},
		{CodeNoBackend, true},
		{CodeInvalidInput, true},
		{CodeQueryFailed, false},
		{CodeVersionParse, false},
	}
	for _, tt := range tests {
		if got := IsConfig(Errorf(tt.code, "x")); got != tt.want {
			t.Errorf("IsConfig(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
