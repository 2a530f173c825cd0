// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pysetup/pysetup/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestNewServiceError_ValidConstruction(t *testing.T) {
	t.Parallel()

	err := errors.New("test error")
	svcErr := newServiceError(err, issue.CloneFailedId, "styled message")

	if !errors.Is(svcErr.Err, err) {
		t.Errorf("Err = %v, want %v", svcErr.Err, err)
	}
	if svcErr.IssueID != issue.CloneFailedId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.CloneFailedId)
	}
	if svcErr.StyledMessage != "styled message" {
		t.Errorf("StyledMessage = %q, want %q", svcErr.StyledMessage, "styled message")
	}
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, 0, "")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	t.Run("nil is a no-op", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		renderServiceError(&buf, nil, "notty")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("styled message only", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		renderServiceError(&buf, newServiceError(errors.New("x"), 0, "styled\n"), "notty")
		if buf.String() != "styled\n" {
			t.Errorf("output = %q, want %q", buf.String(), "styled\n")
		}
	})

	t.Run("issue entry", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		renderServiceError(&buf, newServiceError(errors.New("x"), issue.VersionNotDetectedId, ""), "notty")
		if strings.TrimSpace(buf.String()) == "" {
			t.Error("expected the issue catalog entry to be rendered")
		}
	})
}
