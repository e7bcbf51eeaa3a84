package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"chartsync/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrSourceUnavailable, "billboard", "fetch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"billboard", "fetch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.Kind
	}{
		{"identity", services.Wrap(services.ErrInvalidIdentity, "registry", "resolve", "empty name", nil), services.KindInvalidIdentity},
		{"source", fmt.Errorf("batch: %w", services.ErrSourceUnavailable), services.KindSourceUnavailable},
		{"referential", services.Wrap(services.ErrReferentialViolation, "records", "insert", "", nil), services.KindReferentialViolation},
		{"configuration", services.ErrConfiguration, services.KindConfiguration},
		{"validation", services.ErrValidation, services.KindValidation},
		{"plain", errors.New("disk full"), services.KindInternal},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !services.Retryable(services.Wrap(services.ErrSourceUnavailable, "spotify", "page", "", nil)) {
		t.Fatal("expected source failures to be retryable")
	}
	if services.Retryable(services.ErrReferentialViolation) {
		t.Fatal("expected referential violations to be fatal")
	}
}
