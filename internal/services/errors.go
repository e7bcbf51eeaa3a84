package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentity marks a raw entry without a usable artist label.
	// The entry is skipped and the batch continues.
	ErrInvalidIdentity = errors.New("invalid artist identity")
	// ErrSourceUnavailable marks a source that could not be reached or whose
	// payload could not be parsed into entries. The batch is aborted.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrReferentialViolation marks a chart record whose artist id does not
	// resolve. It indicates a broken internal invariant and is never recovered.
	ErrReferentialViolation = errors.New("referential violation")
	ErrConfiguration        = errors.New("configuration error")
	ErrValidation           = errors.New("validation error")
)

// Kind names the error class used for the event_type log field.
type Kind string

const (
	KindInvalidIdentity      Kind = "invalid_identity"
	KindSourceUnavailable    Kind = "source_unavailable"
	KindReferentialViolation Kind = "referential_violation"
	KindConfiguration        Kind = "configuration"
	KindValidation           Kind = "validation"
	KindInternal             Kind = "internal"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrSourceUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its Kind. Unmarked errors are internal.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidIdentity):
		return KindInvalidIdentity
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrReferentialViolation):
		return KindReferentialViolation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}

// Retryable reports whether an operator may safely re-run the failed batch.
// Source failures leave the cursor untouched, so re-running is safe.
func Retryable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
