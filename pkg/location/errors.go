package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by providers. Callers match them with errors.Is.
var (
	ErrScannerNotFound   = errors.New("no radio scanner available")
	ErrWiFiNotAvailable  = errors.New("no wireless interface available")
	ErrNoWiFiInRange     = errors.New("no access points or cell towers in range")
	ErrUnauthorized      = errors.New("positioning service rejected the API key")
	ErrServerUnavailable = errors.New("positioning service unavailable")
	ErrNoFix             = errors.New("location cannot be determined")
	ErrTimeout           = errors.New("positioning request timed out")
)

// classifyMapsError maps an error from the Google Maps client onto one of the sentinels.
// The client only reports API failures as formatted strings, hence the substring checks.
func classifyMapsError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "keyInvalid", "keyExpired", "accessNotConfigured", "REQUEST_DENIED", "API key"):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case containsAny(msg, "notFound", "ZERO_RESULTS"):
		return fmt.Errorf("%w: %w", ErrNoFix, err)
	default:
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
