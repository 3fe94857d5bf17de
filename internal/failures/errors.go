package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDiscovery     = errors.New("discovery error")
	ErrDecode        = errors.New("decode error")
	ErrGeometry      = errors.New("geometry error")
	ErrWrite         = errors.New("write error")
	ErrConfiguration = errors.New("configuration error")
)

// Kind labels used in skip records and run summaries.
const (
	KindDiscovery     = "discovery"
	KindDecode        = "decode"
	KindGeometry      = "geometry"
	KindWrite         = "write"
	KindConfiguration = "configuration"
	KindUnknown       = "unknown"
)

// Wrap builds an error message that includes scope context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, scope, operation, message string, err error) error {
	detail := buildDetail(scope, operation, message)
	if marker == nil {
		marker = ErrDecode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to the label of the first marker it matches.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDiscovery):
		return KindDiscovery
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrGeometry):
		return KindGeometry
	case errors.Is(err, ErrWrite):
		return KindWrite
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindUnknown
	}
}

func buildDetail(scope, operation, message string) string {
	parts := make([]string, 0, 3)
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
