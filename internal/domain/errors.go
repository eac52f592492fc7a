package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrLookup        = errors.New("lookup error")
)

// ConfigurationError reports a structural defect in the catalog or in a
// site's instance map (cycles, dangling references, no terminal milestone).
// It is fatal to the call that raised it.
type ConfigurationError struct {
	Reason      string
	MilestoneID string
	Cycle       []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error: ")
	b.WriteString(e.Reason)
	if e.MilestoneID != "" {
		fmt.Fprintf(&b, " (milestone %s)", e.MilestoneID)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Cycle, " -> "))
	}
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ValidationError reports a rejected value. The targeted field is left unchanged.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s (got %v)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// LookupError reports a reference to an entity that does not exist.
type LookupError struct {
	Kind string
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// ErrorKind classifies err as "configuration", "validation", "lookup" or "error".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrLookup):
		return "lookup"
	default:
		return "error"
	}
}
