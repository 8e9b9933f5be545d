package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBusy is returned while a save or translation is in flight
	ErrBusy = errors.New("draft is busy")
	// ErrNotLastStep is returned by Submit before the final step
	ErrNotLastStep = errors.New("submit is only allowed on the last step")
	// ErrUnsupportedLanguage is returned for unknown language codes
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrLabelsUnavailable is returned when labels could not be loaded; the
	// previous labels stay active
	ErrLabelsUnavailable = errors.New("labels unavailable")
	// ErrUnknownField is returned when editing a field that does not exist
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError lists the required fields missing on a step
type ValidationError struct {
	Step    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: missing required fields: %s", e.Step, strings.Join(e.Missing, ", "))
}

// PersistError wraps a failed create or update; the draft is left intact
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s resume: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
