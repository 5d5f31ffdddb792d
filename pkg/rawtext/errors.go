package rawtext

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the conversion functions.
var (
	ErrEmptyMessage       = errors.New("no content")
	ErrInvalidMessage     = errors.New("invalid rawtext message")
	ErrInvalidSelector    = errors.New("invalid selector")
	ErrInvalidParams      = errors.New("invalid translate parameters")
	ErrInvalidConditional = errors.New("invalid conditional block")
)

// SelectorError describes a selector grammar violation.
// Pos is a byte offset into Input, or -1 when the failure is not tied to one position.
type SelectorError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SelectorError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("invalid selector %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("invalid selector %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidSelector).
func (e *SelectorError) Unwrap() error {
	return ErrInvalidSelector
}

func selectorErr(input string, pos int, format string, args ...interface{}) error {
	return &SelectorError{Input: input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
