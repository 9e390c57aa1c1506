package multihead

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrConfiguration     = errors.New("invalid report configuration")
	ErrOrderConflict     = errors.New("column order conflict")
	ErrUnknownKey        = errors.New("unknown multi-value key")
	ErrLinkResolution    = errors.New("cannot resolve hyperlink")
)

// ConfigError reports an override or record type that cannot be laid out.
// It is returned while the layout is built, before any cell is written.
type ConfigError struct {
	Path   string // Column path the problem was found on, empty for report-wide problems
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: column %q: %s", ErrConfiguration, e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configErrorf(path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// OrderConflictError reports two explicitly ordered sibling columns that were
// declared next to each other with the same order value.
type OrderConflictError struct {
	First  string
	Second string
	Order  int
}

func (e *OrderConflictError) Error() string {
	return fmt.Sprintf("%s: columns %q and %q both declare order %d", ErrOrderConflict, e.First, e.Second, e.Order)
}

// Is makes errors.Is(err, ErrOrderConflict) match.
func (e *OrderConflictError) Is(target error) bool { return target == ErrOrderConflict }

// UnknownKeyError reports a multi-value entry whose key was not declared for
// the column. Rows written before the failing record stay in the sink.
type UnknownKeyError struct {
	Path string
	Key  string
	Row  int // Grid row being written when the key was found
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s: column %q has no key %q (row %d)", ErrUnknownKey, e.Path, e.Key, e.Row)
}

// Is makes errors.Is(err, ErrUnknownKey) match.
func (e *UnknownKeyError) Is(target error) bool { return target == ErrUnknownKey }

// LinkError reports a companion URL that is not an absolute URI. It only
// escapes the row emitter for columns configured with StrictLink.
type LinkError struct {
	Path string
	URL  string
	Row  int
	Err  error
}

func (e *LinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: column %q row %d: %q: %v", ErrLinkResolution, e.Path, e.Row, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: column %q row %d: %q", ErrLinkResolution, e.Path, e.Row, e.URL)
}

// Is makes errors.Is(err, ErrLinkResolution) match.
func (e *LinkError) Is(target error) bool { return target == ErrLinkResolution }

// Unwrap returns the parse error behind the link failure.
func (e *LinkError) Unwrap() error { return e.Err }
