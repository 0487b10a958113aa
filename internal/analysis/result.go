package analysis

import (
	"errors"
	"fmt"
)

// ErrAnalysisFailed is the single failure kind of an analysis. Service
// unreachable, missing model, malformed response and encoding failures all
// map to it.
var ErrAnalysisFailed = errors.New("analysis failed")

// Result is the outcome of one analysis: either the model's text or the
// cause of the failure.
type Result struct {
	text  string
	cause error
}

// Success returns a successful Result carrying text unmodified.
func Success(text string) Result {
	return Result{text: text}
}

// Failure returns a failed Result. A nil cause is replaced with
// ErrAnalysisFailed so that a failed Result is never mistaken for success.
func Failure(cause error) Result {
	if cause == nil {
		cause = ErrAnalysisFailed
	}
	return Result{cause: cause}
}

// OK reports whether the analysis succeeded.
func (r Result) OK() bool {
	return r.cause == nil
}

// Text returns the analysis text of a successful Result.
func (r Result) Text() string {
	return r.text
}

// Err returns nil on success, or the cause wrapped with ErrAnalysisFailed.
func (r Result) Err() error {
	if r.cause == nil {
		return nil
	}
	if errors.Is(r.cause, ErrAnalysisFailed) {
		return r.cause
	}
	return fmt.Errorf("%w: %w", ErrAnalysisFailed, r.cause)
}

// Message returns the text shown to the user: the analysis itself, or the
// failure description followed by remediation tips.
func (r Result) Message() string {
	if r.cause == nil {
		return r.text
	}
	return FormatFailure(r.cause)
}

// FormatFailure renders err as the user-facing failure message.
func FormatFailure(err error) string {
	return fmt.Sprintf("Error during analysis: %s\n\n%s", err, remediation)
}
