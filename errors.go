package issuecache

import (
	"fmt"
)

// PatternError reports which half of a pattern invalidation failed:
// enumerating the matching keys, or deleting the batch. It stays internal
// to the facade; InvalidateByPattern collapses it to a boolean after
// logging it.
type PatternError struct {
	Pattern string
	ScanErr error
	DelErr  error
}

func (e *PatternError) Error() string {
	switch {
	case e.ScanErr != nil:
		return fmt.Sprintf("invalidate %q: key scan failed: %v", e.Pattern, e.ScanErr)
	case e.DelErr != nil:
		return fmt.Sprintf("invalidate %q: batch delete failed: %v", e.Pattern, e.DelErr)
	default:
		return fmt.Sprintf("invalidate %q: unknown error", e.Pattern)
	}
}

func (e *PatternError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.ScanErr != nil {
		errs = append(errs, e.ScanErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
