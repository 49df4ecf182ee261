package ensemble

import "fmt"

// DuplicateMemberError reports two members resolving to the same identifier.
type DuplicateMemberError struct {
	Identifier string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("duplicate ensemble member %q", e.Identifier)
}

// NoSuccessfulRunsError reports a merge attempted with no member in the
// success state.
type NoSuccessfulRunsError struct{}

func (e *NoSuccessfulRunsError) Error() string {
	return "no successful runs to merge"
}
