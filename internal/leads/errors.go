package leads

import "strings"

// ValidationError lists every rule a submission failed. It is raised before
// any network call and blocks the insert.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, " ")
}
