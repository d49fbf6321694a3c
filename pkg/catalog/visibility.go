package catalog

import "time"

// Visibility narrows the album and track query set for a caller. When
// Restricted, only items released on or before Today are part of the set, so
// an unreleased item looks exactly like a missing one.
type Visibility struct {
	Restricted bool
	Today      Date
}

// NewVisibility returns the Visibility for caller at the given instant.
// Privileged callers see everything.
func NewVisibility(caller Caller, now time.Time) Visibility {
	return Visibility{
		Restricted: !caller.Privileged(),
		Today:      DateOf(now),
	}
}

// Unrestricted is the Visibility used for privileged and internal reads.
var Unrestricted = Visibility{}

// Allows reports whether an album released on the given day is visible.
func (v Visibility) Allows(release Date) bool {
	return !v.Restricted || !release.After(v.Today)
}
