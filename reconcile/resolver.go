package reconcile

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// maxSuffixAttempts bounds the suffix search before the timestamp fallback
// kicks in. Hitting it means a pathological collision storm, not normal data.
const maxSuffixAttempts = 100

// Resolver assigns a final, unused document number to a candidate base
// number. The zero value is not usable; Clock must be set.
type Resolver struct {
	Clock Clock
	Log   *logrus.Entry

	// MaxAttempts overrides the suffix search bound. Zero means the default.
	MaxAttempts int
}

// Resolve returns the base unchanged when it is free, otherwise the base with
// the smallest unused " - N" suffix, N >= 1. When every suffix up to the
// bound is taken, a unix-timestamp suffix from the Clock keeps the row
// insertable instead of failing it. The returned number is guaranteed absent
// from the index at the time of the call; the caller must register it with
// MarkDocument before resolving the next candidate.
func (r *Resolver) Resolve(base string, ix *Index) string {
	if !ix.HasDocument(base) {
		return base
	}

	bound := r.MaxAttempts
	if bound <= 0 {
		bound = maxSuffixAttempts
	}
	for n := 1; n <= bound; n++ {
		candidate := base + suffixSep + strconv.Itoa(n)
		if !ix.HasDocument(candidate) {
			if r.Log != nil && n > 1 {
				r.Log.Debugf("document %s resolved with suffix %d", base, n)
			}
			return candidate
		}
	}

	fallback := base + suffixSep + strconv.FormatInt(r.Clock.Today().Unix(), 10)
	if r.Log != nil {
		r.Log.Warnf("suffix search for %s exhausted after %d attempts, using timestamp fallback %s",
			base, bound, fallback)
	}
	return fallback
}

// SuffixedNumber formats a document number with an explicit suffix. Exposed
// for callers that need to display or compare suffixed forms.
func SuffixedNumber(base string, n int) string {
	return fmt.Sprintf("%s%s%d", base, suffixSep, n)
}
