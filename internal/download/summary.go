package download

import "github.com/handiism/ugtabs/internal/model"

// Summary is the result of a batch.
type Summary struct {
	BatchID string

	// Total is the number of URLs the batch was given.
	Total int

	// Outcomes holds one entry per attempted URL, in input order.
	Outcomes []model.Outcome

	// Skipped lists URLs never attempted because the batch was interrupted.
	Skipped []string
}

// NewSummary pairs the batch input with the outcomes FetchTabs returned.
func NewSummary(batchID string, urls []string, outcomes []model.Outcome) *Summary {
	s := &Summary{BatchID: batchID, Total: len(urls), Outcomes: outcomes}
	if len(outcomes) < len(urls) {
		s.Skipped = append([]string(nil), urls[len(outcomes):]...)
	}
	return s
}

// Succeeded returns the number of downloaded tabs.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes in input order.
func (s *Summary) Failures() []model.Outcome {
	var failed []model.Outcome
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// CountByKind counts failed outcomes per failure kind.
func (s *Summary) CountByKind() map[model.FailureKind]int {
	counts := make(map[model.FailureKind]int)
	for _, o := range s.Failures() {
		counts[o.Kind()]++
	}
	return counts
}

// AllAnonymous reports whether every attempted tab failed because the
// session was anonymous. That points at stale cookies rather than at any
// single tab.
func (s *Summary) AllAnonymous() bool {
	if len(s.Outcomes) == 0 {
		return false
	}
	for _, o := range s.Outcomes {
		if o.Kind() != model.KindAnonymousSession {
			return false
		}
	}
	return true
}
