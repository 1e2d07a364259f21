// Package availability reconciles injury, suspension and absence signals
// from multiple sources into one per-player availability state.
package availability

import "time"

// Status is the resolved availability of a player for the next match.
type Status string

const (
	StatusAvailable        Status = "AVAILABLE"
	StatusOut              Status = "OUT"
	StatusSuspended        Status = "SUSPENDED"
	StatusDoubtful         Status = "DOUBTFUL"
	StatusAbsenceExplained Status = "ABSENCE_EXPLAINED"
)

// Terminal reports whether the status forces a zero score regardless of any
// other signal.
func (s Status) Terminal() bool {
	return s == StatusOut || s == StatusSuspended
}

// Report is an injury or doubt entry carrying optional club context for
// same-surname disambiguation and an optional expected return date.
type Report struct {
	PlayerName string
	Club       string
	Reason     string
	ReturnDate *time.Time
}

// AbsenceExplainedWindow bounds how old a news-derived absence explanation
// may be before it stops counting.
const AbsenceExplainedWindow = 45 * 24 * time.Hour

// Signals bundles every upstream availability input for one championship.
// Any field may be empty; missing sources narrow the signal, they never
// block resolution.
type Signals struct {
	// Plain name lists without club context.
	OutNames      []string
	DoubtfulNames []string

	// Context-carrying reports, preferred over the plain lists when present.
	OutReports      []Report
	DoubtfulReports []Report

	// AbsenceExplained maps normalized player names to the time the
	// explaining signal was observed. A zero time means "still current".
	AbsenceExplained map[string]time.Time

	// OfficialFit lists normalized names the official provider marks as
	// fit. When TrustOfficialFit is set those names are removed from the
	// out/doubtful signals before matching.
	OfficialFit      map[string]struct{}
	TrustOfficialFit bool
}

// Resolution is the outcome for one player. AbsenceExplained may be true
// alongside StatusDoubtful: the score engine decides how to weight that
// combination.
type Resolution struct {
	Status           Status
	ExpectedReturn   *time.Time
	AbsenceExplained bool
}
