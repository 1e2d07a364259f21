package availability

import (
	"time"

	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// Resolve combines every availability signal for one player. suspended is
// the suspension flag carried by pool-sourced stats; now anchors the
// absence-explained window.
func Resolve(name, club string, suspended bool, sig Signals, now time.Time) Resolution {
	if suspended {
		return Resolution{Status: StatusSuspended}
	}

	var fit map[string]struct{}
	if sig.TrustOfficialFit {
		fit = sig.OfficialFit
	}
	explained := absenceExplained(name, sig, now)

	if report, ok := matchReports(name, club, sig.OutReports, fit); ok {
		return Resolution{
			Status:           StatusOut,
			ExpectedReturn:   report.ReturnDate,
			AbsenceExplained: explained,
		}
	}
	if matchNames(name, sig.OutNames, fit) {
		return Resolution{Status: StatusOut, AbsenceExplained: explained}
	}

	if report, ok := matchReports(name, club, sig.DoubtfulReports, fit); ok {
		return Resolution{
			Status:           StatusDoubtful,
			ExpectedReturn:   report.ReturnDate,
			AbsenceExplained: explained,
		}
	}
	if matchNames(name, sig.DoubtfulNames, fit) {
		return Resolution{Status: StatusDoubtful, AbsenceExplained: explained}
	}

	if explained {
		return Resolution{Status: StatusAbsenceExplained, AbsenceExplained: true}
	}

	return Resolution{Status: StatusAvailable}
}

func matchNames(name string, candidates []string, fit map[string]struct{}) bool {
	if name == "" || len(candidates) == 0 {
		return false
	}
	if len(fit) > 0 {
		kept := make([]string, 0, len(candidates))
		for _, c := range candidates {
			if _, ok := fit[namematch.NormalizeName(c)]; ok {
				continue
			}
			kept = append(kept, c)
		}
		candidates = kept
	}
	return namematch.NameInList(name, candidates)
}

// matchReports accepts a name match only when club context, if present on
// both sides, also matches. This keeps a same-surname player at another
// club from inheriting the injury.
func matchReports(name, club string, reports []Report, fit map[string]struct{}) (Report, bool) {
	if name == "" {
		return Report{}, false
	}
	for _, r := range reports {
		if len(fit) > 0 {
			if _, ok := fit[namematch.NormalizeName(r.PlayerName)]; ok {
				continue
			}
		}
		if !namematch.SameName(name, r.PlayerName) {
			continue
		}
		if r.Club != "" && club != "" && !namematch.SameClub(club, r.Club) {
			continue
		}
		return r, true
	}
	return Report{}, false
}

func absenceExplained(name string, sig Signals, now time.Time) bool {
	if len(sig.AbsenceExplained) == 0 {
		return false
	}
	norm := namematch.NormalizeName(name)
	observedAt, ok := sig.AbsenceExplained[norm]
	if !ok {
		// The set is keyed by normalized full names; an abbreviated feed
		// entry still has to match the pool spelling.
		for key, t := range sig.AbsenceExplained {
			if namematch.SameName(norm, key) {
				observedAt, ok = t, true
				break
			}
		}
	}
	if !ok {
		return false
	}
	if observedAt.IsZero() {
		return true
	}
	return now.Sub(observedAt) <= AbsenceExplainedWindow
}
