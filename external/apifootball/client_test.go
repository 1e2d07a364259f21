package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onzecoach/onze-coach/internal/platform/resilience"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		Season:  2025,
		Leagues: map[string]int{"fr-ligue-1": 61},
	})
}

func TestInjurySignals_SplitsOutFromDoubtful(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/injuries" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("league"); got != "61" {
			t.Errorf("expected league=61, got=%s", got)
		}
		_, _ = w.Write([]byte(`{"response":[
			{"player":{"name":"Kevin Danso","type":"Missing Fixture","reason":"Hamstring Injury"},"team":{"name":"RC Lens"}},
			{"player":{"name":"Adrien Thomasson","type":"Questionable","reason":"Knock"},"team":{"name":"RC Lens"}}
		]}`))
	})

	sig, err := client.InjurySignals(context.Background(), "fr-ligue-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.OutReports) != 1 || sig.OutReports[0].PlayerName != "Kevin Danso" {
		t.Fatalf("expected one out report for Danso, got=%+v", sig.OutReports)
	}
	if sig.OutReports[0].Reason != "Hamstring Injury" {
		t.Fatalf("expected reason carried over, got=%q", sig.OutReports[0].Reason)
	}
	if len(sig.DoubtfulReports) != 1 || sig.DoubtfulReports[0].PlayerName != "Adrien Thomasson" {
		t.Fatalf("expected one doubtful report for Thomasson, got=%+v", sig.DoubtfulReports)
	}
}

func TestSchedule_JoinsStandingsWithNextFixtures(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/standings":
			_, _ = w.Write([]byte(`{"response":[{"league":{"standings":[[
				{"rank":1,"team":{"name":"PSG"},"all":{"played":20,"goals":{"for":48,"against":14}}},
				{"rank":5,"team":{"name":"RC Lens"},"all":{"played":20,"goals":{"for":30,"against":22}}}
			]]}}]}`))
		case "/fixtures":
			_, _ = w.Write([]byte(`{"response":[
				{"fixture":{"date":"2026-02-14T20:00:00Z","status":{"short":"NS"}},"teams":{"home":{"name":"RC Lens"},"away":{"name":"PSG"}},"goals":{"home":null,"away":null}},
				{"fixture":{"date":"2026-02-21T20:00:00Z","status":{"short":"NS"}},"teams":{"home":{"name":"PSG"},"away":{"name":"RC Lens"}},"goals":{"home":null,"away":null}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	schedule, err := client.Schedule(context.Background(), "fr-ligue-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schedule.Table.TotalTeams != 2 {
		t.Fatalf("expected 2 teams in table, got=%d", schedule.Table.TotalTeams)
	}
	if schedule.ElapsedMatchdays != 20 {
		t.Fatalf("expected 20 elapsed matchdays, got=%d", schedule.ElapsedMatchdays)
	}
	if got := schedule.Table.RankByClub["lens"]; got != 5 {
		t.Fatalf("expected lens rank=5, got=%d", got)
	}
	// first listed fixture wins for each club
	if got := schedule.Fixtures.OpponentByClub["lens"]; got != "PSG" {
		t.Fatalf("expected lens opponent PSG, got=%q", got)
	}
	if !schedule.Fixtures.HomeByClub["lens"] {
		t.Fatal("expected lens at home in earliest fixture")
	}
	if schedule.Fixtures.HomeByClub["psg"] {
		t.Fatal("expected psg away in earliest fixture")
	}
	if schedule.NextMatchAt["lens"].IsZero() {
		t.Fatal("expected kickoff timestamp for lens")
	}
}

func TestResults_KeepsOnlyFinishedMatchesNewestFirst(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[
			{"fixture":{"date":"2026-01-10T20:00:00Z","status":{"short":"FT"}},"teams":{"home":{"name":"RC Lens"},"away":{"name":"Nice"}},"goals":{"home":2,"away":1}},
			{"fixture":{"date":"2026-01-24T20:00:00Z","status":{"short":"FT"}},"teams":{"home":{"name":"Metz"},"away":{"name":"RC Lens"}},"goals":{"home":0,"away":3}},
			{"fixture":{"date":"2026-01-31T20:00:00Z","status":{"short":"PST"}},"teams":{"home":{"name":"RC Lens"},"away":{"name":"PSG"}},"goals":{"home":null,"away":null}}
		]}`))
	})

	results, err := client.Results(context.Background(), "fr-ligue-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 finished matches, got=%d", len(results))
	}
	if results[0].HomeTeam != "Metz" || results[0].AwayGoals != 3 {
		t.Fatalf("expected newest match first, got=%+v", results[0])
	}
}

func TestTransfers_DropsEntriesOutsideRecencyWindow(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[
			{"player":{"name":"Fresh Signing"},"transfers":[{"date":"2026-02-10"}]},
			{"player":{"name":"Old Signing"},"transfers":[{"date":"2025-08-01"}]}
		]}`))
	})
	client.now = func() time.Time {
		return time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)
	}

	transfers, err := client.Transfers(context.Background(), "fr-ligue-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transfers) != 1 || transfers[0].PlayerName != "Fresh Signing" {
		t.Fatalf("expected only the recent transfer, got=%+v", transfers)
	}
}

func TestInjurySignals_UnknownChampionshipFails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the provider")
	})

	if _, err := client.InjurySignals(context.Background(), "moon-league"); err == nil {
		t.Fatal("expected error for unmapped championship")
	}
}

func TestDoJSON_OpenCircuitMapsToDependencyUnavailable(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		BaseURL: "http://unreachable.invalid",
		Leagues: map[string]int{"fr-ligue-1": 61},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
		},
	})
	client.breaker.RecordFailure()

	_, err := client.InjurySignals(context.Background(), "fr-ligue-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}
