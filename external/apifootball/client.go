// Package apifootball fetches injuries, standings, fixtures, results and
// transfers from the API-Football feed and maps them onto the domain
// payloads the recommendation pipeline consumes.
package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/platform/cache"
	"github.com/onzecoach/onze-coach/internal/platform/logging"
	"github.com/onzecoach/onze-coach/internal/platform/namematch"
	"github.com/onzecoach/onze-coach/internal/platform/resilience"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

const defaultBaseURL = "https://v3.football.api-sports.io"

var apiKeyHeaderRegex = regexp.MustCompile(`x-apisports-key:\s*\S+`)
var errTransient = crerr.New("apifootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Season         int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          *cache.Store

	// Leagues maps championship codes to API-Football league ids.
	Leagues map[string]int
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	season         int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	store          *cache.Store
	leagues        map[string]int
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		season:         cfg.Season,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger.Named("apifootball"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		store:          cfg.Cache,
		leagues:        cfg.Leagues,
		now:            time.Now,
	}
}

func (c *Client) leagueID(championship string) (int, error) {
	if id, ok := c.leagues[championship]; ok {
		return id, nil
	}
	if id, err := strconv.Atoi(strings.TrimSpace(championship)); err == nil && id > 0 {
		return id, nil
	}
	return 0, fmt.Errorf("championship %q has no league mapping", championship)
}

// InjurySignals maps the injuries feed onto out/doubtful reports with club
// context. API-Football marks hard absences "Missing Fixture"; anything
// else reads as doubt.
func (c *Client) InjurySignals(ctx context.Context, championship string) (availability.Signals, error) {
	league, err := c.leagueID(championship)
	if err != nil {
		return availability.Signals{}, err
	}

	var envelope struct {
		Response []struct {
			Player struct {
				Name   string `json:"name"`
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"player"`
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
		} `json:"response"`
	}
	if err := c.doJSON(ctx, "/injuries", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(c.season),
	}, &envelope); err != nil {
		return availability.Signals{}, fmt.Errorf("fetch injuries: %w", err)
	}

	var sig availability.Signals
	for _, item := range envelope.Response {
		report := availability.Report{
			PlayerName: item.Player.Name,
			Club:       item.Team.Name,
			Reason:     item.Player.Reason,
		}
		if strings.EqualFold(item.Player.Type, "Missing Fixture") {
			sig.OutReports = append(sig.OutReports, report)
		} else {
			sig.DoubtfulReports = append(sig.DoubtfulReports, report)
		}
	}
	return sig, nil
}

// Schedule joins the standings table with each club's next fixture.
func (c *Client) Schedule(ctx context.Context, championship string) (usecase.Schedule, error) {
	league, err := c.leagueID(championship)
	if err != nil {
		return usecase.Schedule{}, err
	}

	table, elapsed, err := c.fetchStandings(ctx, league)
	if err != nil {
		return usecase.Schedule{}, err
	}
	fixtures, nextAt, err := c.fetchNextFixtures(ctx, league)
	if err != nil {
		return usecase.Schedule{}, err
	}

	return usecase.Schedule{
		Table:            table,
		Fixtures:         fixtures,
		NextMatchAt:      nextAt,
		ElapsedMatchdays: elapsed,
	}, nil
}

func (c *Client) fetchStandings(ctx context.Context, league int) (matchcontext.Table, int, error) {
	var envelope struct {
		Response []struct {
			League struct {
				Standings [][]struct {
					Rank int `json:"rank"`
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
					All struct {
						Played int `json:"played"`
						Goals  struct {
							For     int `json:"for"`
							Against int `json:"against"`
						} `json:"goals"`
					} `json:"all"`
				} `json:"standings"`
			} `json:"league"`
		} `json:"response"`
	}
	if err := c.doJSON(ctx, "/standings", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(c.season),
	}, &envelope); err != nil {
		return matchcontext.Table{}, 0, fmt.Errorf("fetch standings: %w", err)
	}

	table := matchcontext.Table{
		RankByClub:         map[string]int{},
		GoalsForByClub:     map[string]int{},
		GoalsAgainstByClub: map[string]int{},
	}
	elapsed := 0
	for _, item := range envelope.Response {
		for _, group := range item.League.Standings {
			for _, row := range group {
				key := namematch.NormalizeClub(row.Team.Name)
				table.RankByClub[key] = row.Rank
				table.GoalsForByClub[key] = row.All.Goals.For
				table.GoalsAgainstByClub[key] = row.All.Goals.Against
				table.TotalTeams++
				elapsed = max(elapsed, row.All.Played)
			}
		}
	}
	return table, elapsed, nil
}

type fixtureItem struct {
	Fixture struct {
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

func (c *Client) fetchNextFixtures(ctx context.Context, league int) (matchcontext.NextFixtures, map[string]time.Time, error) {
	var envelope struct {
		Response []fixtureItem `json:"response"`
	}
	if err := c.doJSON(ctx, "/fixtures", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(c.season),
		"next":   "20",
	}, &envelope); err != nil {
		return matchcontext.NextFixtures{}, nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	fixtures := matchcontext.NextFixtures{
		OpponentByClub: map[string]string{},
		HomeByClub:     map[string]bool{},
	}
	nextAt := map[string]time.Time{}
	for _, item := range envelope.Response {
		kickoff, _ := time.Parse(time.RFC3339, item.Fixture.Date)
		home := namematch.NormalizeClub(item.Teams.Home.Name)
		away := namematch.NormalizeClub(item.Teams.Away.Name)
		// keep only each club's earliest upcoming fixture
		if _, seen := fixtures.OpponentByClub[home]; !seen {
			fixtures.OpponentByClub[home] = item.Teams.Away.Name
			fixtures.HomeByClub[home] = true
			nextAt[home] = kickoff
		}
		if _, seen := fixtures.OpponentByClub[away]; !seen {
			fixtures.OpponentByClub[away] = item.Teams.Home.Name
			fixtures.HomeByClub[away] = false
			nextAt[away] = kickoff
		}
	}
	return fixtures, nextAt, nil
}

// Results returns the league's recently completed matches, newest first.
func (c *Client) Results(ctx context.Context, championship string) ([]matchcontext.MatchResult, error) {
	league, err := c.leagueID(championship)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Response []fixtureItem `json:"response"`
	}
	if err := c.doJSON(ctx, "/fixtures", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(c.season),
		"last":   "50",
	}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}

	results := make([]matchcontext.MatchResult, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.Status.Short != "FT" || item.Goals.Home == nil || item.Goals.Away == nil {
			continue
		}
		playedAt, _ := time.Parse(time.RFC3339, item.Fixture.Date)
		results = append(results, matchcontext.MatchResult{
			HomeTeam:  item.Teams.Home.Name,
			AwayTeam:  item.Teams.Away.Name,
			HomeGoals: *item.Goals.Home,
			AwayGoals: *item.Goals.Away,
			PlayedAt:  playedAt,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PlayedAt.After(results[j].PlayedAt)
	})
	return results, nil
}

// Transfers returns club changes inside the recency window.
func (c *Client) Transfers(ctx context.Context, championship string) ([]matchcontext.Transfer, error) {
	league, err := c.leagueID(championship)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Response []struct {
			Player struct {
				Name string `json:"name"`
			} `json:"player"`
			Transfers []struct {
				Date string `json:"date"`
			} `json:"transfers"`
		} `json:"response"`
	}
	if err := c.doJSON(ctx, "/transfers", map[string]string{
		"league": strconv.Itoa(league),
	}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch transfers: %w", err)
	}

	now := c.now()
	var transfers []matchcontext.Transfer
	for _, item := range envelope.Response {
		for _, t := range item.Transfers {
			date, err := time.Parse("2006-01-02", t.Date)
			if err != nil || date.After(now) {
				continue
			}
			if now.Sub(date) > matchcontext.TransferRecencyWindow {
				continue
			}
			transfers = append(transfers, matchcontext.Transfer{
				PlayerName: item.Player.Name,
				Date:       date,
			})
		}
	}
	return transfers, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.fetchRaw(ctx, fullURL)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

// fetchRaw serves the payload from cache when possible; a miss collapses
// concurrent loads into one request and records the breaker outcome.
func (c *Client) fetchRaw(ctx context.Context, fullURL string) ([]byte, error) {
	load := func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	}

	var out any
	var err error
	if c.store != nil {
		out, err = c.store.GetOrLoad(ctx, "apifootball:"+fullURL, func(context.Context) (any, error) {
			return load()
		})
	} else {
		out, err, _ = c.flight.Do(fullURL, load)
	}
	if err != nil {
		return nil, err
	}
	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitize(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case retryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitize(text, token string) string {
	if token != "" {
		text = strings.ReplaceAll(text, token, "[redacted]")
	}
	return apiKeyHeaderRegex.ReplaceAllString(text, "x-apisports-key: [redacted]")
}
