// Package statsfeed talks to the fantasy stats provider: the championship
// player pool with per-match history, raw squad documents, press-derived
// absence notes and historical starting elevens.
package statsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/roster"
	"github.com/onzecoach/onze-coach/internal/platform/cache"
	"github.com/onzecoach/onze-coach/internal/platform/logging"
	"github.com/onzecoach/onze-coach/internal/platform/resilience"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

const defaultBaseURL = "https://api.statsfeed.example.com/v1"

var bearerRegex = regexp.MustCompile(`Bearer\s+\S+`)
var errTransient = crerr.New("statsfeed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          *cache.Store
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	store          *cache.Store
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
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger.Named("statsfeed"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		store:          cfg.Cache,
	}
}

type poolItem struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Club          string  `json:"club"`
	Position      string  `json:"position"`
	Quotation     float64 `json:"quotation"`
	SeasonAverage float64 `json:"averageRating"`
	Matches       int     `json:"totalMatches"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	YellowCards   int     `json:"yellowCards"`
	RedCards      int     `json:"redCards"`
	Suspended     bool    `json:"suspended"`

	StartedPct *float64 `json:"startedPercentage"`

	History []struct {
		Rating   float64 `json:"rating"`
		Minutes  int     `json:"minutes"`
		Matchday int     `json:"matchday"`
	} `json:"history"`

	Advanced struct {
		ExpectedGoals float64  `json:"xg"`
		Tackles       *int     `json:"tackles"`
		Interceptions *int     `json:"interceptions"`
		CleanSheets   int      `json:"cleanSheets"`
		PassAccuracy  *float64 `json:"passAccuracy"`
	} `json:"advanced"`
}

// Pool fetches the championship player pool with recent-match history.
func (c *Client) Pool(ctx context.Context, championship string) ([]roster.PoolEntry, error) {
	var envelope struct {
		Players []poolItem `json:"players"`
	}
	path := "/championships/" + url.PathEscape(championship) + "/players"
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player pool: %w", err)
	}

	entries := make([]roster.PoolEntry, 0, len(envelope.Players))
	for _, item := range envelope.Players {
		entry := roster.PoolEntry{
			ID:            item.ID,
			FirstName:     item.FirstName,
			LastName:      item.LastName,
			Club:          item.Club,
			PositionCode:  item.Position,
			Quotation:     item.Quotation,
			SeasonAverage: item.SeasonAverage,
			Matches:       item.Matches,
			Goals:         item.Goals,
			Assists:       item.Assists,
			YellowCards:   item.YellowCards,
			RedCards:      item.RedCards,
			Suspended:     item.Suspended,
			StartedPct:    -1,
		}
		if item.StartedPct != nil {
			entry.StartedPct = *item.StartedPct
		}
		for _, h := range item.History {
			entry.RecentMatches = append(entry.RecentMatches, player.RecentMatch{
				Rating:   h.Rating,
				Minutes:  h.Minutes,
				Matchday: h.Matchday,
			})
		}
		entry.Advanced = player.AdvancedStats{
			ExpectedGoals: item.Advanced.ExpectedGoals,
			CleanSheets:   item.Advanced.CleanSheets,
		}
		if item.Advanced.Tackles != nil && item.Advanced.Interceptions != nil {
			entry.Advanced.Tackles = *item.Advanced.Tackles
			entry.Advanced.Interceptions = *item.Advanced.Interceptions
			entry.Advanced.HasDefensive = true
		}
		if item.Advanced.PassAccuracy != nil {
			entry.Advanced.PassAccuracy = *item.Advanced.PassAccuracy
			entry.Advanced.HasPassing = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Squad returns the raw squad document untyped. Providers disagree on the
// document layout, so shape detection happens downstream in the
// normalizer.
func (c *Client) Squad(ctx context.Context, squadID string) (map[string]any, error) {
	var doc map[string]any
	path := "/squads/" + url.PathEscape(squadID)
	if err := c.doJSON(ctx, path, &doc); err != nil {
		return nil, fmt.Errorf("fetch squad document: %w", err)
	}
	return doc, nil
}

// AbsenceExplained returns press-sourced absence notes keyed by player
// name, each with the date the note was published.
func (c *Client) AbsenceExplained(ctx context.Context, championship string) (map[string]time.Time, error) {
	var envelope struct {
		Notes []struct {
			PlayerName  string `json:"playerName"`
			PublishedAt string `json:"publishedAt"`
		} `json:"notes"`
	}
	path := "/championships/" + url.PathEscape(championship) + "/absence-notes"
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch absence notes: %w", err)
	}

	explained := make(map[string]time.Time, len(envelope.Notes))
	for _, note := range envelope.Notes {
		publishedAt, err := time.Parse(time.RFC3339, note.PublishedAt)
		if err != nil {
			continue
		}
		// keep the freshest note per player
		if prev, ok := explained[note.PlayerName]; !ok || publishedAt.After(prev) {
			explained[note.PlayerName] = publishedAt
		}
	}
	return explained, nil
}

// Lineups returns the season's starting elevens for rotation detection.
func (c *Client) Lineups(ctx context.Context, championship string) ([]matchcontext.LineupRecord, error) {
	var envelope struct {
		Matches []struct {
			HomeTeam     string   `json:"homeTeam"`
			AwayTeam     string   `json:"awayTeam"`
			HomeStarters []string `json:"homeStarters"`
			AwayStarters []string `json:"awayStarters"`
		} `json:"matches"`
	}
	path := "/championships/" + url.PathEscape(championship) + "/lineups"
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch lineups: %w", err)
	}

	records := make([]matchcontext.LineupRecord, 0, len(envelope.Matches))
	for _, m := range envelope.Matches {
		records = append(records, matchcontext.LineupRecord{
			HomeTeam:     m.HomeTeam,
			AwayTeam:     m.AwayTeam,
			HomeStarters: m.HomeStarters,
			AwayStarters: m.AwayStarters,
		})
	}
	return records, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err := c.fetchRaw(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

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
		out, err = c.store.GetOrLoad(ctx, "statsfeed:"+fullURL, func(context.Context) (any, error) {
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
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

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
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: squad or championship not found", usecase.ErrNotFound)
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
	return bearerRegex.ReplaceAllString(text, "Bearer [redacted]")
}
