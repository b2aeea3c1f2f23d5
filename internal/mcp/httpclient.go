package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/progress"
	"github.com/claude/ironcycle/internal/store"
)

// HTTPClient implements DataSource by calling the IronCycle REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// apiKey is sent on write requests; leave it empty when the server runs
// without a write guard.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, data)
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		return planner.ErrCycleIncomplete
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("httpclient: decode %s: %w", path, err)
		}
	}
	return nil
}

// wireSession is one resolved session as the REST API serializes it.
type wireSession struct {
	Week       int               `json:"week"`
	Lift       models.LiftType   `json:"lift"`
	Status     models.LiftStatus `json:"status"`
	SetWeights [3]float64        `json:"set_weights"`
	AmrapReps  *int              `json:"amrap_reps"`
}

// wireState is the flattened cycle state on the wire.
type wireState struct {
	CycleNumber    int           `json:"cycle_number"`
	CurrentWeek    int           `json:"current_week"`
	CompletedWeeks []int         `json:"completed_weeks"`
	CycleComplete  bool          `json:"cycle_complete"`
	Completions    []wireSession `json:"completions"`
}

func (ws wireState) state() cycle.State {
	st := cycle.State{
		CycleNumber:    ws.CycleNumber,
		CurrentWeek:    ws.CurrentWeek,
		CompletedWeeks: ws.CompletedWeeks,
		CycleComplete:  ws.CycleComplete,
		Completions:    make(map[cycle.CompletionKey]models.LiftCompletion, len(ws.Completions)),
	}
	for _, s := range ws.Completions {
		st.Completions[cycle.CompletionKey{Week: s.Week, Lift: s.Lift}] = models.LiftCompletion{
			CycleNumber: ws.CycleNumber,
			CycleWeek:   s.Week,
			Lift:        s.Lift,
			Status:      s.Status,
			Set1Weight:  s.SetWeights[0],
			Set2Weight:  s.SetWeights[1],
			Set3Weight:  s.SetWeights[2],
			AmrapReps:   s.AmrapReps,
		}
	}
	return st
}

func (c *HTTPClient) Profile(ctx context.Context, _ int) (models.FitnessMetric, error) {
	var m models.FitnessMetric
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &m)
	return m, err
}

func (c *HTTPClient) SaveProfile(ctx context.Context, _ int, m models.FitnessMetric) (models.FitnessMetric, error) {
	body := map[string]any{
		"body_weight":      m.BodyWeight,
		"years_lifting":    m.YearsLifting,
		"maxes":            m.Maxes,
		"is_elite_fitness": m.IsElite,
	}
	var saved models.FitnessMetric
	err := c.do(ctx, http.MethodPut, "/api/v1/profile", body, &saved)
	return saved, err
}

func (c *HTTPClient) CurrentPlan(ctx context.Context, _ int) (cycle.Prescription, error) {
	var plan cycle.Prescription
	err := c.do(ctx, http.MethodGet, "/api/v1/cycle", nil, &plan)
	return plan, err
}

func (c *HTTPClient) State(ctx context.Context, _ int) (cycle.State, error) {
	var ws wireState
	if err := c.do(ctx, http.MethodGet, "/api/v1/cycle/state", nil, &ws); err != nil {
		return cycle.State{}, err
	}
	return ws.state(), nil
}

func (c *HTTPClient) ToggleLift(ctx context.Context, _ int, week int, lift models.LiftType, status models.LiftStatus, amrapReps *int) (planner.ToggleResult, error) {
	body := map[string]any{
		"week":   week,
		"lift":   lift,
		"status": status,
	}
	if amrapReps != nil {
		body["amrap_reps"] = *amrapReps
	}

	var resp struct {
		State   wireState `json:"state"`
		Cleared bool      `json:"cleared"`
		Share   string    `json:"share"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/completions/toggle", body, &resp); err != nil {
		return planner.ToggleResult{}, err
	}
	return planner.ToggleResult{
		State:   resp.State.state(),
		Cleared: resp.Cleared,
		Share:   resp.Share,
	}, nil
}

func (c *HTTPClient) ProposeReview(ctx context.Context, _ int) (planner.ReviewProposal, error) {
	var proposal planner.ReviewProposal
	err := c.do(ctx, http.MethodGet, "/api/v1/cycle/review", nil, &proposal)
	return proposal, err
}

func (c *HTTPClient) CommitCycle(ctx context.Context, _ int, newMaxes models.MaxLifts) (models.FitnessMetric, error) {
	var m models.FitnessMetric
	err := c.do(ctx, http.MethodPost, "/api/v1/cycle/commit", map[string]any{"maxes": newMaxes}, &m)
	return m, err
}

func (c *HTTPClient) Progress(ctx context.Context, _ int) (progress.Report, error) {
	var report progress.Report
	err := c.do(ctx, http.MethodGet, "/api/v1/progress", nil, &report)
	return report, err
}

func (c *HTTPClient) Timeline(ctx context.Context, _ int) (progress.Timeline, error) {
	var tl progress.Timeline
	err := c.do(ctx, http.MethodGet, "/api/v1/timeline", nil, &tl)
	return tl, err
}
