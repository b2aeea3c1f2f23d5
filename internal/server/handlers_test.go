package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/progress"
	"github.com/claude/ironcycle/internal/store"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := store.NewMemory()
	return New(planner.New(mem, mem, log), nil, apiKey, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func seedProfile(t *testing.T, s *Server) {
	t.Helper()
	rec := doJSON(t, s, http.MethodPut, "/api/v1/profile", profileRequest{
		BodyWeight:   200,
		YearsLifting: 2,
		Maxes:        models.MaxLifts{Squat: 300, Bench: 200, Overhead: 120, Deadlift: 400},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("seed profile status = %d, body %s", rec.Code, rec.Body.String())
	}
}

// TestGetProfileNotFound verifies GET /profile returns 404 before any
// profile has been saved.
func TestGetProfileNotFound(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// TestSaveAndGetProfile verifies a saved profile round-trips and starts
// on cycle 1.
func TestSaveAndGetProfile(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var m models.FitnessMetric
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if m.CycleNumber != 1 {
		t.Errorf("cycle_number = %d, want 1", m.CycleNumber)
	}
	if m.Maxes.Squat != 300 {
		t.Errorf("squat = %v, want 300", m.Maxes.Squat)
	}
}

// TestSaveProfileRejectsBadInput verifies body validation on PUT /profile.
func TestSaveProfileRejectsBadInput(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodPut, "/api/v1/profile", profileRequest{BodyWeight: 0, YearsLifting: 2})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero body weight: status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, s, http.MethodPut, "/api/v1/profile", profileRequest{BodyWeight: 200, YearsLifting: -1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative years: status = %d, want 400", rec.Code)
	}
}

// TestGetCycle verifies the current plan is generated from the saved
// maxes, including the week-1 squat working sets.
func TestGetCycle(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/cycle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var plan cycle.Prescription
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	got := plan.Weeks[0].Weights[models.Squat]
	want := [3]float64{175, 205, 230}
	if got != want {
		t.Errorf("week 1 squat = %v, want %v", got, want)
	}
}

// TestToggleAndState verifies that toggling a lift records it in the
// state, returns share text, and toggling again clears it.
func TestToggleAndState(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/completions/toggle", toggleRequest{
		Week: 1, Lift: models.Squat, Status: models.StatusNailed,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		State   cycleStateResponse `json:"state"`
		Cleared bool               `json:"cleared"`
		Share   string             `json:"share"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if res.Cleared {
		t.Error("cleared = true on first toggle")
	}
	if want := "SQAT 230 lbs — NAILED IT"; res.Share != want {
		t.Errorf("share = %q, want %q", res.Share, want)
	}
	if len(res.State.Completions) != 1 {
		t.Fatalf("completions = %d, want 1", len(res.State.Completions))
	}
	if got := res.State.Completions[0].SetWeights; got != [3]float64{175, 205, 230} {
		t.Errorf("set weights = %v, want [175 205 230]", got)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/completions/toggle", toggleRequest{
		Week: 1, Lift: models.Squat, Status: models.StatusNailed,
	})
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !res.Cleared {
		t.Error("cleared = false on repeat toggle")
	}
	if len(res.State.Completions) != 0 {
		t.Errorf("completions after clear = %d, want 0", len(res.State.Completions))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/cycle/state", nil)
	var state cycleStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if state.CurrentWeek != 1 {
		t.Errorf("current week = %d, want 1", state.CurrentWeek)
	}
}

// TestToggleRejectsBadWeek verifies week validation surfaces as 400.
func TestToggleRejectsBadWeek(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/completions/toggle", toggleRequest{
		Week: 5, Lift: models.Squat, Status: models.StatusNailed,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestCommitRequiresCompleteCycle verifies POST /cycle/commit returns 409
// while sessions remain unresolved.
func TestCommitRequiresCompleteCycle(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/cycle/commit", commitRequest{
		Maxes: models.MaxLifts{Squat: 305, Bench: 202.5, Overhead: 121.5, Deadlift: 405},
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

// TestReviewAndCommit verifies the full end-of-cycle flow: resolve all
// sixteen sessions, fetch the proposal, commit it, and land on cycle 2.
func TestReviewAndCommit(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	for week := 1; week <= cycle.WeeksPerCycle; week++ {
		for _, lift := range models.Lifts() {
			rec := doJSON(t, s, http.MethodPost, "/api/v1/completions/toggle", toggleRequest{
				Week: week, Lift: lift, Status: models.StatusNailed,
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("toggle week %d %s: status = %d", week, lift, rec.Code)
			}
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/cycle/review", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("review status = %d", rec.Code)
	}
	var proposal planner.ReviewProposal
	if err := json.NewDecoder(rec.Body).Decode(&proposal); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if proposal.ProposedMaxes.Squat != 305 {
		t.Errorf("proposed squat = %v, want 305", proposal.ProposedMaxes.Squat)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/cycle/commit", commitRequest{Maxes: proposal.ProposedMaxes})
	if rec.Code != http.StatusOK {
		t.Fatalf("commit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var m models.FitnessMetric
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if m.CycleNumber != 2 {
		t.Errorf("cycle_number = %d, want 2", m.CycleNumber)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/cycle/state", nil)
	var state cycleStateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if state.CycleNumber != 2 || state.CycleComplete {
		t.Errorf("state = cycle %d complete %v, want fresh cycle 2", state.CycleNumber, state.CycleComplete)
	}
}

// TestProgress verifies the elite progress report for the seeded profile.
func TestProgress(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/progress", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report progress.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got := report.Lifts[models.Squat].Percentage; got != 75 {
		t.Errorf("squat percentage = %d, want 75", got)
	}
}

// TestTimeline verifies the projection uses the intermediate rates for
// a two-year lifter.
func TestTimeline(t *testing.T) {
	s := newTestServer(t, "")
	seedProfile(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/timeline", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var tl progress.Timeline
	if err := json.NewDecoder(rec.Body).Decode(&tl); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if tl.Level != progress.Intermediate {
		t.Errorf("level = %q, want intermediate", tl.Level)
	}
	if got := tl.Projections[models.Squat].Months; got != 10 {
		t.Errorf("squat months = %d, want 10", got)
	}
}

// TestPlates verifies the plate endpoint solves a loadable target.
func TestPlates(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/plates?target=225", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res struct {
		Target float64 `json:"target"`
		Total  float64 `json:"total"`
		Text   string  `json:"text"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if res.Total != 225 {
		t.Errorf("total = %v, want 225", res.Total)
	}
}

// TestPlatesRequiresTarget verifies the target query parameter is mandatory.
func TestPlatesRequiresTarget(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/plates", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestWriteGuard verifies the API key requirement applies to write routes
// only, and only when a key is configured.
func TestWriteGuard(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/cycle/state", nil)
	if rec.Code == http.StatusUnauthorized {
		t.Errorf("read route demanded API key: status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/profile", profileRequest{BodyWeight: 200, YearsLifting: 2})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(profileRequest{BodyWeight: 200, YearsLifting: 2}); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", &buf)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	buf.Reset()
	if err := json.NewEncoder(&buf).Encode(profileRequest{BodyWeight: 200, YearsLifting: 2}); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req = httptest.NewRequest(http.MethodPut, "/api/v1/profile", &buf)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct key: status = %d, want 200", rec.Code)
	}
}
