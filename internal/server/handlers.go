package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/plates"
	"github.com/claude/ironcycle/internal/store"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFrom(r))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	m, err := s.planner.Profile(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// profileRequest is the PUT /profile body. Omitted maxes default to zero;
// the client is expected to require them before enabling goal views.
type profileRequest struct {
	BodyWeight   float64         `json:"body_weight"`
	YearsLifting float64         `json:"years_lifting"`
	Maxes        models.MaxLifts `json:"maxes"`
	IsElite      bool            `json:"is_elite_fitness"`
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.BodyWeight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_weight must be positive"})
		return
	}
	if req.YearsLifting < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "years_lifting must not be negative"})
		return
	}

	m, err := s.planner.SaveProfile(r.Context(), userIDFrom(r), models.FitnessMetric{
		BodyWeight:   req.BodyWeight,
		YearsLifting: req.YearsLifting,
		Maxes:        req.Maxes,
		IsElite:      req.IsElite,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.CurrentPlan(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCycleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.planner.State(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(state))
}

// toggleRequest is the POST /completions/toggle body.
type toggleRequest struct {
	Week      int               `json:"week"`
	Lift      models.LiftType   `json:"lift"`
	Status    models.LiftStatus `json:"status"`
	AmrapReps *int              `json:"amrap_reps,omitempty"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.planner.ToggleLift(r.Context(), userIDFrom(r), req.Week, req.Lift, req.Status, req.AmrapReps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   stateResponse(res.State),
		"cleared": res.Cleared,
		"share":   res.Share,
	})
}

func (s *Server) handleReviewProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.planner.ProposeReview(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

// commitRequest is the POST /cycle/commit body: the (possibly edited)
// maxes for the next cycle.
type commitRequest struct {
	Maxes models.MaxLifts `json:"maxes"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	m, err := s.planner.CommitCycle(r.Context(), userIDFrom(r), req.Maxes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.Progress(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.planner.Timeline(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	targetStr := r.URL.Query().Get("target")
	if targetStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target parameter required"})
		return
	}
	target, err := strconv.ParseFloat(targetStr, 64)
	if err != nil || target < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must be a non-negative number"})
		return
	}

	minSlots := 0
	if m := r.URL.Query().Get("min"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed > 0 {
			minSlots = parsed
		}
	}

	b := plates.Solve(target)
	writeJSON(w, http.StatusOK, map[string]any{
		"target":    target,
		"total":     b.Total(),
		"breakdown": b,
		"text":      plates.Text(b),
		"sections":  plates.Sections(b),
		"glyphs":    plates.Glyphs(b, minSlots),
	})
}

// sessionResponse is one resolved session in the state payload.
type sessionResponse struct {
	Week       int               `json:"week"`
	Lift       models.LiftType   `json:"lift"`
	Status     models.LiftStatus `json:"status"`
	SetWeights [3]float64        `json:"set_weights"`
	AmrapReps  *int              `json:"amrap_reps,omitempty"`
}

type cycleStateResponse struct {
	CycleNumber    int               `json:"cycle_number"`
	CurrentWeek    int               `json:"current_week"`
	CompletedWeeks []int             `json:"completed_weeks"`
	CycleComplete  bool              `json:"cycle_complete"`
	Completions    []sessionResponse `json:"completions"`
}

// stateResponse flattens the derived state into a JSON-friendly shape,
// sessions ordered by week then lift.
func stateResponse(state cycle.State) cycleStateResponse {
	resp := cycleStateResponse{
		CycleNumber:    state.CycleNumber,
		CurrentWeek:    state.CurrentWeek,
		CompletedWeeks: state.CompletedWeeks,
		CycleComplete:  state.CycleComplete,
	}
	for week := 1; week <= cycle.WeeksPerCycle; week++ {
		for _, lift := range models.Lifts() {
			c, ok := state.Completions[cycle.CompletionKey{Week: week, Lift: lift}]
			if !ok {
				continue
			}
			resp.Completions = append(resp.Completions, sessionResponse{
				Week:       week,
				Lift:       lift,
				Status:     c.Status,
				SetWeights: c.SetWeights(),
				AmrapReps:  c.AmrapReps,
			})
		}
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no profile yet"})
	case errors.Is(err, planner.ErrCycleIncomplete):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
