package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/planner"
	"github.com/benvon/replan/internal/schedule"
	"github.com/benvon/replan/internal/store"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/benvon/replan/internal/validation"
	"github.com/benvon/replan/internal/wellness"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PlanHandler handles daily plans
type PlanHandler struct {
	store     store.Store
	reminders ReminderSync
	logger    *zap.Logger
}

// PlanResponse wraps a plan with whether it has been persisted
type PlanResponse struct {
	Plan  *models.DailyPlan `json:"plan"`
	Saved bool              `json:"saved"`
}

// AssignRequest is the body of POST /plans/{date}/assign
type AssignRequest struct {
	Todos     []models.InputTodo `json:"todos" validate:"required,dive"`
	Condition *models.Condition  `json:"condition,omitempty"`
}

// AssignResponse is the saved plan plus the items that did not fit
type AssignResponse struct {
	Plan           *models.DailyPlan `json:"plan"`
	RemainingTodos []models.TodoItem `json:"remainingTodos"`
	Advice         string            `json:"advice"`
}

// AlternativeRequest is the optional body of the alternative endpoint
type AlternativeRequest struct {
	Condition *models.Condition `json:"condition,omitempty"`
}

// ApplyAlternativeRequest carries the accepted replacement items
type ApplyAlternativeRequest struct {
	Todos []models.InputTodo `json:"todos" validate:"dive"`
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(s store.Store, reminders ReminderSync, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{store: s, reminders: reminders, logger: logger}
}

// RegisterRoutes registers plan routes on the given router
func (h *PlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/plans", h.ListPlans).Methods("GET")
	r.HandleFunc("/plans/{date}", h.GetPlan).Methods("GET")
	r.HandleFunc("/plans/{date}", h.PutPlan).Methods("PUT")
	r.HandleFunc("/plans/{date}/assign", h.AssignTodos).Methods("POST")
	r.HandleFunc("/plans/{date}/blocks/{blockId}/alternative", h.SuggestAlternative).Methods("POST")
	r.HandleFunc("/plans/{date}/blocks/{blockId}/alternative/apply", h.ApplyAlternative).Methods("POST")
}

// ListPlans returns saved plans in the inclusive date range
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "from and to are required")
		return
	}
	if from > to {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "from must not be after to")
		return
	}
	plans, err := h.store.ListPlans(r.Context(), user.ID, from, to)
	if err != nil {
		respondStoreError(w, h.logger, "list plans", err)
		return
	}
	if plans == nil {
		plans = []models.PlanSummary{}
	}
	respondJSON(w, http.StatusOK, plans)
}

// GetPlan returns the saved plan for a date, or generates an unsaved one from the profile
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	date, day, ok := planDate(w, r)
	if !ok {
		return
	}

	plan, err := h.store.LoadPlan(r.Context(), user.ID, date)
	switch {
	case err == nil:
		if r.URL.Query().Get("refreshTips") == "true" {
			plan.TimeBlocks = wellness.Assign(plan.TimeBlocks, day)
		}
		h.syncReminders(user.ID, plan)
		respondJSON(w, http.StatusOK, PlanResponse{Plan: plan, Saved: true})
		return
	case !errors.Is(err, store.ErrNotFound):
		respondStoreError(w, h.logger, "load plan", err)
		return
	}

	plan, err = h.freshPlan(r.Context(), user.ID, date)
	if err != nil {
		respondStoreError(w, h.logger, "load profile", err)
		return
	}
	plan.TimeBlocks = wellness.Assign(plan.TimeBlocks, day)
	h.syncReminders(user.ID, plan)
	respondJSON(w, http.StatusOK, PlanResponse{Plan: plan, Saved: false})
}

// PutPlan replaces the whole plan for a date
func (h *PlanHandler) PutPlan(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	date, _, ok := planDate(w, r)
	if !ok {
		return
	}

	var plan models.DailyPlan
	if !decodeJSON(w, r, &plan) {
		return
	}
	if plan.Date == "" {
		plan.Date = date
	}
	if plan.Date != date {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Plan date does not match path")
		return
	}
	sanitizePlan(&plan)
	if err := validation.ValidatePlan(&plan); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if !h.save(w, r, user.ID, &plan) {
		return
	}
	respondJSON(w, http.StatusOK, PlanResponse{Plan: &plan, Saved: true})
}

// AssignTodos places new to-dos into the plan's blocks and saves the result
func (h *PlanHandler) AssignTodos(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	date, day, ok := planDate(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	for i := range req.Todos {
		req.Todos[i].Text = validation.SanitizeText(req.Todos[i].Text)
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid to-do list")
		return
	}

	plan, ok := h.loadOrGenerate(r.Context(), w, user.ID, date, day)
	if !ok {
		return
	}
	if req.Condition != nil {
		if err := validation.ValidateCondition(string(*req.Condition)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		plan.Condition = *req.Condition
	}

	result := planner.AutoAssign(req.Todos, plan.TimeBlocks, plan.Condition)
	plan.TimeBlocks = result.UpdatedBlocks
	if !h.save(w, r, user.ID, plan) {
		return
	}

	h.logger.Info("todos_assigned",
		zap.Int("submitted", len(req.Todos)),
		zap.Int("remaining", len(result.RemainingTodos)),
	)
	respondJSON(w, http.StatusOK, AssignResponse{
		Plan:           plan,
		RemainingTodos: result.RemainingTodos,
		Advice:         result.Advice,
	})
}

// SuggestAlternative proposes a smaller to-do list for one block without saving
func (h *PlanHandler) SuggestAlternative(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	date, day, ok := planDate(w, r)
	if !ok {
		return
	}

	var req AlternativeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	plan, ok := h.loadOrGenerate(r.Context(), w, user.ID, date, day)
	if !ok {
		return
	}
	condition := plan.Condition
	if req.Condition != nil {
		if err := validation.ValidateCondition(string(*req.Condition)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		condition = *req.Condition
	}

	blockID := mux.Vars(r)["blockId"]
	for _, b := range plan.TimeBlocks {
		if b.ID == blockID {
			respondJSON(w, http.StatusOK, planner.SuggestAlternative(b, condition))
			return
		}
	}
	respondJSONError(w, http.StatusNotFound, "Not Found", "Block not found")
}

// ApplyAlternative replaces one block's to-dos with the accepted alternative and saves
func (h *PlanHandler) ApplyAlternative(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	date, day, ok := planDate(w, r)
	if !ok {
		return
	}

	var req ApplyAlternativeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	for i := range req.Todos {
		req.Todos[i].Text = validation.SanitizeText(req.Todos[i].Text)
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid to-do list")
		return
	}

	plan, ok := h.loadOrGenerate(r.Context(), w, user.ID, date, day)
	if !ok {
		return
	}
	blocks, err := planner.ApplyAlternative(plan.TimeBlocks, mux.Vars(r)["blockId"], req.Todos)
	if err != nil {
		if errors.Is(err, planner.ErrBlockNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Block not found")
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	plan.TimeBlocks = blocks
	if !h.save(w, r, user.ID, plan) {
		return
	}
	respondJSON(w, http.StatusOK, PlanResponse{Plan: plan, Saved: true})
}

// loadOrGenerate returns the saved plan, or a generated one with today's tips when none exists
func (h *PlanHandler) loadOrGenerate(ctx context.Context, w http.ResponseWriter, userID, date string, day time.Time) (*models.DailyPlan, bool) {
	plan, err := h.store.LoadPlan(ctx, userID, date)
	if err == nil {
		return plan, true
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(w, h.logger, "load plan", err)
		return nil, false
	}
	plan, err = h.freshPlan(ctx, userID, date)
	if err != nil {
		respondStoreError(w, h.logger, "load profile", err)
		return nil, false
	}
	plan.TimeBlocks = wellness.Assign(plan.TimeBlocks, day)
	return plan, true
}

func (h *PlanHandler) freshPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	profile, err := h.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := schedule.NewPlan(profile, date)
	if err != nil {
		return nil, store.ErrInvalidDate
	}
	return plan, nil
}

func (h *PlanHandler) save(w http.ResponseWriter, r *http.Request, userID string, plan *models.DailyPlan) bool {
	if err := h.store.SavePlan(r.Context(), userID, plan.Date, plan); err != nil {
		respondStoreError(w, h.logger, "save plan", err)
		return false
	}
	h.logger.Info("plan_saved",
		zap.String("date", plan.Date),
		zap.Int("blocks", len(plan.TimeBlocks)),
	)
	h.syncReminders(userID, plan)
	return true
}

func (h *PlanHandler) syncReminders(userID string, plan *models.DailyPlan) {
	if h.reminders != nil {
		h.reminders.PlanChanged(userID, plan.Date, plan.TimeBlocks)
	}
}

func planDate(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	date := mux.Vars(r)["date"]
	day, err := timeutil.ParseDate(date)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Date must be YYYY-MM-DD")
		return "", time.Time{}, false
	}
	return date, day, true
}

func sanitizePlan(plan *models.DailyPlan) {
	plan.Notes = validation.SanitizeText(plan.Notes)
	if plan.TimeBlocks == nil {
		plan.TimeBlocks = []models.TimeBlock{}
	}
	for i := range plan.TimeBlocks {
		b := &plan.TimeBlocks[i]
		if b.Todos == nil {
			b.Todos = []models.TodoItem{}
		}
		for j := range b.Todos {
			b.Todos[j].Text = validation.SanitizeText(b.Todos[j].Text)
		}
	}
}
