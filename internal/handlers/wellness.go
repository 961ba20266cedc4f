package handlers

import (
	"net/http"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/benvon/replan/internal/validation"
	"github.com/benvon/replan/internal/wellness"
	"github.com/gorilla/mux"
)

// WellnessHandler serves the day-level wellness tips
type WellnessHandler struct {
	now func() time.Time
}

// NewWellnessHandler creates a wellness handler; a nil clock uses time.Now
func NewWellnessHandler(now func() time.Time) *WellnessHandler {
	if now == nil {
		now = time.Now
	}
	return &WellnessHandler{now: now}
}

// RegisterRoutes registers wellness routes on the given router
func (h *WellnessHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/wellness/summary", h.GetSummary).Methods("GET")
}

// GetSummary returns the condition tip and the optional menstrual tip for a date
func (h *WellnessHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	condition := models.ConditionNormal
	if v := q.Get("condition"); v != "" {
		if err := validation.ValidateCondition(v); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		condition = models.Condition(v)
	}

	var menstrual *models.MenstrualCondition
	if v := q.Get("menstrual"); v != "" {
		if err := validation.ValidateMenstrualCondition(v); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		m := models.MenstrualCondition(v)
		menstrual = &m
	}

	day := h.now()
	if v := q.Get("date"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	respondJSON(w, http.StatusOK, wellness.Summary(condition, menstrual, day))
}
