package handlers

import (
	"errors"
	"net/http"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/store"
	"github.com/benvon/replan/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReminderSync is notified whenever a user's plan or profile changes
type ReminderSync interface {
	PlanChanged(userID, date string, blocks []models.TimeBlock)
	Forget(userID string)
}

// ProfileHandler handles the onboarding profile
type ProfileHandler struct {
	store     store.Store
	reminders ReminderSync
	logger    *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(s store.Store, reminders ReminderSync, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{store: s, reminders: reminders, logger: logger}
}

// RegisterRoutes registers profile routes on the given router
func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profile", h.GetProfile).Methods("GET")
	r.HandleFunc("/profile", h.PutProfile).Methods("PUT")
	r.HandleFunc("/profile", h.DeleteProfile).Methods("DELETE")
}

// GetProfile returns the stored profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	profile, err := h.store.LoadProfile(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, h.logger, "load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// PutProfile validates and replaces the profile
func (h *ProfileHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var profile models.UserProfile
	if !decodeJSON(w, r, &profile) {
		return
	}
	if err := validation.ValidateProfile(&profile); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.store.SaveProfile(r.Context(), user.ID, &profile); err != nil {
		respondStoreError(w, h.logger, "save profile", err)
		return
	}
	h.logger.Info("profile_saved", zap.String("lifestyle", string(profile.Lifestyle.Type)))
	respondJSON(w, http.StatusOK, profile)
}

// DeleteProfile removes the profile and cancels reminders
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteProfile(r.Context(), user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondStoreError(w, h.logger, "delete profile", err)
		return
	}
	if h.reminders != nil {
		h.reminders.Forget(user.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}
