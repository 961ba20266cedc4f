package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/reminder"
	"github.com/benvon/replan/internal/store"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReminderControl exposes reminder settings and state to the API
type ReminderControl interface {
	ReminderSync
	Settings(userID string) reminder.Settings
	UpdateSettings(userID string, settings reminder.Settings)
	Next(userID string) (reminder.Pending, bool)
}

// NotificationHandler handles notification permission and reminder settings
type NotificationHandler struct {
	perms     notify.PermissionRegistry
	reminders ReminderControl
	store     store.Store
	now       func() time.Time
	logger    *zap.Logger
}

type permissionBody struct {
	Permission string `json:"permission"`
}

type settingsBody struct {
	Enabled bool   `json:"enabled"`
	Timing  string `json:"timing"`
}

// NextReminderResponse reports the earliest pending reminder, if any
type NextReminderResponse struct {
	Scheduled bool              `json:"scheduled"`
	Reminder  *reminder.Pending `json:"reminder,omitempty"`
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(perms notify.PermissionRegistry, reminders ReminderControl, s store.Store, now func() time.Time, logger *zap.Logger) *NotificationHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{perms: perms, reminders: reminders, store: s, now: now, logger: logger}
}

// RegisterRoutes registers notification routes on the given router
func (h *NotificationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/notifications/permission", h.GetPermission).Methods("GET")
	r.HandleFunc("/notifications/permission", h.PutPermission).Methods("PUT")
	r.HandleFunc("/notifications/settings", h.GetSettings).Methods("GET")
	r.HandleFunc("/notifications/settings", h.PutSettings).Methods("PUT")
	r.HandleFunc("/notifications/next", h.GetNext).Methods("GET")
}

// GetPermission returns the recorded permission
func (h *NotificationHandler) GetPermission(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := h.perms.Get(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("permission_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load permission")
		return
	}
	respondJSON(w, http.StatusOK, permissionBody{Permission: string(p)})
}

// PutPermission records the decision the client obtained from the user
func (h *NotificationHandler) PutPermission(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body permissionBody
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := notify.ParsePermission(body.Permission)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Permission must be 'granted', 'denied', or 'default'")
		return
	}
	if err := h.perms.Set(r.Context(), user.ID, p); err != nil {
		h.logger.Error("permission_save_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save permission")
		return
	}
	respondJSON(w, http.StatusOK, permissionBody{Permission: string(p)})
}

// GetSettings returns the reminder settings
func (h *NotificationHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.reminders.Settings(user.ID))
}

// PutSettings stores reminder settings and reschedules today's plan
func (h *NotificationHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body settingsBody
	if !decodeJSON(w, r, &body) {
		return
	}
	timing, err := reminder.ParseTiming(body.Timing)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	settings := reminder.Settings{Enabled: body.Enabled, Timing: timing}
	h.reminders.UpdateSettings(user.ID, settings)

	// a restarted server has no blocks cached for the user yet
	today := timeutil.FormatDate(h.now())
	plan, err := h.store.LoadPlan(r.Context(), user.ID, today)
	switch {
	case err == nil:
		h.reminders.PlanChanged(user.ID, today, plan.TimeBlocks)
	case !errors.Is(err, store.ErrNotFound):
		h.logger.Warn("reminder_plan_reload_failed", zap.Error(err))
	}

	respondJSON(w, http.StatusOK, settings)
}

// GetNext returns the earliest pending reminder
func (h *NotificationHandler) GetNext(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	next, found := h.reminders.Next(user.ID)
	if !found {
		respondJSON(w, http.StatusOK, NextReminderResponse{})
		return
	}
	respondJSON(w, http.StatusOK, NextReminderResponse{Scheduled: true, Reminder: &next})
}
