package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/benvon/replan/internal/models"
)

func TestProfileHandler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/v1/profile", nil); w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 before onboarding, got %d", w.Code)
	}

	w := env.do(t, http.MethodPut, "/api/v1/profile", testProfile())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var got models.UserProfile
	decodeData(t, w, &got)
	if got.Lifestyle.Type != models.LifestyleOffice || got.Sleep.BedTime != "23:00" {
		t.Errorf("Unexpected profile: %+v", got)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/profile", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	if len(env.reminders.forgot) != 1 || env.reminders.forgot[0] != "user-1" {
		t.Errorf("Expected reminders to be forgotten, got %v", env.reminders.forgot)
	}
	if _, err := env.store.LoadProfile(context.Background(), "user-1"); err == nil {
		t.Error("Expected profile to be deleted")
	}
}

func TestPutProfile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: "not an object"},
		{name: "missing lifestyle fields", body: &models.UserProfile{
			Gender:    models.GenderMale,
			Lifestyle: models.Lifestyle{Type: models.LifestyleOffice},
			Sleep:     models.Sleep{WakeTime: "07:00", BedTime: "23:00"},
		}},
		{name: "bad wake time", body: func() *models.UserProfile {
			p := testProfile()
			p.Sleep.WakeTime = "7am"
			return p
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if w := env.do(t, http.MethodPut, "/api/v1/profile", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}
