package handlers

import (
	"net/http"
	"testing"

	"github.com/benvon/replan/internal/wellness"
)

func TestWellnessSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantMenstrual bool
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK},
		{name: "bad condition with period", query: "?condition=bad&menstrual=period&date=2026-10-20", wantStatus: http.StatusOK, wantMenstrual: true},
		{name: "normal phase has no menstrual tip", query: "?menstrual=normal", wantStatus: http.StatusOK},
		{name: "unknown condition", query: "?condition=great", wantStatus: http.StatusBadRequest},
		{name: "unknown phase", query: "?menstrual=late", wantStatus: http.StatusBadRequest},
		{name: "bad date", query: "?date=tomorrow", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			w := env.do(t, http.MethodGet, "/api/v1/wellness/summary"+tt.query, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got wellness.DailySummary
			decodeData(t, w, &got)
			if got.ConditionTip == "" {
				t.Error("Expected a condition tip")
			}
			if (got.MenstrualTip != "") != tt.wantMenstrual {
				t.Errorf("MenstrualTip = %q, wantMenstrual %v", got.MenstrualTip, tt.wantMenstrual)
			}
		})
	}
}

func TestWellnessSummary_Deterministic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	var first, second wellness.DailySummary
	decodeData(t, env.do(t, http.MethodGet, "/api/v1/wellness/summary?condition=good", nil), &first)
	decodeData(t, env.do(t, http.MethodGet, "/api/v1/wellness/summary?condition=good&date="+testDate, nil), &second)
	if first != second {
		t.Errorf("Expected the clock date and explicit date to agree: %+v vs %+v", first, second)
	}
}
