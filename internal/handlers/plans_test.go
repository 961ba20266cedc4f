package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/planner"
)

func seedProfile(t *testing.T, env *testEnv) {
	t.Helper()
	if err := env.store.SaveProfile(context.Background(), "user-1", testProfile()); err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}
}

func TestGetPlan_Generated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	seedProfile(t, env)

	w := env.do(t, http.MethodGet, "/api/v1/plans/"+testDate, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp PlanResponse
	decodeData(t, w, &resp)
	if resp.Saved {
		t.Error("Expected generated plan to be unsaved")
	}
	if resp.Plan.Condition != models.ConditionNormal || resp.Plan.Date != testDate {
		t.Errorf("Unexpected plan header: %+v", resp.Plan)
	}
	if findTestBlock(t, resp.Plan, "evening_free").WellnessTip == "" {
		t.Error("Expected tips on a generated plan")
	}
	if env.reminders.changeCount() != 1 {
		t.Errorf("Expected reminders to be synced once, got %d", env.reminders.changeCount())
	}
	if _, err := env.store.LoadPlan(context.Background(), "user-1", testDate); err == nil {
		t.Error("Generated plan must not be persisted")
	}
}

func TestGetPlan_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "no profile", path: "/api/v1/plans/" + testDate, wantStatus: http.StatusNotFound},
		{name: "bad date", path: "/api/v1/plans/19-10-2026", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if w := env.do(t, http.MethodGet, tt.path, nil); w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestPutPlan(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	plan := &models.DailyPlan{
		Date:      testDate,
		Condition: models.ConditionGood,
		Notes:     "  slept well\x07 ",
		TimeBlocks: []models.TimeBlock{{
			ID: "focus", Label: "Focus", StartTime: "09:00", EndTime: "10:00",
			BlockType: models.BlockWork, WellnessTip: "frozen tip",
			Todos: []models.TodoItem{{ID: "t1", Text: " write report "}},
		}},
	}

	w := env.do(t, http.MethodPut, "/api/v1/plans/"+testDate, plan)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	saved, err := env.store.LoadPlan(context.Background(), "user-1", testDate)
	if err != nil {
		t.Fatalf("Expected saved plan: %v", err)
	}
	if saved.Notes != "slept well" || saved.TimeBlocks[0].Todos[0].Text != "write report" {
		t.Errorf("Expected sanitized text, got notes %q todo %q", saved.Notes, saved.TimeBlocks[0].Todos[0].Text)
	}

	w = env.do(t, http.MethodGet, "/api/v1/plans/"+testDate, nil)
	var resp PlanResponse
	decodeData(t, w, &resp)
	if !resp.Saved || resp.Plan.TimeBlocks[0].WellnessTip != "frozen tip" {
		t.Errorf("Expected saved plan with frozen tip, got %+v", resp)
	}

	w = env.do(t, http.MethodGet, "/api/v1/plans/"+testDate+"?refreshTips=true", nil)
	decodeData(t, w, &resp)
	if resp.Plan.TimeBlocks[0].WellnessTip == "frozen tip" {
		t.Error("Expected refreshTips to replace the tip")
	}
}

func TestPutPlan_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		plan *models.DailyPlan
	}{
		{name: "date mismatch", plan: &models.DailyPlan{Date: "2026-10-20", Condition: models.ConditionNormal}},
		{name: "unknown condition", plan: &models.DailyPlan{Date: testDate, Condition: "great"}},
		{name: "duplicate block ids", plan: &models.DailyPlan{
			Date:      testDate,
			Condition: models.ConditionNormal,
			TimeBlocks: []models.TimeBlock{
				{ID: "a", StartTime: "09:00", EndTime: "10:00", BlockType: models.BlockWork},
				{ID: "a", StartTime: "10:00", EndTime: "11:00", BlockType: models.BlockWork},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if w := env.do(t, http.MethodPut, "/api/v1/plans/"+testDate, tt.plan); w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestAssignTodos(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	seedProfile(t, env)

	body := AssignRequest{Todos: []models.InputTodo{
		{Text: "Read book", Duration: intPtr(60), Priority: models.PriorityHigh},
		{Text: "Marathon", Duration: intPtr(600)},
	}}
	w := env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/assign", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AssignResponse
	decodeData(t, w, &resp)
	if len(resp.RemainingTodos) != 1 || resp.RemainingTodos[0].Text != "Marathon" {
		t.Errorf("Expected the oversized item to remain, got %+v", resp.RemainingTodos)
	}
	if resp.Advice == "" {
		t.Error("Expected advice when items remain")
	}

	saved, err := env.store.LoadPlan(context.Background(), "user-1", testDate)
	if err != nil {
		t.Fatalf("Expected assigned plan to be saved: %v", err)
	}
	placed := 0
	for _, b := range saved.TimeBlocks {
		for _, todo := range b.Todos {
			if todo.Text == "Read book" {
				placed++
			}
		}
	}
	if placed != 1 {
		t.Errorf("Expected the item to be placed once, got %d", placed)
	}
}

func TestAssignTodos_InvalidCondition(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	seedProfile(t, env)

	bad := models.Condition("awful")
	body := AssignRequest{Todos: []models.InputTodo{{Text: "x"}}, Condition: &bad}
	if w := env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/assign", body); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestAlternative(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	plan := &models.DailyPlan{
		Date:      testDate,
		Condition: models.ConditionBad,
		TimeBlocks: []models.TimeBlock{{
			ID: "focus", Label: "Focus", StartTime: "09:00", EndTime: "10:00", BlockType: models.BlockWork,
			Todos: []models.TodoItem{
				{ID: "a", Text: "Slides", Duration: intPtr(45), Priority: models.PriorityHigh},
				{ID: "b", Text: "Email", Duration: intPtr(30), Priority: models.PriorityLow},
			},
		}},
	}
	if err := env.store.SavePlan(context.Background(), "user-1", testDate, plan); err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}

	w := env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/blocks/focus/alternative", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var alt planner.Alternative
	decodeData(t, w, &alt)
	if len(alt.ModifiedTodos) != 1 || alt.ModifiedTodos[0].Text != "Slides" {
		t.Errorf("Expected only the high priority item, got %+v", alt.ModifiedTodos)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/blocks/missing/alternative", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown block, got %d", w.Code)
	}

	apply := ApplyAlternativeRequest{Todos: alt.ModifiedTodos}
	w = env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/blocks/focus/alternative/apply", apply)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	saved, err := env.store.LoadPlan(context.Background(), "user-1", testDate)
	if err != nil {
		t.Fatalf("Expected saved plan: %v", err)
	}
	if todos := saved.TimeBlocks[0].Todos; len(todos) != 1 || todos[0].Text != "Slides" || todos[0].ID == "" {
		t.Errorf("Unexpected applied to-dos: %+v", todos)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/plans/"+testDate+"/blocks/missing/alternative/apply", apply); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown block, got %d", w.Code)
	}
}

func TestListPlans(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, date := range []string{"2026-10-18", "2026-10-19", "2026-10-21"} {
		p := &models.DailyPlan{Date: date, Condition: models.ConditionNormal, TimeBlocks: []models.TimeBlock{}}
		if err := env.store.SavePlan(context.Background(), "user-1", date, p); err != nil {
			t.Fatalf("Failed to seed plan: %v", err)
		}
	}

	w := env.do(t, http.MethodGet, "/api/v1/plans?from=2026-10-19&to=2026-10-21", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var plans []models.PlanSummary
	decodeData(t, w, &plans)
	if len(plans) != 2 || plans[0].Date != "2026-10-19" || plans[1].Date != "2026-10-21" {
		t.Errorf("Unexpected range result: %+v", plans)
	}

	if w := env.do(t, http.MethodGet, "/api/v1/plans?from=2026-10-21&to=2026-10-19", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for inverted range, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/plans", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without range, got %d", w.Code)
	}
}
