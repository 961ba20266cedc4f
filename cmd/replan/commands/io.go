package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/benvon/replan/internal/validation"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// now is replaced in tests
var now = time.Now

func loadProfile(path string) (*models.UserProfile, error) {
	if path == "" {
		return nil, fmt.Errorf("--profile is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile models.UserProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := validation.ValidateProfile(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// loadTodos reads either a bare list or a document with a todos key
func loadTodos(path string) ([]models.InputTodo, error) {
	if path == "" {
		return nil, fmt.Errorf("--todos is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}

	var todos []models.InputTodo
	if err := yaml.Unmarshal(data, &todos); err != nil {
		var doc struct {
			Todos []models.InputTodo `yaml:"todos"`
		}
		if derr := yaml.Unmarshal(data, &doc); derr != nil {
			return nil, fmt.Errorf("failed to parse todos: %w", err)
		}
		todos = doc.Todos
	}

	for i := range todos {
		todos[i].Text = validation.SanitizeText(todos[i].Text)
		if err := validation.Validate.Struct(&todos[i]); err != nil {
			return nil, fmt.Errorf("invalid todo %d: %w", i+1, err)
		}
	}
	return todos, nil
}

func resolveDate(date string) (string, time.Time, error) {
	if date == "" {
		t := now()
		return timeutil.FormatDate(t), t, nil
	}
	t, err := timeutil.ParseDate(date)
	if err != nil {
		return "", time.Time{}, err
	}
	return date, t, nil
}

func parseCondition(value string) (models.Condition, error) {
	if value == "" {
		return models.ConditionNormal, nil
	}
	if err := validation.ValidateCondition(value); err != nil {
		return "", err
	}
	return models.Condition(value), nil
}

// writeOutput renders v as YAML or JSON, or calls text for the default format
func writeOutput(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "", formatText:
		text(w)
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (use text, yaml or json)", format)
	}
}

func printBlocks(w io.Writer, blocks []models.TimeBlock) {
	for _, b := range blocks {
		marker := " "
		if b.IsFixed {
			marker = "*"
		}
		fmt.Fprintf(w, "%s-%s %s %s %s [%s]\n", b.StartTime, b.EndTime, marker, b.Icon, b.Label, b.ID)
		for _, t := range b.Todos {
			if strings.TrimSpace(t.Text) == "" {
				continue
			}
			fmt.Fprintf(w, "            - %s (%dm, %s)\n", t.Text, t.DurationOr(0), t.Priority.OrDefault())
		}
		if b.WellnessTip != "" {
			fmt.Fprintf(w, "            💡 %s\n", b.WellnessTip)
		}
	}
}
