package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const profileYAML = `gender: other
lifestyle:
  type: office
  officeHours:
    start: "09:00"
    end: "18:00"
    lunchTime: "12:00"
sleep:
  wakeTime: "07:00"
  bedTime: "23:00"
meals:
  breakfast: {enabled: true, time: "07:30"}
  dinner: {enabled: true, time: "19:00"}
`

const todosYAML = `- text: Write report
  duration: 60
  priority: high
- text: Call bank
  duration: 15
  priority: low
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", profileYAML)

	out, err := execute(t, NewGenerateCmd(), "--profile", profile, "--date", "2026-10-19", "--tips")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Plan for 2026-10-19", "[wake]", "[evening_free]", "💡"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestGenerateCmd_Errors(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", profileYAML)
	invalid := writeFile(t, "invalid.yaml", "gender: robot\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing profile flag", args: nil},
		{name: "missing file", args: []string{"--profile", filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "invalid profile", args: []string{"--profile", invalid}},
		{name: "bad date", args: []string{"--profile", profile, "--date", "tomorrow"}},
		{name: "bad output", args: []string{"--profile", profile, "--date", "2026-10-19", "-o", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := execute(t, NewGenerateCmd(), tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestAssignCmd_YAMLOutput(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", profileYAML)
	todos := writeFile(t, "todos.yaml", todosYAML)

	out, err := execute(t, NewAssignCmd(), "--profile", profile, "--todos", todos, "--date", "2026-10-19", "-o", "yaml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var result struct {
		RemainingTodos []any  `yaml:"remainingTodos"`
		Advice         string `yaml:"advice"`
	}
	if err := yaml.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output is not YAML: %v\n%s", err, out)
	}
	if len(result.RemainingTodos) != 0 {
		t.Errorf("Expected everything to fit, got %v", result.RemainingTodos)
	}
	if result.Advice == "" {
		t.Error("Expected advice")
	}
}

func TestAssignCmd_BadCondition(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", profileYAML)
	todos := writeFile(t, "todos.yaml", todosYAML)

	if _, err := execute(t, NewAssignCmd(), "--profile", profile, "--todos", todos, "--condition", "awful"); err == nil {
		t.Error("Expected error for unknown condition")
	}
}

func TestAlternativeCmd(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", profileYAML)
	todos := writeFile(t, "todos.yaml", "todos:\n"+indent(todosYAML))

	out, err := execute(t, NewAlternativeCmd(), "--profile", profile, "--todos", todos,
		"--block", "evening_free", "--condition", "bad", "--date", "2026-10-19", "-o", "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, `"Write report"`) || strings.Contains(out, `"Call bank"`) {
		t.Errorf("Expected only the high priority item:\n%s", out)
	}

	if _, err := execute(t, NewAlternativeCmd(), "--profile", profile, "--todos", todos, "--block", "nope"); err == nil {
		t.Error("Expected error for unknown block")
	}
}

func TestTipsCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, NewTipsCmd(), "--condition", "bad", "--menstrual", "pms", "--date", "2026-10-19")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 {
		t.Errorf("Expected condition and menstrual tips, got %q", out)
	}

	if _, err := execute(t, NewTipsCmd(), "--menstrual", "late"); err == nil {
		t.Error("Expected error for unknown phase")
	}
}

func TestLoadTodos_Invalid(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "todos.yaml", "- text: \"\"\n")
	if _, err := loadTodos(path); err == nil {
		t.Error("Expected error for empty to-do text")
	}
}

func TestPlanListCmd_RequiresRange(t *testing.T) {
	t.Parallel()

	if _, err := execute(t, NewPlanCmd(), "list"); err == nil {
		t.Error("Expected error without --from and --to")
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
