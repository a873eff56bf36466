package seed

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	jobs := Default()
	if len(jobs) != 10 {
		t.Fatalf("got %d templates, want 10", len(jobs))
	}
	remote := 0
	for _, j := range jobs {
		if j.Location == "Remote" {
			remote++
		}
	}
	if remote != 1 {
		t.Errorf("got %d remote templates, want 1", remote)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "jobs: [title: x"},
		{"missing company", "jobs:\n  - title: Engineer\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTemplate_Job(t *testing.T) {
	j := Template{Title: "SRE", Company: "Acme", About: "Keep things up."}.Job()
	if j.ID == "" {
		t.Error("job should get an id")
	}
	if j.Location != "Remote" {
		t.Errorf("Location = %q, want Remote default", j.Location)
	}
	if !strings.Contains(j.Description, "talented SRE") || !strings.Contains(j.Description, "Keep things up.") {
		t.Errorf("unexpected description: %q", j.Description)
	}
	if j.Requirements == "" {
		t.Error("requirements should have a default")
	}
	if j.SkillsExtracted == nil || len(j.SkillsExtracted) != 0 {
		t.Errorf("SkillsExtracted = %v, want empty non-nil", j.SkillsExtracted)
	}
}
