// Package seed holds the job templates used to populate an empty catalogue.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yoockh/jobmatch/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed jobs.yaml
var defaultJobs []byte

type Template struct {
	Title        string `yaml:"title"`
	Company      string `yaml:"company"`
	Location     string `yaml:"location"`
	About        string `yaml:"about"`
	Requirements string `yaml:"requirements"`
}

type file struct {
	Jobs []Template `yaml:"jobs"`
}

// Parse decodes a YAML document with a top-level "jobs" list.
func Parse(data []byte) ([]Template, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed jobs: %w", err)
	}
	for i, t := range f.Jobs {
		if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Company) == "" {
			return nil, fmt.Errorf("parse seed jobs: entry %d needs title and company", i)
		}
	}
	return f.Jobs, nil
}

// Default returns the embedded templates.
func Default() []Template {
	t, err := Parse(defaultJobs)
	if err != nil {
		panic(err)
	}
	return t
}

// Job expands a template into a new, unanalyzed job posting.
func (t Template) Job() *models.Job {
	location := t.Location
	if location == "" {
		location = "Remote"
	}
	desc := fmt.Sprintf(`We are looking for a talented %s to join our growing team at %s.

About the role:
%s

Key Responsibilities:
• Develop and maintain high-quality software solutions
• Collaborate with cross-functional teams
• Participate in code reviews and technical discussions
• Contribute to architectural decisions`, t.Title, t.Company, strings.TrimSpace(t.About))

	requirements := t.Requirements
	if requirements == "" {
		requirements = "Relevant experience and strong problem-solving skills required."
	}

	return &models.Job{
		ID:              uuid.NewString(),
		Title:           t.Title,
		Company:         t.Company,
		Location:        location,
		Description:     desc,
		Requirements:    requirements,
		SkillsExtracted: []string{},
	}
}
