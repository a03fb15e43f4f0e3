package cli

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rostercore/internal/core"
	"rostercore/pkg/domain"
)

// Seed describes initial records loaded before a command runs.
type Seed struct {
	Students []SeedStudent `yaml:"students"`
	Books    []SeedBook    `yaml:"books"`
}

// SeedStudent is a roster record in a seed file.
type SeedStudent struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Age   int    `yaml:"age"`
	Grade string `yaml:"grade"`
}

// SeedBook is an inventory record in a seed file.
type SeedBook struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Quantity int    `yaml:"quantity"`
}

// DefaultSeed returns the sample roster used when no seed file is given.
func DefaultSeed() Seed {
	return Seed{
		Students: []SeedStudent{
			{ID: "STU001", Name: "Alice Johnson", Age: 16, Grade: "Grade 10"},
			{ID: "STU002", Name: "Bob Smith", Age: 15, Grade: "Grade 9"},
			{ID: "STU003", Name: "Carol Williams", Age: 17, Grade: "Grade 11"},
		},
	}
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(b, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

// Apply registers the seed records through the service, skipping records
// already present so reruns against a persistent store stay idempotent.
func (s Seed) Apply(ctx context.Context, svc *core.Service) error {
	for _, st := range s.Students {
		if _, exists := svc.GetStudent(st.ID); exists {
			continue
		}
		if _, _, err := svc.RegisterStudent(ctx, domain.Student{ID: st.ID, Name: st.Name, Age: st.Age, Grade: st.Grade}); err != nil {
			return fmt.Errorf("seed student %s: %w", st.ID, err)
		}
	}
	for _, b := range s.Books {
		if _, exists := svc.GetBook(b.Title); exists {
			continue
		}
		if _, _, err := svc.StockBooks(ctx, b.Title, b.Author, b.Quantity); err != nil {
			return fmt.Errorf("seed book %q: %w", b.Title, err)
		}
	}
	return nil
}
