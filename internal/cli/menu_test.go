package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"rostercore/internal/core"
	"rostercore/internal/infra/persistence/memory"
)

func runMenuScript(t *testing.T, svc *core.Service, input string) string {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	session := &menuSession{
		cmd: cmd,
		in:  bufio.NewScanner(strings.NewReader(input)),
		out: &out,
		svc: svc,
	}
	if err := session.run(); err != nil {
		t.Fatalf("session: %v", err)
	}
	return out.String()
}

func newMenuService(t *testing.T) *core.Service {
	t.Helper()
	return core.NewService(memory.NewStore(core.NewDefaultRulesEngine()))
}

func TestMenuAddSearchCount(t *testing.T) {
	svc := newMenuService(t)
	script := strings.Join([]string{
		"1", "STU001", "Alice Johnson", "16", "Grade 10",
		"4", "john",
		"7",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Added Alice Johnson (STU001)") {
		t.Fatalf("add confirmation missing:\n%s", out)
	}
	if !strings.Contains(out, "Alice Johnson") || !strings.Contains(out, "Grade 10") {
		t.Fatalf("search result missing:\n%s", out)
	}
	if !strings.Contains(out, "Total students: 1") {
		t.Fatalf("count missing:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Fatalf("exit message missing:\n%s", out)
	}
}

func TestMenuUpdateKeepsUnspecifiedFields(t *testing.T) {
	svc := newMenuService(t)
	if _, _, err := svc.RegisterStudent(context.Background(), core.Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	// Blank name and age keep current values, only the grade changes.
	script := strings.Join([]string{
		"2", "A1", "", "", "G12",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Updated A1") {
		t.Fatalf("update confirmation missing:\n%s", out)
	}
	student, _ := svc.GetStudent("A1")
	if student.Name != "Alice" || student.Age != 16 || student.Grade != "G12" {
		t.Fatalf("unexpected record after update: %+v", student)
	}
}

func TestMenuUpdateInvalidAgeCancels(t *testing.T) {
	svc := newMenuService(t)
	if _, _, err := svc.RegisterStudent(context.Background(), core.Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	script := strings.Join([]string{
		"2", "A1", "", "teen",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Invalid age, update cancelled.") {
		t.Fatalf("cancellation message missing:\n%s", out)
	}
	student, _ := svc.GetStudent("A1")
	if student.Age != 16 {
		t.Fatalf("cancelled update changed the record: %+v", student)
	}
}

func TestMenuRemoveWithConfirmation(t *testing.T) {
	svc := newMenuService(t)
	if _, _, err := svc.RegisterStudent(context.Background(), core.Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	script := strings.Join([]string{
		"6", "A1", "n",
		"6", "a1", "y",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Cancelled.") {
		t.Fatalf("declined removal not cancelled:\n%s", out)
	}
	if !strings.Contains(out, "Removed A1. 0 students remain.") {
		t.Fatalf("removal confirmation missing:\n%s", out)
	}
	if svc.CountStudents() != 0 {
		t.Fatalf("student still present")
	}
}

func TestMenuViewStudent(t *testing.T) {
	svc := newMenuService(t)
	if _, _, err := svc.RegisterStudent(context.Background(), core.Student{ID: "A1", Name: "Alice Johnson", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	script := strings.Join([]string{
		"3", "a1",
		"3", "ghost",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Alice Johnson") {
		t.Fatalf("record not shown:\n%s", out)
	}
	if !strings.Contains(out, "No student with ID ghost") {
		t.Fatalf("missing-record message absent:\n%s", out)
	}
}

func TestMenuLibrarySubmenu(t *testing.T) {
	svc := newMenuService(t)
	script := strings.Join([]string{
		"8",
		"1", "Dune", "Frank Herbert", "3",
		"2", "dune", "2",
		"3", "Dune", "", "1",
		"4",
		"5",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, `Stocked "Dune", 3 copies on hand.`) {
		t.Fatalf("stock confirmation missing:\n%s", out)
	}
	if !strings.Contains(out, `Borrowed 2 of "Dune", 1 copies remain.`) {
		t.Fatalf("borrow confirmation missing:\n%s", out)
	}
	if !strings.Contains(out, `Returned 1 of "Dune", 2 copies on hand.`) {
		t.Fatalf("return confirmation missing:\n%s", out)
	}
	if !strings.Contains(out, "Frank Herbert") {
		t.Fatalf("inventory listing missing:\n%s", out)
	}
	book, ok := svc.GetBook("dune")
	if !ok || book.Quantity != 2 {
		t.Fatalf("inventory state after session: %+v ok=%v", book, ok)
	}
}

func TestMenuLibraryBorrowErrorKeepsSession(t *testing.T) {
	svc := newMenuService(t)
	script := strings.Join([]string{
		"8",
		"2", "Ghost Title", "1",
		"5",
		"7",
		"9",
	}, "\n") + "\n"

	out := runMenuScript(t, svc, script)
	if !strings.Contains(out, "Error:") {
		t.Fatalf("borrow error not reported:\n%s", out)
	}
	if !strings.Contains(out, "Total students: 0") {
		t.Fatalf("session did not continue after error:\n%s", out)
	}
}

func TestMenuInvalidOptionReprompts(t *testing.T) {
	svc := newMenuService(t)
	out := runMenuScript(t, svc, "0\n9\n")
	if !strings.Contains(out, "Invalid option, try again.") {
		t.Fatalf("invalid option not reported:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Fatalf("session did not continue after invalid option:\n%s", out)
	}
}

func TestMenuEndOfInputExits(t *testing.T) {
	svc := newMenuService(t)
	out := runMenuScript(t, svc, "")
	if !strings.Contains(out, "Choose an option:") {
		t.Fatalf("menu never printed:\n%s", out)
	}
}

func TestAnalyzeCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.txt")
	if err := os.WriteFile(path, []byte("1 2\n2 5\n"), 0o644); err != nil {
		t.Fatalf("write series: %v", err)
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze", "--file", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	for _, want := range []string{"count:   4", "average: 2.5", "max:     5"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestAnalyzeCommandRequiresInput(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error when no values are given")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze", "1", "2", "2", "5", "--count-of", "2", "--cumulative"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"count:   4",
		"average: 2.5",
		"min:     1",
		"max:     5",
		"range:   4",
		"occurrences of 2: 2",
		"cumulative: [1 3 5 10]",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}
