package core

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"rostercore/internal/infra/persistence/memory"
)

func TestServiceRecordsMetricsPerOperation(t *testing.T) {
	metrics := NewExpvarMetricsRecorder("")
	svc := NewService(memory.NewStore(NewDefaultRulesEngine()), WithMetricsRecorder(metrics))
	ctx := context.Background()

	if _, _, err := svc.RegisterStudent(ctx, Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.RegisterStudent(ctx, Student{ID: "A1", Name: "Copy", Age: 15, Grade: "G9"}); err == nil {
		t.Fatalf("duplicate register succeeded")
	}
	if _, err := svc.RemoveStudent(ctx, "A1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	snap := metrics.Snapshot()
	if got := snap.Outcomes["register_student"]["success"]; got != 1 {
		t.Fatalf("register_student success count: %d", got)
	}
	if got := snap.Outcomes["register_student"]["error"]; got != 1 {
		t.Fatalf("register_student error count: %d", got)
	}
	if got := snap.Outcomes["remove_student"]["success"]; got != 1 {
		t.Fatalf("remove_student success count: %d", got)
	}
	if _, ok := snap.DurationsMS["register_student"]; !ok {
		t.Fatalf("no duration recorded for register_student")
	}
}

func TestServiceEmitsTraceSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	svc := NewService(memory.NewStore(NewDefaultRulesEngine()), WithTracer(tracer))
	ctx := context.Background()

	if _, _, err := svc.RegisterStudent(ctx, Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.UpdateStudent(ctx, "missing", StudentPatch{Age: intPtr(12)}); err == nil {
		t.Fatalf("update of missing record succeeded")
	}

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if entries[0].Operation != "register_student" || entries[0].Status != "success" {
		t.Fatalf("unexpected first span: %+v", entries[0])
	}
	if entries[1].Operation != "update_student" || entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("unexpected second span: %+v", entries[1])
	}
	if entries[1].EndedAt.Before(entries[1].StartedAt) {
		t.Fatalf("span ended before it started: %+v", entries[1])
	}

	// Spans are also written out as JSON lines.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 encoded spans, got %d", len(lines))
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("decode span: %v", err)
	}
	if decoded.Operation != "register_student" {
		t.Fatalf("decoded span operation: %q", decoded.Operation)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	metrics := NewPrometheusMetricsRecorder("rostercore_test")
	svc := NewService(memory.NewStore(NewDefaultRulesEngine()), WithMetricsRecorder(metrics))
	ctx := context.Background()

	if _, _, err := svc.RegisterStudent(ctx, Student{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	if !names["rostercore_test_operations_total"] {
		t.Fatalf("operations counter not registered, got %v", names)
	}
	if !names["rostercore_test_operation_duration_seconds"] {
		t.Fatalf("duration histogram not registered, got %v", names)
	}
}
