package export

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"rostercore/internal/blob"
	"rostercore/internal/core"
	"rostercore/internal/infra/persistence/memory"
	"rostercore/pkg/domain"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(core.NewDefaultRulesEngine())
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		students := []domain.Student{
			{ID: "STU001", Name: "Alice Johnson", Age: 16, Grade: "Grade 10"},
			{ID: "STU002", Name: "Bob Smith", Age: 15, Grade: "Grade 9"},
		}
		for _, s := range students {
			if _, err := tx.CreateStudent(s); err != nil {
				return err
			}
		}
		_, err := tx.CreateBook(domain.Book{Title: "Dune", Author: "Frank Herbert", Quantity: 3})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func runExporter(t *testing.T, store domain.PersistentStore, blobs blob.Store) *Exporter {
	t.Helper()
	exp := NewExporter(store, blobs)
	exp.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = exp.Stop(ctx)
	})
	return exp
}

func waitForJob(t *testing.T, exp *Exporter, id string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := exp.GetJob(id)
		if !ok {
			t.Fatalf("job %s disappeared", id)
		}
		if job.Status == StatusSucceeded || job.Status == StatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not complete", id)
	return Job{}
}

func readBlob(t *testing.T, blobs blob.Store, key string) string {
	t.Helper()
	_, rc, err := blobs.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}

func TestRosterExportProducesArtifacts(t *testing.T) {
	store := seededStore(t)
	blobs := blob.NewMemory()
	exp := runExporter(t, store, blobs)

	queued, err := exp.Enqueue(context.Background(), Request{Report: ReportRoster})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if queued.Status != StatusQueued || len(queued.Formats) != 2 {
		t.Fatalf("unexpected queued record: %+v", queued)
	}

	job := waitForJob(t, exp, queued.ID)
	if job.Status != StatusSucceeded {
		t.Fatalf("job failed: %+v", job)
	}
	if len(job.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %+v", job.Artifacts)
	}

	var students []domain.Student
	jsonPayload := readBlob(t, blobs, "exports/"+job.ID+"/roster.json")
	if err := json.Unmarshal([]byte(jsonPayload), &students); err != nil {
		t.Fatalf("decode json artifact: %v", err)
	}
	if len(students) != 2 || students[0].ID != "STU001" {
		t.Fatalf("json artifact content: %+v", students)
	}

	csvPayload := readBlob(t, blobs, "exports/"+job.ID+"/roster.csv")
	lines := strings.Split(strings.TrimSpace(csvPayload), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", csvPayload)
	}
	if lines[0] != "id,name,age,grade" {
		t.Fatalf("csv header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "STU001,Alice Johnson,16,") {
		t.Fatalf("csv first row: %q", lines[1])
	}

	for _, artifact := range job.Artifacts {
		if artifact.Rows != 2 {
			t.Fatalf("artifact row count: %+v", artifact)
		}
		head, err := blobs.Head(context.Background(), artifact.Key)
		if err != nil {
			t.Fatalf("head %s: %v", artifact.Key, err)
		}
		if head.Metadata["report"] != "roster" || head.Metadata["rows"] != "2" {
			t.Fatalf("artifact metadata: %+v", head.Metadata)
		}
	}
}

func TestInventoryExportCSV(t *testing.T) {
	store := seededStore(t)
	blobs := blob.NewMemory()
	exp := runExporter(t, store, blobs)

	queued, err := exp.Enqueue(context.Background(), Request{Report: ReportInventory, Formats: []Format{FormatCSV, FormatCSV}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(queued.Formats) != 1 {
		t.Fatalf("duplicate format not collapsed: %+v", queued.Formats)
	}

	job := waitForJob(t, exp, queued.ID)
	if job.Status != StatusSucceeded || len(job.Artifacts) != 1 {
		t.Fatalf("unexpected job: %+v", job)
	}

	payload := readBlob(t, blobs, job.Artifacts[0].Key)
	lines := strings.Split(strings.TrimSpace(payload), "\n")
	if lines[0] != "title,author,quantity" || lines[1] != "Dune,Frank Herbert,3" {
		t.Fatalf("inventory csv: %q", payload)
	}
}

func TestEnqueueRejectsUnknownReportAndFormat(t *testing.T) {
	store := seededStore(t)
	exp := runExporter(t, store, blob.NewMemory())
	ctx := context.Background()

	if _, err := exp.Enqueue(ctx, Request{Report: "grades"}); err == nil {
		t.Fatalf("unknown report accepted")
	}
	if _, err := exp.Enqueue(ctx, Request{Report: ReportRoster, Formats: []Format{"xml"}}); err == nil {
		t.Fatalf("unsupported format accepted")
	}
}

func TestGetJobUnknownID(t *testing.T) {
	exp := NewExporter(seededStore(t), blob.NewMemory())
	if _, ok := exp.GetJob("nope"); ok {
		t.Fatalf("unknown job id resolved")
	}
}
