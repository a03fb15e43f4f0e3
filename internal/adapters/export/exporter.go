// Package export renders roster and inventory reports and stores the
// resulting artifacts in a blob store. Jobs run asynchronously on a single
// worker goroutine.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"rostercore/internal/blob"
	"rostercore/pkg/domain"
)

// Report identifies the data set a job renders.
type Report string

const (
	// ReportRoster exports the student roster.
	ReportRoster Report = "roster"
	// ReportInventory exports the book inventory.
	ReportInventory Report = "inventory"
)

// Format identifies an artifact encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Status describes the lifecycle stage of an export job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Artifact captures a stored report artifact.
type Artifact struct {
	Key         string    `json:"key"`
	Format      Format    `json:"format"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Rows        int       `json:"rows"`
	CreatedAt   time.Time `json:"created_at"`
}

// Job tracks an export request and resulting artifacts.
type Job struct {
	ID          string     `json:"id"`
	Report      Report     `json:"report"`
	Formats     []Format   `json:"formats"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Artifacts   []Artifact `json:"artifacts,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (j Job) copy() Job {
	dup := j
	dup.Formats = append([]Format(nil), j.Formats...)
	if len(j.Artifacts) > 0 {
		dup.Artifacts = append([]Artifact(nil), j.Artifacts...)
	}
	return dup
}

// Request enqueues a report render.
type Request struct {
	Report  Report
	Formats []Format
}

type task struct {
	id      string
	request Request
}

// Exporter renders reports from store snapshots and persists them as blobs.
type Exporter struct {
	store domain.PersistentStore
	blobs blob.Store

	queue chan task
	mu    sync.RWMutex
	jobs  map[string]*Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExporter constructs an exporter reading from store and writing to blobs.
func NewExporter(store domain.PersistentStore, blobs blob.Store) *Exporter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		store:  store,
		blobs:  blobs,
		queue:  make(chan task, 32),
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (e *Exporter) Start() {
	e.wg.Add(1)
	go e.loop()
}

// Stop signals the worker to halt and waits for completion.
func (e *Exporter) Stop(ctx context.Context) error {
	e.cancel()
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exporter) loop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case t := <-e.queue:
			e.process(t)
		}
	}
}

// Enqueue schedules an export job and returns the queued record.
func (e *Exporter) Enqueue(_ context.Context, req Request) (Job, error) {
	switch req.Report {
	case ReportRoster, ReportInventory:
	default:
		return Job{}, fmt.Errorf("unknown report %q", req.Report)
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatCSV}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, f := range formats {
		if f != FormatJSON && f != FormatCSV {
			return Job{}, fmt.Errorf("unsupported format %q", f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		uniq = append(uniq, f)
		seen[f] = struct{}{}
	}

	now := time.Now().UTC()
	job := Job{
		ID:        uuid.NewString(),
		Report:    req.Report,
		Formats:   uniq,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.mu.Lock()
	e.jobs[job.ID] = &job
	queued := job.copy()
	e.mu.Unlock()

	select {
	case e.queue <- task{id: job.ID, request: req}:
	default:
		return Job{}, fmt.Errorf("export queue full")
	}
	return queued, nil
}

// GetJob returns a snapshot of the job record.
func (e *Exporter) GetJob(id string) (Job, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	job, ok := e.jobs[id]
	if !ok {
		return Job{}, false
	}
	return job.copy(), true
}

func (e *Exporter) process(t task) {
	e.mu.RLock()
	job, ok := e.jobs[t.id]
	e.mu.RUnlock()
	if !ok {
		return
	}
	e.setStatus(t.id, StatusRunning, "")

	table, err := e.render(job.Report)
	if err != nil {
		e.fail(t.id, err.Error())
		return
	}

	artifacts := make([]Artifact, 0, len(job.Formats))
	for _, format := range job.Formats {
		payload, contentType, err := materialize(format, table)
		if err != nil {
			e.fail(t.id, err.Error())
			return
		}
		key := fmt.Sprintf("exports/%s/%s.%s", t.id, job.Report, format)
		info, err := e.blobs.Put(e.ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"report": string(job.Report), "rows": strconv.Itoa(len(table.rows))},
		})
		if err != nil {
			e.fail(t.id, fmt.Sprintf("store artifact: %v", err))
			return
		}
		artifacts = append(artifacts, Artifact{
			Key:         info.Key,
			Format:      format,
			ContentType: contentType,
			SizeBytes:   info.Size,
			Rows:        len(table.rows),
			CreatedAt:   info.LastModified,
		})
	}
	e.complete(t.id, artifacts)
}

type reportTable struct {
	columns []string
	rows    [][]string
	records any
}

func (e *Exporter) render(report Report) (reportTable, error) {
	var table reportTable
	err := e.store.View(e.ctx, func(view domain.TransactionView) error {
		switch report {
		case ReportRoster:
			students := view.ListStudents()
			table.columns = []string{"id", "name", "age", "grade"}
			table.rows = make([][]string, 0, len(students))
			for _, st := range students {
				table.rows = append(table.rows, []string{st.ID, st.Name, strconv.Itoa(st.Age), st.Grade})
			}
			table.records = students
		case ReportInventory:
			books := view.ListBooks()
			table.columns = []string{"title", "author", "quantity"}
			table.rows = make([][]string, 0, len(books))
			for _, b := range books {
				table.rows = append(table.rows, []string{b.Title, b.Author, strconv.Itoa(b.Quantity)})
			}
			table.records = books
		default:
			return fmt.Errorf("unknown report %q", report)
		}
		return nil
	})
	if err != nil {
		return reportTable{}, err
	}
	return table, nil
}

func materialize(format Format, table reportTable) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		payload, err := json.Marshal(table.records)
		if err != nil {
			return nil, "", fmt.Errorf("marshal json: %w", err)
		}
		return payload, "application/json", nil
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write(table.columns); err != nil {
			return nil, "", err
		}
		for _, row := range table.rows {
			if err := writer.Write(row); err != nil {
				return nil, "", err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %s", format)
	}
}

func (e *Exporter) setStatus(id string, status Status, message string) {
	now := time.Now().UTC()
	e.mu.Lock()
	if job, ok := e.jobs[id]; ok {
		job.Status = status
		job.Error = message
		job.UpdatedAt = now
	}
	e.mu.Unlock()
}

func (e *Exporter) complete(id string, artifacts []Artifact) {
	now := time.Now().UTC()
	e.mu.Lock()
	if job, ok := e.jobs[id]; ok {
		job.Status = StatusSucceeded
		job.Error = ""
		job.Artifacts = artifacts
		job.UpdatedAt = now
		job.CompletedAt = &now
	}
	e.mu.Unlock()
}

func (e *Exporter) fail(id, reason string) {
	now := time.Now().UTC()
	e.mu.Lock()
	if job, ok := e.jobs[id]; ok {
		job.Status = StatusFailed
		job.Error = reason
		job.UpdatedAt = now
		job.CompletedAt = &now
	}
	e.mu.Unlock()
}
