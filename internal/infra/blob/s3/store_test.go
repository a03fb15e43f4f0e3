package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"rostercore/internal/blob/core"
)

func TestMockPutGetRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()

	info, err := store.Put(ctx, "exports/job1/roster.json", strings.NewReader(`[{"id":"A1"}]`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"report": "roster"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "exports/job1/roster.json" {
		t.Fatalf("unexpected info: %+v", info)
	}

	got, rc, err := store.Get(ctx, "exports/job1/roster.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[{"id":"A1"}]` {
		t.Fatalf("content mismatch: %q", data)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("content type lost: %+v", got)
	}
}

func TestMockPutIsCreateOnly(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatalf("overwrite accepted")
	}
}

func TestMockHeadDeleteList(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	for _, k := range []string{"exports/a.json", "exports/b.csv", "misc/c.txt"} {
		if _, err := store.Put(ctx, k, strings.NewReader("data"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	head, err := store.Head(ctx, "exports/a.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Size != int64(len("data")) {
		t.Fatalf("head size: %+v", head)
	}

	infos, err := store.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 keys under exports/, got %+v", infos)
	}

	ok, err := store.Delete(ctx, "misc/c.txt")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if _, err := store.Head(ctx, "misc/c.txt"); err == nil {
		t.Fatalf("deleted key still has metadata")
	}
}
