package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"rostercore/internal/blob/core"
)

func TestPutGetHeadRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	info, err := store.Put(ctx, "exports/a/roster.json", strings.NewReader(`[{"id":"A1"}]`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"report": "roster"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(`[{"id":"A1"}]`)) || info.ContentType != "application/json" {
		t.Fatalf("unexpected info: %+v", info)
	}

	got, rc, err := store.Get(ctx, "exports/a/roster.json")
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
	if got.Metadata["report"] != "roster" {
		t.Fatalf("metadata not stored: %+v", got.Metadata)
	}

	head, err := store.Head(ctx, "exports/a/roster.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Size != info.Size {
		t.Fatalf("head size mismatch: %+v", head)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatalf("overwrite accepted")
	}
}

func TestMetadataIsolation(t *testing.T) {
	store := New()
	ctx := context.Background()
	meta := map[string]string{"report": "roster"}
	if _, err := store.Put(ctx, "k", strings.NewReader("x"), core.PutOptions{Metadata: meta}); err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["report"] = "mutated"
	head, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Metadata["report"] != "roster" {
		t.Fatalf("stored metadata aliased caller map: %+v", head.Metadata)
	}
	head.Metadata["report"] = "mutated again"
	again, _ := store.Head(ctx, "k")
	if again.Metadata["report"] != "roster" {
		t.Fatalf("returned metadata aliased stored map")
	}
}

func TestDeleteAndList(t *testing.T) {
	store := New()
	ctx := context.Background()
	keys := []string{"exports/b/x.csv", "exports/a/y.json", "other/z.txt"}
	for _, k := range keys {
		if _, err := store.Put(ctx, k, strings.NewReader("data"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	infos, err := store.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "exports/a/y.json" || infos[1].Key != "exports/b/x.csv" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	ok, err := store.Delete(ctx, "other/z.txt")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = store.Delete(ctx, "other/z.txt")
	if err != nil || ok {
		t.Fatalf("repeat delete: ok=%v err=%v", ok, err)
	}
	if _, _, err := store.Get(ctx, "other/z.txt"); err == nil {
		t.Fatalf("deleted blob still readable")
	}
}
