package storage_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/memory"
)

func TestLoadJSONCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStateMemoryStorage()
	st.PutState(ctx, "u1", storage.KeyCheckedItems, []byte(`{not json`))

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	dst := map[string]bool{"keep": true}
	found, err := storage.LoadJSON(ctx, st, "u1", storage.KeyCheckedItems, &dst, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("corrupt document must load as not found")
	}
	if !dst["keep"] {
		t.Error("destination must be left untouched")
	}
	if !strings.Contains(buf.String(), "WARN state: owner=u1 key=checkedItems") {
		t.Errorf("expected warning log, got %q", buf.String())
	}
}

func TestSaveThenLoadJSON(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStateMemoryStorage()

	in := map[string]bool{"eggs": true}
	if err := storage.SaveJSON(ctx, st, "u1", storage.KeyCheckedItems, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var out map[string]bool
	found, err := storage.LoadJSON(ctx, st, "u1", storage.KeyCheckedItems, &out, nil)
	if err != nil || !found || !out["eggs"] {
		t.Fatalf("unexpected load: %v found=%v err=%v", out, found, err)
	}
}
