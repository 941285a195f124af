package userctx

import (
	"context"
	"testing"
)

func TestOwner(t *testing.T) {
	if _, ok := Owner(context.Background()); ok {
		t.Error("expected no owner on empty context")
	}

	ctx := WithOwner(context.Background(), "alice")
	if got, ok := Owner(ctx); !ok || got != "alice" {
		t.Errorf("expected alice, got %q ok=%v", got, ok)
	}

	if _, ok := Owner(WithOwner(context.Background(), "")); ok {
		t.Error("expected empty owner to count as missing")
	}
}
