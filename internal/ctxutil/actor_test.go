package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActorID(context.Background(), "gudang-01")
	if got := ActorFromContext(ctx); got != "gudang-01" {
		t.Errorf("ActorFromContext = %q, want %q", got, "gudang-01")
	}
	if got := ActorFromContext(context.Background()); got != "" {
		t.Errorf("expected empty actor on bare context, got %q", got)
	}
}
