// Package userctx carries the id of the owner whose planner state a request acts on.
package userctx

import "context"

type ownerKey struct{}

// WithOwner returns ctx carrying ownerID.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// Owner returns the owner id set by the auth middleware. An empty id counts as missing.
func Owner(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(string)
	return ownerID, ok && ownerID != ""
}
