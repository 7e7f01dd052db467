package domain

import "context"

type activityKey struct{}

// WithActivityID attaches a correlation id for the remote calls made on
// behalf of one operation.
func WithActivityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, activityKey{}, id)
}

// ActivityID returns the correlation id stored in ctx, if any.
func ActivityID(ctx context.Context) string {
	id, _ := ctx.Value(activityKey{}).(string)
	return id
}
