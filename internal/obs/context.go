package obs

import "context"

type routePatternKey struct{}

// WithRoutePattern tags the context with the matched router pattern so metric
// and trace labels use the template ("/api/v1/sales/invoices/{id}") instead of
// the raw, unbounded path.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext returns the tagged pattern, or "" when the router
// has not matched yet.
func RoutePatternFromContext(ctx context.Context) string {
	pattern, _ := ctx.Value(routePatternKey{}).(string)
	return pattern
}
