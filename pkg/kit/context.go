package kit

import "context"

// Transport names the surface a call arrived on.
type Transport string

const (
	TransportHTTP Transport = "http"
	TransportMCP  Transport = "mcp_stdio"
)

// Call identifies one endpoint invocation.
type Call struct {
	Transport Transport
	RequestID string
}

type callKey struct{}

// WithCall attaches c to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the call carried by ctx. Transport defaults to http.
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Transport == "" {
		c.Transport = TransportHTTP
	}
	return c
}
