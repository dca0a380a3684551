// Package trace records where an oxmerge run spends its time.
//
// Events are spans (begin/end pairs) and points, tagged with a scope:
//
//   - ScopeDriver: the whole invocation
//   - ScopePass: pipeline stages (discover, triage, parse, merge)
//   - ScopePlugin: one plugin going through parse and validation
//   - ScopeFile: single source files
//
// The level decides which scopes are recorded: phase keeps driver and pass
// events, detail adds plugins, debug records everything.
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
//
// A stream tracer writes every event as it happens (text or NDJSON); a ring
// tracer keeps the last N events in memory for a dump after a failure.
package trace
