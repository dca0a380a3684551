// Package diag defines the diagnostic model shared by the validator, the
// merge engine and the ingestion of external compiler output.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info < Warning < Error.
//   - Code: a stable string identifier. Compiler and analyzer ids (CS0103,
//     IDE0051, ...) are carried as-is; findings produced by this tool use the
//     RBPnnn range defined in codes.go.
//   - Message: short human text.
//   - Primary: the Location (path plus 1-based line/column range) the finding
//     is anchored to. External diagnostics only ever have a Location, so
//     internal findings are resolved to one as soon as they are produced.
//   - Notes: bullet lines printed under the message (the RBP001 "Missing
//     partial plugin class definition" lines, for example).
//
// Package diag does not render anything; see internal/diagfmt.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. BagReporter appends to a Bag, DedupReporter
// filters repeated records (MSBuild prints every diagnostic once per target
// framework) and ReportBuilder chains notes before emitting.
package diag
