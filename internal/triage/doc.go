// Package triage classifies diagnostics produced by an external compiler run.
//
// Records are filtered to the plugin tree, errors are tallied per plugin into
// the shared ledger, and one priority bucket is chosen for display: the first
// configured level that matches anything, or the synthetic fallback bucket
// holding every record no level claims.
package triage
