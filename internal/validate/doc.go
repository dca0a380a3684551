// Package validate enforces the structural invariants that make a plugin
// mergeable:
//
//  1. every file parses;
//  2. a primary plugin class can be resolved;
//  3. every declaration of a candidate identifier is partial;
//  4. every file holds only partial parts of the primary class, in one of
//     the primary namespaces.
//
// Checks run in that order and stop at the first failing stage. Findings are
// returned as diagnostics and counted into the injected Ledger: one per
// unparsable file, one for a missing primary, one per non-partial
// declaration, one per violating file. Conflicting redeclarations of the base
// list or generics across parts are reported as RBP101 warnings and never
// counted.
package validate
