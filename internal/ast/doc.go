// Package ast holds the structural tree the parser produces for one C# file.
//
// The tree is intentionally shallow: a SourceUnit lists its using directives
// and its top-level type declarations. Each TypeDecl keeps the facts needed
// to validate and merge partial plugin classes (modifiers, attribute lists,
// base list, type parameters, constraints) and an ordered list of opaque
// member fragments. Member bodies are never parsed; a Member is the exact
// source text of one member declaration together with its leading comments.
//
// All positions are source.Span values over the owning source.File.
package ast
