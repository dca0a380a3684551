// Package merge combines the partial parts of a plugin class spread over
// several files into one compilation unit.
//
// Build collects and orders; Emit renders. Both are deterministic: the
// same files with the same content give byte-identical output.
//
// Ordering rules:
//   - usings: file order then source order, first occurrence of a directive
//     wins; global usings are emitted before the others because C# requires it;
//   - declarations: grouped by (name, namespace) in first-appearance order;
//   - attributes: (file order, offset), de-duplicated by whitespace-normalised text;
//   - members: absolute offset in their file, ties broken by file order and
//     then parse sequence.
package merge
