package triage

import (
	"fmt"
	"io"

	"oxmerge/internal/diagfmt"
)

// RenderOpts controls Render.
type RenderOpts struct {
	Pretty diagfmt.PrettyOpts
	// Limit caps the records rendered in detail.
	Limit int
}

// Render prints the selected bucket followed by the totals line:
//
//	Displaying issues for Level 1: Compiler errors
//	  (Displaying first 15 of 42)
//
//	❌ plugins/Foo/Foo.cs(3,5): error CS0103: ...
//	...
//
//	Total: 40 errors, 2 warnings.
func Render(w io.Writer, r *Result, cache *diagfmt.SnippetCache, opts RenderOpts) error {
	if r == nil {
		return nil
	}
	if b := r.Bucket; b != nil {
		head := b.Head(opts.Limit)
		if _, err := fmt.Fprintf(w, "\nDisplaying issues for %s\n", b.Title()); err != nil {
			return err
		}
		shown := opts.Limit
		if shown <= 0 {
			shown = len(head)
		}
		if _, err := fmt.Fprintf(w, "  (Displaying first %d of %d)\n\n", shown, len(b.Records)); err != nil {
			return err
		}
		if err := diagfmt.Pretty(w, head, cache, opts.Pretty); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d errors, %d warnings.\n", r.Errors, r.Warnings)
	return err
}
