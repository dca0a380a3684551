package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/diag"
	"oxmerge/internal/resolve"
	"oxmerge/internal/source"
)

// Validator checks the parsed parts of one plugin before merging and feeds
// the error ledger.
type Validator struct {
	Ledger     Ledger
	Strategies []resolve.Strategy
}

// New returns a Validator that resolves the primary class with strategies.
func New(ledger Ledger, strategies []resolve.Strategy) *Validator {
	return &Validator{Ledger: ledger, Strategies: strategies}
}

// Validate checks the parsed files of one plugin. units must be in file
// order and belong to fs.
func (v *Validator) Validate(plugin string, fs *source.FileSet, units []*ast.SourceUnit) *Report {
	rep := &Report{Plugin: plugin}

	if v.checkParse(rep, fs, units) {
		return v.finish(rep)
	}

	rep.Resolution = resolve.Resolve(units, v.Strategies)
	if rep.Resolution.Empty() {
		rep.Outcome = OutcomeNoPrimary
		loc := diag.Location{}
		if len(units) > 0 {
			loc = diag.FileStart(units[0].Path)
		}
		rep.Diagnostics = append(rep.Diagnostics,
			diag.NewError(diag.CodeNoPrimary, loc, fmt.Sprintf("No primary plugin class found in plugin '%s'.", plugin)).
				WithNote("Expected a class deriving from a plugin base, carrying an [Info] attribute, or a public class named '*Plugin'"))
		rep.Errors = 1
		return v.finish(rep)
	}

	if v.checkPartial(rep, fs, units) {
		return v.finish(rep)
	}
	if v.checkSingleUnit(rep, fs, units) {
		return v.finish(rep)
	}
	v.checkConflicts(rep, fs, units)
	return v.finish(rep)
}

func (v *Validator) finish(rep *Report) *Report {
	if rep.Errors > 0 && v.Ledger != nil {
		v.Ledger.Increment(rep.Plugin, rep.Errors)
	}
	return rep
}

func (v *Validator) checkParse(rep *Report, fs *source.FileSet, units []*ast.SourceUnit) bool {
	for _, u := range units {
		if !u.HasErrors() {
			continue
		}
		first := u.Errors[0]
		loc := diag.FileStart(u.Path)
		if fs != nil {
			if f, ok := fs.Lookup(first.Span.File); ok && f.Path == u.Path {
				loc = diag.LocationOf(fs, first.Span)
			}
		}
		d := diag.NewError(diag.CodeParseFailure, loc, fmt.Sprintf("Failed to parse %s: %s", filepath.Base(u.Path), first.Msg))
		if n := len(u.Errors); n > 1 {
			d = d.WithNote(fmt.Sprintf("%d more parse error(s) in this file", n-1))
		}
		rep.Diagnostics = append(rep.Diagnostics, d)
		rep.ParseFailures = append(rep.ParseFailures, u.Path)
	}
	if len(rep.ParseFailures) == 0 {
		return false
	}
	rep.Outcome = OutcomeParseFailure
	rep.Errors = len(rep.ParseFailures)
	return true
}

func (v *Validator) checkPartial(rep *Report, fs *source.FileSet, units []*ast.SourceUnit) bool {
	for _, u := range units {
		for _, d := range u.Classes() {
			if !rep.Resolution.Has(d.Name) || d.IsPartial() {
				continue
			}
			mp := MissingPartial{Path: u.Path, Name: d.Name, Loc: diag.LocationOf(fs, d.NameSpan)}
			rep.MissingPartials = append(rep.MissingPartials, mp)
			rep.Diagnostics = append(rep.Diagnostics,
				diag.NewError(diag.CodeMissingPartial, mp.Loc,
					fmt.Sprintf("Plugin class '%s' in %s is missing 'partial' modifier", d.Name, filepath.Base(u.Path))).
					WithNote("All plugin class parts must use the 'partial' modifier."))
		}
	}
	if len(rep.MissingPartials) == 0 {
		return false
	}
	rep.Outcome = OutcomeMissingPartial
	rep.Errors = len(rep.MissingPartials)
	return true
}

func (v *Validator) checkSingleUnit(rep *Report, fs *source.FileSet, units []*ast.SourceUnit) bool {
	namespaces := rep.Resolution.Namespaces()
	primaryName := rep.Resolution.Candidates[0]

	for _, u := range units {
		var (
			valid []*ast.TypeDecl
			extra []ExtraType
		)
		for i := range u.Types {
			d := &u.Types[i]
			_, nsOK := namespaces[d.Namespace]
			if d.IsClass() && d.IsPartial() && rep.Resolution.Has(d.Name) && nsOK {
				valid = append(valid, d)
				continue
			}
			loc := diag.LocationOf(fs, d.NameSpan)
			extra = append(extra, ExtraType{Kind: d.Kind.String(), QualifiedName: d.QualifiedName(), Span: &loc})
		}
		if len(valid) > 0 && len(extra) == 0 {
			continue
		}

		vio := Violation{Path: u.Path, MissingPrimary: len(valid) == 0, Extra: extra}
		switch {
		case len(extra) > 0:
			vio.Primary = *extra[0].Span
		case len(valid) > 0:
			vio.Primary = diag.LocationOf(fs, valid[0].NameSpan)
		default:
			vio.Primary = diag.FileStart(u.Path)
		}
		rep.Violations = append(rep.Violations, vio)
		rep.Diagnostics = append(rep.Diagnostics, violationDiagnostic(vio, primaryName))
	}
	if len(rep.Violations) == 0 {
		return false
	}
	rep.Outcome = OutcomeStructural
	rep.Errors = len(rep.Violations)
	return true
}

func violationDiagnostic(v Violation, primaryName string) diag.Diagnostic {
	d := diag.NewError(diag.CodeSingleUnit, v.Primary,
		fmt.Sprintf("File must only contain partial '%s' declarations.", primaryName))
	if v.MissingPrimary {
		d = d.WithNote("Missing partial plugin class definition")
	}
	for _, e := range v.Extra {
		d = d.WithNote(fmt.Sprintf("Extra top-level %s '%s'", e.Kind, e.QualifiedName))
	}
	return d
}

type partKey struct{ name, ns string }

// checkConflicts warns when parts of one class disagree on what the merge
// copies from a single part only.
func (v *Validator) checkConflicts(rep *Report, fs *source.FileSet, units []*ast.SourceUnit) {
	first := make(map[partKey]*ast.TypeDecl)
	firstPath := make(map[partKey]string)
	for _, u := range units {
		for _, d := range u.Classes() {
			if !d.IsPartial() || !rep.Resolution.Has(d.Name) {
				continue
			}
			key := partKey{d.Name, d.Namespace}
			base, ok := first[key]
			if !ok || (len(base.Bases) == 0 && len(d.Bases) > 0) {
				first[key] = d
				firstPath[key] = u.Path
				continue
			}
			where := filepath.Base(firstPath[key])
			warn := func(msg string) {
				rep.Diagnostics = append(rep.Diagnostics,
					diag.NewWarning(diag.CodeConflictingRedeclaration, diag.LocationOf(fs, d.NameSpan), msg).
						WithNoteAt(diag.LocationOf(fs, base.NameSpan), "declaration kept by the merge"))
			}
			if len(d.Bases) > 0 && joinNorm(d.Bases) != joinNorm(base.Bases) {
				warn(fmt.Sprintf("Base list '%s' of '%s' conflicts with '%s' declared in %s; the first declaration wins",
					strings.Join(d.Bases, ", "), d.Name, strings.Join(base.Bases, ", "), where))
			}
			if d.TypeParams != "" && norm(d.TypeParams) != norm(base.TypeParams) {
				warn(fmt.Sprintf("Type parameters '%s' of '%s' conflict with '%s' declared in %s; the first declaration wins",
					d.TypeParams, d.Name, base.TypeParams, where))
			}
			if len(d.Constraints) > 0 && joinNorm(d.Constraints) != joinNorm(base.Constraints) {
				warn(fmt.Sprintf("Constraints of '%s' conflict with those declared in %s; the first declaration wins", d.Name, where))
			}
		}
	}
}

func norm(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func joinNorm(parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(norm(p))
	}
	return sb.String()
}
