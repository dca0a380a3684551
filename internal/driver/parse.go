package driver

import (
	"sync/atomic"

	"oxmerge/internal/ast"
	"oxmerge/internal/diag"
	"oxmerge/internal/parser"
	"oxmerge/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Unit    *ast.SourceUnit
	Bag     *diag.Bag
}

// Parse reads and parses a single file. Parse errors are returned in Bag,
// only I/O problems are errors.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	unit := parser.ParseFile(file, parser.Options{MaxErrors: maxDiagnostics})
	bag := diag.NewBag(maxDiagnostics)
	for _, e := range unit.Errors {
		bag.Add(diag.NewError(diag.CodeParseFailure, diag.LocationOf(fs, e.Span), e.Msg))
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Unit:    unit,
		Bag:     bag,
	}, nil
}

// parsePlugin parses the files of one plugin in order. Members get sequence
// numbers from a per-plugin counter, so the merge order does not depend on
// how plugins were scheduled. Unreadable files become units carrying a
// single parse error.
func parsePlugin(fs *source.FileSet, paths []string, cache *DiskCache, maxErrors int) (units []*ast.SourceUnit, files []*source.File, cacheHits int) {
	seq := new(atomic.Uint64)
	for _, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			units = append(units, &ast.SourceUnit{
				Path:   source.NormalizePath(path),
				Errors: []ast.ParseError{{Msg: "cannot read file: " + err.Error()}},
			})
			continue
		}
		f := fs.Get(id)
		files = append(files, f)

		key := unitCacheKey(f)
		var payload DiskPayload
		if ok, _ := cache.Get(key, &payload); ok {
			u := payload.Unit
			rebind(&u, f, seq)
			units = append(units, &u)
			cacheHits++
			continue
		}

		u := parser.ParseFile(f, parser.Options{Seq: seq, MaxErrors: maxErrors})
		if !u.HasErrors() {
			// кеш — best effort: ошибка записи не влияет на результат
			_ = cache.Put(key, &DiskPayload{Path: f.Path, Unit: *u})
		}
		units = append(units, u)
	}
	return units, files, cacheHits
}
