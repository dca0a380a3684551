package driver

import (
	"oxmerge/internal/diag"
	"oxmerge/internal/lexer"
	"oxmerge/internal/source"
	"oxmerge/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// lexBagReporter turns lexer errors into parse-failure diagnostics.
type lexBagReporter struct {
	fs  *source.FileSet
	bag *diag.Bag
}

func (r lexBagReporter) Report(sp source.Span, msg string) {
	r.bag.Add(diag.NewError(diag.CodeParseFailure, diag.LocationOf(r.fs, sp), msg))
}

func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: lexBagReporter{fs: fs, bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}
