// Package diagsrc ingests diagnostics produced by an external compiler run.
//
// The compiler is never invoked from here: the user runs `dotnet build`
// (optionally with `-p:ErrorLog=build.sarif`) and hands the resulting file to
// oxmerge. Three shapes are understood:
//
//	msbuild  path(line,col[,endLine,endCol]): error|warning|info ID: message [project]
//	sarif    SARIF v2.1.0 runs[].results[] as written by /errorlog
//	json     [{"id","severity","path","line","column","endLine","endColumn","message"}]
//
// Paths are normalised to forward slashes; relative paths are joined with
// Options.BaseDir.
package diagsrc
