package diagsrc

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"oxmerge/internal/diag"
	"oxmerge/internal/source"
)

// "  3>C:\src\plugins\Foo\Foo.cs(12,9,12,14): error CS0103: The name 'x' does not exist [C:\src\Foo.csproj]"
var msbuildLine = regexp.MustCompile(
	`^\s*(?:\d+>)?(?P<path>[^\s(][^(]*?)\((?P<line>\d+),(?P<col>\d+)(?:,(?P<eline>\d+),(?P<ecol>\d+))?\)\s*:\s*` +
		`(?P<sev>fatal error|error|warning|info|hidden|message)\s+(?P<id>[A-Za-z]+[0-9A-Za-z_]*)\s*:\s*` +
		`(?P<msg>.*?)(?:\s+\[[^\]]+\])?\s*$`)

var (
	grpPath  = msbuildLine.SubexpIndex("path")
	grpLine  = msbuildLine.SubexpIndex("line")
	grpCol   = msbuildLine.SubexpIndex("col")
	grpELine = msbuildLine.SubexpIndex("eline")
	grpECol  = msbuildLine.SubexpIndex("ecol")
	grpSev   = msbuildLine.SubexpIndex("sev")
	grpID    = msbuildLine.SubexpIndex("id")
	grpMsg   = msbuildLine.SubexpIndex("msg")
)

func parseMSBuild(data []byte) []diag.Diagnostic {
	data, _ = source.Normalize(data)
	var out []diag.Diagnostic
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if d, ok := ParseMSBuildLine(sc.Text()); ok {
			out = append(out, d)
		}
	}
	return out
}

// ParseMSBuildLine parses one compiler output line. Lines that do not look
// like a positioned diagnostic report false.
func ParseMSBuildLine(line string) (diag.Diagnostic, bool) {
	m := msbuildLine.FindStringSubmatch(line)
	if m == nil {
		return diag.Diagnostic{}, false
	}
	sev, ok := diag.ParseSeverity(m[grpSev])
	if !ok {
		sev = diag.SevInfo
	}
	start := source.LineCol{Line: atou(m[grpLine]), Col: atou(m[grpCol])}
	end := start
	if m[grpELine] != "" {
		end = source.LineCol{Line: atou(m[grpELine]), Col: atou(m[grpECol])}
	}
	return diag.Diagnostic{
		Severity: sev,
		Code:     diag.Code(m[grpID]),
		Message:  strings.TrimSpace(m[grpMsg]),
		Primary:  diag.Location{Path: strings.TrimSpace(m[grpPath]), Start: start, End: end},
	}, true
}

func atou(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
