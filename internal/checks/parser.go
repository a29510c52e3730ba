package checks

import (
	"regexp"
	"strings"
)

// maxDiagnostics bounds the number of normalized error strings handed to the
// repair stage.
const maxDiagnostics = 20

// Recognized compiler diagnostic shapes: bracketed-code errors, plain error
// lines, and source-location arrows.
var diagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`error\[[^\]]+\]: .+`),
	regexp.MustCompile(`error: .+`),
	regexp.MustCompile(`--> .+`),
}

// ParseDiagnostics scans raw toolchain output line by line and returns each
// line matching a recognized diagnostic pattern, trimmed, capped at
// maxDiagnostics entries.
func ParseDiagnostics(output string) []string {
	var errs []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		for _, re := range diagPatterns {
			if re.MatchString(line) {
				errs = append(errs, line)
				break
			}
		}
		if len(errs) == maxDiagnostics {
			break
		}
	}
	return errs
}
