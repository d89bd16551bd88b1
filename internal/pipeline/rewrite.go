package pipeline

import (
	"regexp"
	"strings"
)

// cFuncSigRe matches C-style function signatures: return type, identifier,
// argument list, trailing semicolon. The extractor's own prefix option
// covers type names but not function names, so the function identifiers are
// rewritten here instead.
var cFuncSigRe = regexp.MustCompile(`(\w+ \*?)(\w+)(\([\w\s*,]*\);)`)

// PrefixFunctionNames rewrites every matched function identifier in the
// header to carry prefix, and stamps a marker comment on the first line.
// Identifiers already carrying the prefix pass through unchanged, so running
// the rewrite over already-prefixed output is a no-op.
func PrefixFunctionNames(header, prefix string) string {
	marker := "// " + prefix + "\n"
	body := strings.TrimPrefix(header, marker)

	rewritten := cFuncSigRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := cFuncSigRe.FindStringSubmatch(m)
		if strings.HasPrefix(sub[2], prefix) {
			return m
		}
		return sub[1] + prefix + sub[2] + sub[3]
	})

	return marker + rewritten
}
