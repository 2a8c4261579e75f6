package cmd

import "strings"

// multiValueFlags accept several space separated values after a single flag,
// as in `-e ts tsx` or `--exclude test mocks`.
var multiValueFlags = map[string]bool{
	"-e":           true,
	"--extensions": true,
	"--exclude":    true,
}

// expandMultiValueFlags rewrites `-e a b` into `-e a -e b` so the flag parser
// sees one value per occurrence. Values are consumed greedily until the next
// token that starts with "-" or the "--" terminator.
func expandMultiValueFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !multiValueFlags[tok] {
			out = append(out, tok)
			continue
		}

		out = append(out, tok)
		if i+1 < len(args) {
			// The first value is taken verbatim; the flag parser reports a
			// missing value itself.
			i++
			out = append(out, args[i])
		}
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, tok, args[i])
		}
	}
	return out
}
