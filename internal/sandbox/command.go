package sandbox

import "strings"

const (
	sourcePlaceholder = "{source}"
	binaryPlaceholder = "{binary}"
)

// buildArgv substitutes the {source} and {binary} placeholders in a profile's
// command tokens with concrete workspace paths. The result is passed to the
// process-spawning primitives as an argument vector; no shell is ever
// involved, so paths cannot be used for injection.
func buildArgv(tokens []string, sourcePath, binaryPath string) []string {
	argv := make([]string, len(tokens))
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, sourcePlaceholder, sourcePath)
		tok = strings.ReplaceAll(tok, binaryPlaceholder, binaryPath)
		argv[i] = tok
	}
	return argv
}
