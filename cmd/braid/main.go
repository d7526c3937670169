package main

import (
	"os"
	"strings"

	"braid/internal/cli"
)

// idTargets maps generated-ID prefixes to the show command that resolves
// them. Convenience: `braid node-abc123` works like `braid nodes show
// node-abc123`.
var idTargets = map[string][]string{
	"node-": {"nodes", "show"},
	"cont-": {"containers", "show"},
}

func idTarget(s string) []string {
	s = strings.TrimSpace(s)
	for prefix, target := range idTargets {
		// Keep it permissive; IDs are generated but users may paste variants.
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return target
		}
	}
	return nil
}

// rewriteDirectIDArgs finds the first positional token and, if it looks like
// a generated ID, splices the matching show command in front of it. Cobra
// treats the first non-flag token as a subcommand, so this runs before
// parsing. Users often pass persistent flags first (e.g. `braid --dir ...
// node-abc`), so we must find the first positional token, not just argv[1].
func rewriteDirectIDArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. Bool and unrecognized flags are
	// skipped without consuming a value, so an ID is never swallowed by
	// accident.
	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}

	i := 1
	for i < len(argv) {
		tok := argv[i]
		if tok == "--" {
			i++
			break
		}
		if strings.HasPrefix(tok, "--") {
			name := tok
			if eq := strings.Index(tok, "="); eq >= 0 {
				name = tok[:eq]
			}
			if valueFlags[name] && !strings.Contains(tok, "=") {
				i += 2
				continue
			}
			i++
			continue
		}
		break
	}
	if i >= len(argv) {
		return argv
	}

	target := idTarget(argv[i])
	if target == nil {
		return argv
	}
	out := make([]string, 0, len(argv)+len(target))
	out = append(out, argv[:i]...)
	out = append(out, target...)
	out = append(out, argv[i:]...)
	return out
}

func main() {
	os.Args = rewriteDirectIDArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
