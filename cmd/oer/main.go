package main

import (
	"os"
	"strconv"
	"strings"

	"oer-catalog/internal/cli"
)

func isPageNumber(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n >= 1
}

func rewriteDirectPageArgs(argv []string) []string {
	// Convenience: `oer <n>` works like `oer page <n>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `oer --endpoint ... 3`), so we look for the first
	// positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--endpoint":  true,
		"--page-size": true,
		"--loading":   true,
		"--timeout":   true,
		"--log-file":  true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--debug":  true,
		"--pretty": true,
	}

	insertPage := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "page")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// `oer -- <n>` becomes `oer page -- <n>`.
			if i+1 < len(argv) && isPageNumber(argv[i+1]) {
				return insertPage(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isPageNumber(a) {
			return insertPage(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectPageArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
