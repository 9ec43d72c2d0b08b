package render

import (
	"bufio"
	"os"
	"strings"
)

// outputCreatedPrefix is the literal line prefix the renderer writes to its
// log when a standalone artifact is produced. Matching is isolated here so
// the pattern can be swapped if the renderer's log format changes.
const outputCreatedPrefix = "Output created:"

// ParseOutputLine scans the render log for an "Output created: <path>" line
// and returns the artifact path relative to the document's directory. The
// line is a best-effort signal, not a guaranteed contract: a missing log
// file or absent line returns found=false without error (the renderer may
// only have produced a bundle directory).
func ParseOutputLine(logPath string) (artifact string, found bool, err error) {
	f, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, outputCreatedPrefix); ok {
			if path := strings.TrimSpace(rest); path != "" {
				return path, true, nil
			}
		}
	}
	return "", false, scanner.Err()
}
