package abc

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// levelPattern matches ABC's print_level diagnostic lines, "Level = <int>".
var levelPattern = regexp.MustCompile(`Level\s*=\s*(\d+)`)

// MaxLevel scans tool output for level diagnostics and returns the maximum
// reported level. found is false when no line matched; the metric is then
// unavailable rather than zero, and the caller decides how to treat that.
func MaxLevel(output string) (level int, found bool) {
	max := 0
	for _, line := range strings.Split(output, "\n") {
		m := levelPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits too large for int; skip the line rather than fail.
			continue
		}
		found = true
		if v > max {
			max = v
		}
	}
	return max, found
}

// CountCost counts the generated logic elements in a BLIF artifact: one per
// line beginning with ".names".
func CountCost(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), ".names") {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan artifact: %w", err)
	}
	return count, nil
}
