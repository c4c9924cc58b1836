package stringsutil

import "strings"

// NonEmptyLines splits s into lines, trimming surrounding whitespace and
// dropping lines left empty. Both \n and \r\n endings are accepted.
func NonEmptyLines(s string) []string {
	var result []string

	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}

	return result
}
