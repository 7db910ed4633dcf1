package pdf

import (
	"regexp"
	"strings"
)

var boldMarkup = regexp.MustCompile(`\*\*(.+?)\*\*`)

// ExtractRecommendations splits the model's analysis into its strategic
// and tactical blocks by their heading lines. When neither heading is
// present the whole text lands in the strategic block so nothing is
// dropped from the report.
func ExtractRecommendations(analysis string) (strategic, tactical string) {
	var strategicLines, tacticalLines []string
	section := ""

	for _, line := range strings.Split(analysis, "\n") {
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "strategick") && strings.Contains(lower, "doporuč"):
			section = "strategic"
			continue
		case strings.Contains(lower, "taktick") && strings.Contains(lower, "doporuč"):
			section = "tactical"
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		switch section {
		case "strategic":
			strategicLines = append(strategicLines, line)
		case "tactical":
			tacticalLines = append(tacticalLines, line)
		}
	}

	if len(strategicLines) == 0 && len(tacticalLines) == 0 {
		return analysis, ""
	}

	strategic = strings.TrimSpace(strings.Join(strategicLines, "\n"))
	tactical = strings.TrimSpace(strings.Join(tacticalLines, "\n"))
	return strategic, tactical
}

// stripMarkdownBold removes the **bold** markup models sometimes emit
// despite being asked for plain text.
func stripMarkdownBold(text string) string {
	return boldMarkup.ReplaceAllString(text, "$1")
}
