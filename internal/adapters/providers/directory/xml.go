package directory

import (
	"regexp"
	"strconv"
	"strings"
)

// The directory upstream returns flat XML with one <item> block per record.
// Fields are pulled out by literal tag name; a full XML parser buys nothing
// here because the feed never nests and occasionally emits bare ampersands
// that would make a strict parser bail on the whole document.

var itemPattern = regexp.MustCompile(`(?is)<item>(.*?)</item>`)

func extractItems(xml string) []string {
	matches := itemPattern.FindAllStringSubmatch(xml, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, m[1])
	}
	return items
}

func extractValue(xml, tag string) string {
	re := regexp.MustCompile(`(?i)<` + tag + `>([^<]*)</` + tag + `>`)
	if m := re.FindStringSubmatch(xml); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractValueCDATA prefers CDATA-wrapped content, used for fields like
// names and addresses that may contain special characters.
func extractValueCDATA(xml, tag string) string {
	re := regexp.MustCompile(`(?i)<` + tag + `><!\[CDATA\[([^\]]*?)\]\]></` + tag + `>`)
	if m := re.FindStringSubmatch(xml); m != nil {
		return strings.TrimSpace(m[1])
	}
	return extractValue(xml, tag)
}

func extractInt(xml, tag string) int {
	v, err := strconv.Atoi(extractValue(xml, tag))
	if err != nil {
		return 0
	}
	return v
}

func extractFloat(xml, tag string) float64 {
	v, err := strconv.ParseFloat(extractValue(xml, tag), 64)
	if err != nil {
		return 0
	}
	return v
}
