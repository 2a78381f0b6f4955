package harvest

import "regexp"

// Three independent pattern scans over free text. The phone pattern matches
// South African numbers (+27 or 0 prefix).
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+27|0)[\s-]?\d{2}[\s-]?\d{3}[\s-]?\d{4}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// ScanContacts extracts unique contact signals from free text, preserving
// first-occurrence order.
func ScanContacts(text string) ContactInfo {
	return ContactInfo{
		Emails:   uniqueMatches(emailPattern, text),
		Phones:   uniqueMatches(phonePattern, text),
		Websites: uniqueMatches(urlPattern, text),
	}
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
