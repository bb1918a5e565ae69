package canonical

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes HTML tags and decodes the entities that show up in
// Audible-sourced descriptions.
func StripHTML(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	return strings.TrimSpace(replacer.Replace(text))
}
