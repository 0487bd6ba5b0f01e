/*
Package markdown converts the small Markdown subset used by the analysis
reports (headers, bold, lists, paragraphs) into HTML.

The conversion is a fixed chain of rewrites, not a parser. Each rule runs on
the output of the previous one, so the order of the rules decides how
overlapping constructs come out. Source text is not escaped: the report is
trusted backend output.
*/
package markdown

import (
	"regexp"
	"strings"
)

// EmptyReport is returned for a missing or empty report.
const EmptyReport = "<p>No analysis report available.</p>"

// lineText matches the rest of a line; it stops at any line terminator.
const lineText = `[^\n\r\x{2028}\x{2029}]`

var (
	h4Regexp       = regexp.MustCompile(`(?m)^### (` + lineText + `*)`)
	h3Regexp       = regexp.MustCompile(`(?m)^## (` + lineText + `*)`)
	boldRegexp     = regexp.MustCompile(`\*\*(` + lineText + `*?)\*\*`)
	starItemRegexp = regexp.MustCompile(`(?m)^\* (` + lineText + `*)`)
	dashItemRegexp = regexp.MustCompile(`(?m)^- (` + lineText + `*)`)
	numItemRegexp  = regexp.MustCompile(`(?m)^(\d+)\. (` + lineText + `*)`)
	itemRunRegexp  = regexp.MustCompile(`(?:<li>` + lineText + `*?</li>\n?)+`)
)

// cleanupSteps strip paragraph tags wrapped around headers and lists, then drop empty paragraphs.
var cleanupSteps = [][2]string{
	{"<p><h", "<h"},
	{"</h3></p>", "</h3>"},
	{"</h4></p>", "</h4>"},
	{"<p><ul>", "<ul>"},
	{"</ul></p>", "</ul>"},
	{"<p></p>", ""},
}

/*
ToHTML converts markdown to HTML. Rules, in order:

 1. "### x" lines become <h4>x</h4>, then "## x" lines become <h3>x</h3>.
 2. **x** becomes <strong>x</strong>.
 3. Lines starting with "* ", "- " or "<digits>. " become <li> items; the
    number of ordered items is dropped.
 4. Consecutive <li> lines are wrapped in a single <ul>.
 5. Blank lines split paragraphs and the whole text is wrapped in <p>.
 6. Paragraph tags directly around headers and lists are removed, and so
    are empty paragraphs.
*/
func ToHTML(markdown string) string {
	if markdown == "" {
		return EmptyReport
	}

	html := h4Regexp.ReplaceAllString(markdown, "<h4>${1}</h4>")
	html = h3Regexp.ReplaceAllString(html, "<h3>${1}</h3>")

	html = boldRegexp.ReplaceAllString(html, "<strong>${1}</strong>")

	html = starItemRegexp.ReplaceAllString(html, "<li>${1}</li>")
	html = dashItemRegexp.ReplaceAllString(html, "<li>${1}</li>")
	html = numItemRegexp.ReplaceAllString(html, "<li>${2}</li>")

	html = itemRunRegexp.ReplaceAllString(html, "<ul>${0}</ul>")

	html = "<p>" + strings.ReplaceAll(html, "\n\n", "</p><p>") + "</p>"

	// Steps run in order; each one sees the output of the previous.
	for _, step := range cleanupSteps {
		html = strings.ReplaceAll(html, step[0], step[1])
	}

	return html
}
