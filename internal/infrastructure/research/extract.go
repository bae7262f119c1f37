package research

import (
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxBodyBytes  = 2 << 20
	noiseSelector = "script, style, nav, footer, header"
)

func limitBody(resp *http.Response) io.Reader {
	return io.LimitReader(resp.Body, maxBodyBytes)
}

// extractText strips page chrome and returns the collapsed body text,
// cut to at most maxChars characters.
func extractText(doc *goquery.Document, maxChars int) string {
	doc.Find(noiseSelector).Remove()
	return truncateRunes(collapseWhitespace(doc.Find("body").Text()), maxChars)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
