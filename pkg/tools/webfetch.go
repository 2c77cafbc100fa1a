package tools

import (
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/scoutcli/scout/pkg/cancel"
)

const maxWebFetchBytes = 10 * 1024 * 1024

var (
	scriptStyleTagRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	anyTagRe         = regexp.MustCompile(`(?s)<[^>]+>`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// webFetch performs an HTTP GET and reduces the body to a whitespace-
// collapsed text extract, stripping script/style blocks and remaining
// tags, capped at maxWebFetchBytes before any processing. Polls flag
// before spawning the request, matching runBash's cancellation check
// before it spawns a child process (spec.md §5's "before spawning").
func webFetch(url string, flag *cancel.Flag) (string, *Error) {
	if flag != nil && flag.IsSet() {
		return "", &Error{Kind: Cancelled, Message: "cancelled"}
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", ioError("fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxWebFetchBytes)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", ioError("read response from %s: %v", url, err)
	}

	return cleanHTML(string(body)), nil
}

// cleanHTML strips script/style blocks and remaining tags, then
// collapses whitespace, separated from webFetch so it can be tested
// without a network round trip.
func cleanHTML(body string) string {
	text := scriptStyleTagRe.ReplaceAllString(body, " ")
	text = anyTagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
