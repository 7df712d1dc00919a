package source

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// PlainText strips markup from WordPress "rendered" strings and decodes
// entities, e.g. "Intro to B&amp;C <em>Ed</em>" -> "Intro to B&C Ed".
func PlainText(s string) string {
	strictOnce.Do(func() { strictPolicy = bluemonday.StrictPolicy() })
	out := strictPolicy.Sanitize(s)
	out = html.UnescapeString(out)
	return strings.Join(strings.Fields(out), " ")
}
