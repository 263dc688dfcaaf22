// Package metatag extracts a page's title, description and keywords from
// fetched markup.
package metatag

import (
	"html"
	"regexp"
	"strings"
)

// Metatag is the metadata extracted from one page. It seeds a new link's
// defaults and is not persisted.
type Metatag struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// hiddenRegex matches markup whose text never describes the page. metaRegex
// lets a ">" appear inside a quoted attribute value.
var (
	hiddenRegex = regexp.MustCompile(`(?is)<!--.*?-->|<script\b.*?</script\s*>|<style\b.*?</style\s*>`)
	titleRegex  = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title\s*>`)
	metaRegex   = regexp.MustCompile(`(?is)<meta\b(?:[^>"']|"[^"]*"|'[^']*')*>`)
	attrRegex   = regexp.MustCompile(`(?s)([a-zA-Z][a-zA-Z0-9_:.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+))`)
)

// Extract parses markup fetched from url. Each field falls back to its empty
// value independently when the page does not provide it.
func Extract(markup, url string) *Metatag {
	meta := &Metatag{
		URL:  url,
		Tags: []string{},
	}
	markup = hiddenRegex.ReplaceAllString(markup, " ")

	if m := titleRegex.FindStringSubmatch(markup); m != nil {
		meta.Title = clean(m[1])
	}

	for _, tag := range metaRegex.FindAllString(markup, -1) {
		attrs := attributes(tag)
		content, ok := attrs["content"]
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(attrs["name"])) {
		case "description":
			if meta.Description == "" {
				meta.Description = clean(content)
			}
		case "keywords":
			if len(meta.Tags) == 0 {
				meta.Tags = splitKeywords(content)
			}
		}
	}

	return meta
}

func attributes(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRegex.FindAllStringSubmatch(tag, -1) {
		name := strings.ToLower(m[1])
		if _, seen := attrs[name]; seen {
			continue
		}
		attrs[name] = m[2] + m[3] + m[4]
	}
	return attrs
}

func splitKeywords(content string) []string {
	tags := []string{}
	for _, kw := range strings.Split(html.UnescapeString(content), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			tags = append(tags, kw)
		}
	}
	return tags
}

func clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
