// Package render turns user-authored text (post descriptions, comments) into
// sanitized HTML for the feed and profile responses. Markdown support is
// deliberately narrow: emphasis, code spans and strikethrough only.
package render

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/redvibe-dev/redvibe/internal/logger"
)

type TextRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextRenderer {
	md := goldmark.New(
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "em", "strong", "code", "pre", "del")

	return &TextRenderer{md: md, policy: policy}
}

// HTML renders markdown to sanitized HTML. On a render failure the raw text
// is escaped through the sanitizer instead, so output is always safe.
func (tr *TextRenderer) HTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := tr.md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Warn("markdown render failed", "error", err)
		return tr.policy.Sanitize(text)
	}

	return tr.policy.Sanitize(buf.String())
}
