package httpapi

import (
	"encoding/json"
	"sync"

	"gitlab.com/golang-commonmark/markdown"

	"newsdesk.org/internal/content"
)

var (
	mdOnce sync.Once
	md     *markdown.Markdown
)

func renderer() *markdown.Markdown {
	mdOnce.Do(func() {
		md = markdown.New(
			markdown.HTML(true),
			markdown.Linkify(true),
			markdown.Typographer(true),
			markdown.MaxNesting(10),
		)
	})
	return md
}

// articlePayload returns the article's JSON object, optionally extended with
// a content_html field holding the markdown-rendered body. Going through a
// map keeps the Article's own MarshalJSON (the derived published flag) intact.
func articlePayload(a content.Article, renderHTML bool) (map[string]any, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if renderHTML {
		m["content_html"] = renderer().RenderToString([]byte(a.Content))
	}
	return m, nil
}
