package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

func fromEPUB(data []byte) (string, error) {
	r, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}
	if len(r.Rootfiles) == 0 {
		return "", fmt.Errorf("open epub: no rootfile in container")
	}
	rf := r.Rootfiles[0]

	parts := make([]string, 0, len(rf.Spine.Itemrefs))
	for _, ref := range rf.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		f, err := ref.Open()
		if err != nil {
			// Unreadable spine item contributes no text.
			continue
		}
		text := htmlText(f)
		f.Close()
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// htmlText strips markup to the visible text, excluding script and style
// bodies. Block-level tags become newlines so paragraphs stay separated.
func htmlText(r io.Reader) string {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if n := string(name); (n == "script" || n == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}
