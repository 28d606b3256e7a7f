package rag

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"libris/internal/providers"
	"libris/internal/token"
	"libris/internal/vector"

	"github.com/stretchr/testify/require"
)

func minimalEPUB(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Prueba</dc:title></metadata>
  <manifest><item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
		"c1.xhtml": `<html><body><p>` + body + `</p></body></html>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestIngestAndAnswerEndToEnd(t *testing.T) {
	ctx := context.Background()
	codec, err := token.NewCL100K()
	require.NoError(t, err)

	mock := providers.NewMockProvider(32)
	store := vector.NewChromemStore("", "e2e_collection")
	p := New(codec, mock, mock, store, Options{MaxChunkTokens: 50, TopK: 5})

	body := strings.Repeat("El ingenioso hidalgo cabalga por los campos de La Mancha. ", 40)
	doc := minimalEPUB(t, body)

	res, err := p.Ingest(ctx, doc, "epub", "book-e2e")
	require.NoError(t, err)
	require.Greater(t, res.Total, 1)
	require.Equal(t, res.Total, res.Stored)

	stored, err := store.Count()
	require.NoError(t, err)
	require.Equal(t, res.Stored, stored)

	// Re-ingesting must not duplicate entries.
	res2, err := p.Ingest(ctx, doc, "epub", "book-e2e")
	require.NoError(t, err)
	require.Equal(t, res.Stored, res2.Stored)
	stored2, err := store.Count()
	require.NoError(t, err)
	require.Equal(t, stored, stored2)

	answer, err := p.Answer(ctx, "¿Por dónde cabalga el hidalgo?", "book-e2e")
	require.NoError(t, err)
	require.NotEmpty(t, answer)
}
