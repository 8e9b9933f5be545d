package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	e := NewDocumentExtractor()
	text, err := e.ExtractText(strings.NewReader("  Jane Doe\nEngineer  "), "cv.TXT")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nEngineer", text)
}

func TestExtractRejectsUnsupportedAndEmpty(t *testing.T) {
	e := NewDocumentExtractor()

	_, err := e.ExtractText(strings.NewReader("x"), "cv.doc")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = e.ExtractText(strings.NewReader("   "), "cv.txt")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = e.ExtractText(strings.NewReader("not a pdf"), "cv.pdf")
	assert.Error(t, err)
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Jane</w:t></w:r></w:p><w:p><w:r><w:t>Go, SQL</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "Jane\nGo, SQL\n", stripDocxXML(raw))
}

func TestHTTPClientSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(5 * time.Second).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, UserAgent, got)
}
