package utils

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxDocumentSize caps uploaded resume files
const MaxDocumentSize = 10 << 20

// ErrUnsupportedFormat is returned for files other than PDF, DOCX and TXT
var ErrUnsupportedFormat = errors.New("unsupported file format, use PDF, DOCX or TXT")

// ErrNoText is returned when a document holds no extractable text
var ErrNoText = errors.New("no text found in document")

// DocumentExtractor extracts text from uploaded resume files
type DocumentExtractor struct{}

// NewDocumentExtractor creates a new document extractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractText extracts text from a file based on its extension
func (e *DocumentExtractor) ExtractText(r io.Reader, filename string) (string, error) {
	if !e.IsSupportedFormat(filename) {
		return "", ErrUnsupportedFormat
	}

	content, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > MaxDocumentSize {
		return "", fmt.Errorf("file exceeds %d bytes", MaxDocumentSize)
	}

	var text string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDocx(content)
	default:
		text = string(content)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// IsSupportedFormat checks if the file format is supported
func (e *DocumentExtractor) IsSupportedFormat(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocx(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps the character data of document.xml, one line per paragraph
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && sb.Len() > 0 {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
