package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("not a pdf document")

type Extractor interface {
	// Extract returns the plain text of every page. It fails with ErrNotPDF
	// when data is not a readable PDF.
	Extract(data []byte) (string, error)
}

type LedongthucExtractor struct{}

func NewExtractor() *LedongthucExtractor { return &LedongthucExtractor{} }

func (LedongthucExtractor) Extract(data []byte) (text string, err error) {
	data = trimLeading(data)
	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	// the parser panics on some truncated xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// IsPDF sniffs the content type of the leading bytes, ignoring a byte order
// mark and whitespace before the header.
func IsPDF(data []byte) bool {
	head := trimLeading(data)
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head) == "application/pdf"
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// trimLeading drops what some producers write before "%PDF-". Offsets in the
// xref table count from the header, so the parser gets the trimmed bytes too.
func trimLeading(data []byte) []byte {
	return bytes.TrimLeft(bytes.TrimPrefix(bytes.TrimLeft(data, " \t\r\n"), utf8BOM), " \t\r\n")
}
