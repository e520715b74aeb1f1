// Package extract turns a raw PDF document into plain text with page count
// metadata. It is the first pipeline stage and the only one that touches the
// uploaded bytes directly.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is the extractor output: the full plain text and the number of
// pages it came from. The text is passed downstream verbatim; later stages
// tolerate layout noise.
type Document struct {
	Text      string
	PageCount int
}

// ExtractionError indicates the input could not be turned into text. It is
// fatal to the run.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// PDF extracts plain text and page count from raw PDF bytes.
// Returns an ExtractionError if the bytes are not a parseable PDF or if the
// document yields zero extractable characters.
func PDF(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Reason: "empty input"}
	}

	// pdfcpu validates the document structure while counting pages.
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, &ExtractionError{Reason: "not a parseable PDF", Err: err}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Reason: "failed to open PDF", Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, &ExtractionError{Reason: "failed to extract text", Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, &ExtractionError{Reason: "failed to read extracted text", Err: err}
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Reason: "no extractable text in document"}
	}

	return &Document{
		Text:      text,
		PageCount: pageCount,
	}, nil
}
