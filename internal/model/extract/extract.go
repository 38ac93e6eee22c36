package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentParseError means the uploaded bytes could not be opened as a PDF.
// It is one of the two recoverable ingestion errors; callers surface its
// message and keep prior session state.
type DocumentParseError struct {
	Err error
}

func (e *DocumentParseError) Error() string {
	return "cannot parse document: " + e.Err.Error()
}

func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

// Text extracts the concatenated text of every page in page order.
// A structurally valid document without an extractable text layer (e.g. a
// scan) yields an empty string, not an error.
func Text(doc []byte) (text string, err error) {
	// the pdf package panics on some corrupt inputs instead of returning
	// an error
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &DocumentParseError{Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", &DocumentParseError{Err: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// page with no usable text layer contributes nothing
			continue
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
