// Package document turns uploaded CV files into plain text.
package document

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

// Error reports a document that could not be turned into text.
type Error struct {
	FileName string
	Reason   string
	Err      error
}

func (e *Error) Error() (msg string) {
	msg = e.Reason
	if e.Err != nil {
		msg = e.Reason + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() (err error) {
	err = e.Err
	return err
}

// TextExtractor extracts text from document bytes. The file name selects the format.
type TextExtractor interface {
	Extract(data []byte, fileName string) (text string, err error)
}

// Extractor handles PDF, Word and plain text documents.
type Extractor struct{}

// NewExtractor creates a document extractor.
func NewExtractor() (extractor *Extractor) {
	extractor = &Extractor{}
	return extractor
}

// Supported reports whether the file name has an extension Extract understands.
func Supported(fileName string) (ok bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".docx", ".doc", ".txt":
		ok = true
	}
	return ok
}

// Extract returns the text of a document.
func (x *Extractor) Extract(data []byte, fileName string) (text string, err error) {
	if fileName == "" {
		err = &Error{Reason: "File name is required"}
		return text, err
	}
	if len(data) == 0 {
		err = &Error{FileName: fileName, Reason: "File is empty"}
		return text, err
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDocx(data)
	case ".txt":
		text = string(data)
	default:
		err = &Error{FileName: fileName, Reason: "Unsupported file type: " + fileName}
		return text, err
	}

	if err != nil {
		var docErr *Error
		if !errors.As(err, &docErr) {
			err = &Error{FileName: fileName, Reason: "Failed to read " + fileName, Err: err}
			return text, err
		}
		docErr.FileName = fileName
		return text, err
	}

	text = strings.TrimSpace(text)
	return text, err
}

// ExtractFile reads a document from disk.
func (x *Extractor) ExtractFile(path string) (text string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return text, err
	}

	text, err = x.Extract(data, filepath.Base(path))
	return text, err
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Errorf("malformed pdf: %v", r)
		}
	}()

	var reader *pdf.Reader
	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			err = &Error{Reason: "Encrypted PDF documents are not supported"}
			return text, err
		}
		err = errors.Wrap(err, "failed to parse pdf")
		return text, err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var pageText string
		pageText, err = page.GetPlainText(nil)
		if err != nil {
			err = errors.Wrapf(err, "failed to read pdf page %d", i)
			return text, err
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text = sb.String()
	return text, err
}

func extractDocx(data []byte) (text string, err error) {
	var doc *docx.ReplaceDocx
	doc, err = docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to parse docx")
		return text, err
	}
	defer doc.Close()

	text, err = documentText(doc.Editable().GetContent())
	return text, err
}

// documentText collects the w:t runs of a WordprocessingML body, one line per paragraph.
func documentText(content string) (text string, err error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var sb strings.Builder
	inText := false
	for {
		var token xml.Token
		token, err = decoder.Token()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			err = errors.Wrap(err, "failed to parse document xml")
			return text, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	text = sb.String()
	return text, err
}
