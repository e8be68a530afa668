package ocr

import "billscan/pkg/extract"

// Result is the output of one OCR run over a bill image.
type Result struct {
	Text   string
	Tokens []extract.Token
}

// Detailed reports whether word-level geometry was captured alongside the
// plain text.
func (r Result) Detailed() bool { return len(r.Tokens) > 0 }

// Suggestions runs field extraction over the recognized content.
func (r Result) Suggestions() extract.Suggestions {
	return extract.Extract(r.Text, r.Tokens)
}
