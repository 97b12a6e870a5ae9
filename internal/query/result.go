// Package query answers natural-language questions over normalized
// notifications. An LLM turns the question into a JSON plan; the plan runs
// locally and yields one of the Result variants.
package query

import (
	"github.com/google/uuid"
)

// Result is the closed set of answers: *TableResult, *ImageResult or
// *TextResult.
type Result interface {
	ResultID() string
	isResult()
}

// TableResult is a rectangular answer.
type TableResult struct {
	ID      string     `json:"id"`
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ImageResult is a rendered SVG chart.
type ImageResult struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	SVG   []byte `json:"-"`
}

// TextResult is a plain-text answer.
type TextResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (r *TableResult) ResultID() string { return r.ID }
func (r *ImageResult) ResultID() string { return r.ID }
func (r *TextResult) ResultID() string  { return r.ID }

func (*TableResult) isResult() {}
func (*ImageResult) isResult() {}
func (*TextResult) isResult()  {}

func newID() string { return uuid.NewString() }
