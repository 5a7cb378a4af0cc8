// Package diagnostics is the structured error type shared by every
// compilation phase: lexer, parser, checker, interpreter, and emitter all
// build a *Report and hand it back wrapped as an error, so a caller at any
// layer can extract structured detail with AsReport instead of parsing a
// message string.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
)

// Fix is a suggested correction attached to a Report, with a confidence in
// [0,1] so a CLI can decide whether to print it as a firm suggestion or a
// tentative one.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic. Code is one of the
// phase-prefixed constants in codes.go (LEX/PAR/TYP/RUN/EMT).
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

const Schema = "sharpts.diagnostic/v1"

// ReportError wraps a Report so it survives errors.As/errors.Is unwrapping
// through ordinary Go error plumbing.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts the *Report carried by err, if any link in its chain is
// a *ReportError.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap returns r as an error, or nil if r is nil.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for the given phase/code/message, with Schema filled
// in. Use the With* helpers to attach a span, data, or fix.
func New(phase, code, message string) *Report {
	return &Report{Schema: Schema, Phase: phase, Code: code, Message: message}
}

func (r *Report) WithSpan(span ast.Span) *Report {
	r.Span = &span
	return r
}

func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ToJSON renders the report deterministically; encoding/json sorts map keys
// by default, which is sufficient here since Data has no nested ordering
// requirement beyond that — no ecosystem JSON library does anything more
// for a single fixed-shape struct like this one.
func (r *Report) ToJSON(indent bool) (string, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
