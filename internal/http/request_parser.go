// Package http serves the expense API over JSON.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spendlog/internal/core"
)

// maxBodyBytes bounds request bodies read by RequestBodyParser.
const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

// RequestBodyParser reads a request body once and exposes its fields whether
// it was sent as JSON or as form data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if p.err == nil && len(p.body) > maxBodyBytes {
			p.err = errMalformedBody
		}
	}
	return p
}

// Parse decodes the body. JSON is assumed when the content type says so or
// the body starts with '{'; anything else is parsed as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.Contains(p.contentType, "application/json") || trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil || p.jsonData == nil {
			p.err = errMalformedBody
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	if p.err != nil {
		p.err = errMalformedBody
	}
	return p.err
}

// Lookup returns the value of key and whether it was supplied. A JSON null
// counts as not supplied.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	if p.jsonData != nil {
		val, ok := p.jsonData[key]
		if !ok || val == nil {
			return "", false
		}
		return sanitizeInput(stringValue(val)), true
	}
	if p.formData != nil {
		if _, ok := p.formData[key]; !ok {
			return "", false
		}
		return sanitizeInput(p.formData.Get(key)), true
	}
	return "", false
}

// ExpenseInput collects the record fields present in the body.
func (p *RequestBodyParser) ExpenseInput() core.ExpenseInput {
	field := func(key string) *string {
		if v, ok := p.Lookup(key); ok {
			return &v
		}
		return nil
	}
	return core.ExpenseInput{
		Amount:   field("amount"),
		Date:     field("date"),
		Note:     field("note"),
		Category: field("category"),
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		// Objects and arrays are never valid field values; keep them
		// visible so validation reports them.
		b, _ := json.Marshal(val)
		return string(b)
	}
}
