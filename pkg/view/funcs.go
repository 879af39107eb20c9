package view

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	ugcPolicy = bluemonday.UGCPolicy()
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func builtinFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"sanitize": Sanitize,
		"dict":     Dict,
	}
}

// Markdown renders GitHub flavored markdown and strips unsafe HTML from
// the result.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// Sanitize keeps the user-content-safe subset of HTML in s.
func Sanitize(s string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(s)) //nolint:gosec // sanitized
}

// Dict builds a map from alternating keys and values, for passing several
// values into a nested template.
func Dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("view: dict expects key/value pairs")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("view: dict keys must be strings")
		}
		m[key] = kv[i+1]
	}
	return m, nil
}
