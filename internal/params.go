package internal

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

// Form size limits.
const (
	maxMultipartMemory = 32 << 20
	maxFormBody        = 10 << 20
)

// Params holds the merged parameters of one request. Route parameters act
// as defaults and query or form parameters override them on collision.
// Params is built once per controller and never mutated afterwards.
type Params struct {
	values url.Values
}

// NewParams merges route parameters with request parameters.
func NewParams(route map[string]string, request url.Values) Params {
	values := make(url.Values, len(route)+len(request))
	for k, v := range route {
		values[k] = []string{v}
	}
	for k, vv := range request {
		values[k] = slices.Clone(vv)
	}
	return Params{values: values}
}

// ParseRequestParams returns the query and form body parameters of r.
// Body values precede query values, so they win in Params.Get. Unlike
// http.Request.ParseForm, urlencoded bodies are read for every method.
func ParseRequestParams(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	if ct != "application/x-www-form-urlencoded" || r.Body == nil {
		return r.Form, nil
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.Form, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBody+1))
	if err != nil {
		return nil, fmt.Errorf("read form body: %w", err)
	}
	if len(body) > maxFormBody {
		return nil, errors.New("parse form: body too large")
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	for k, vv := range values {
		r.Form[k] = append(vv, r.Form[k]...)
	}
	return r.Form, nil
}

// Get returns the first value for key, or "" if there is none.
func (p Params) Get(key string) string {
	return p.values.Get(key)
}

// Values returns all values for key.
func (p Params) Values(key string) []string {
	return slices.Clone(p.values[key])
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	return p.values.Has(key)
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of distinct parameter names.
func (p Params) Len() int {
	return len(p.values)
}

// Param returns the parameter converted to T, or T's zero value when the
// parameter is missing or does not parse.
func Param[T string | int | int64 | float64 | bool](p Params, key string) T {
	v, _ := convertParam[T](p.Get(key))
	return v
}

// ParamDefault returns the parameter converted to T.
// Returns def if the parameter is empty or cannot be parsed.
func ParamDefault[T string | int | int64 | float64 | bool](p Params, key string, def T) T {
	raw := p.Get(key)
	if raw == "" {
		return def
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return def
	}
	return v
}

func convertParam[T string | int | int64 | float64 | bool](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
