package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accepted form of date query parameters.
const DateLayout = "2006-01-02"

// Query collects typed query parameters and the problems found while parsing them.
// Absent parameters yield nil pointers.
type Query struct {
	r    *http.Request
	errs []string
}

// NewQuery wraps the request's query string.
func NewQuery(r *http.Request) *Query {
	return &Query{r: r}
}

func (q *Query) raw(name string) (string, bool) {
	values := q.r.URL.Query()
	if !values.Has(name) {
		return "", false
	}
	return strings.TrimSpace(values.Get(name)), true
}

// Int64 parses a positive integer parameter.
func (q *Query) Int64(name string) *int64 {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		q.errs = append(q.errs, fmt.Sprintf("%s must be a positive integer", name))
		return nil
	}
	return &v
}

// String returns a non-empty parameter.
func (q *Query) String(name string) *string {
	s, ok := q.raw(name)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Date parses a YYYY-MM-DD parameter as a UTC date.
func (q *Query) Date(name string) *time.Time {
	s, ok := q.raw(name)
	if !ok {
		return nil
	}
	v, err := time.Parse(DateLayout, s)
	if err != nil {
		q.errs = append(q.errs, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name))
		return nil
	}
	return &v
}

// Bool parses a boolean parameter; absent means false.
func (q *Query) Bool(name string) bool {
	s, ok := q.raw(name)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.errs = append(q.errs, fmt.Sprintf("%s must be a boolean", name))
		return false
	}
	return v
}

// Errs returns the parse problems so far.
func (q *Query) Errs() []string {
	return q.errs
}

// PathInt64 parses a positive integer path value.
func PathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

// RequireID reads a mandatory ?id= parameter. On failure it writes a 400 and returns false.
func RequireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	q := NewQuery(r)
	id := q.Int64("id")
	if len(q.Errs()) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(q.Errs(), "; "))
		return 0, false
	}
	if id == nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "id is required")
		return 0, false
	}
	return *id, true
}
