package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check their own fields.
// An empty result means the body is acceptable.
type Validator interface {
	Validate() []string
}

// decodeBody decodes exactly one JSON value into dest, refusing unknown fields and trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &tooLarge):
			return errors.New("request body is too large")
		default:
			return err
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// DecodeAndValidate decodes the body into dest and runs dest.Validate when dest is a Validator.
// On failure it writes a 400 bad_request envelope and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := decodeBody(w, r, dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if problems := v.Validate(); len(problems) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
			return false
		}
	}
	return true
}
