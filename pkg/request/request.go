// Package request holds small helpers for reading path params, query strings
// and JSON bodies in handlers.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidBody = errors.New("invalid request body")
)

// UUIDParam reads a chi URL param and checks it is a UUID. The canonical
// lowercase form is returned.
func UUIDParam(r *http.Request, name string) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

// ValidUUID reports whether s is a UUID
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// DecodeJSON decodes the request body into v. An empty body is an error.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// Pagination reads limit and offset query params. Missing or invalid values
// fall back to defaultLimit and 0; limit is capped at maxLimit.
func Pagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
