package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrTooManyGames  = errors.New("too many games")
	ErrGetGames      = errors.New("failed to get games")
	ErrGetGame       = errors.New("failed to get game")
	ErrGameWiki      = errors.New("failed to get game wiki")
	ErrParsing       = errors.New("failed to parse document")
	ErrPartialCreate = errors.New("partial failure in create")
	ErrCreate        = errors.New("failed to create")
	ErrUpdate        = errors.New("failed to update")
	ErrDelete        = errors.New("failed to delete")
	ErrEncoding      = errors.New("failed to encode")
)

const dateLayout = "2006-01-02"

func respondJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// parseDateParam reads an optional yyyy-mm-dd query value; a malformed value
// reads as absent rather than failing the whole request.
func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
