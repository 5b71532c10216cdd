package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"go.uber.org/zap"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.Warn("failed to write JSON response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// repoError maps a repository failure to a status code and logs unexpected ones.
func repoError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		http.Error(w, msg+": slug or id already used", http.StatusConflict)
	case errors.Is(err, repo.ErrReadOnly):
		http.Error(w, "catalog is read-only in this mode", http.StatusNotImplemented)
	default:
		logger.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

// catalogWriter returns the write side of the configured repository, or ErrReadOnly.
func catalogWriter() (repo.CatalogWriter, error) {
	if w, ok := catalogRepo.(repo.CatalogWriter); ok {
		return w, nil
	}
	return nil, repo.ErrReadOnly
}
