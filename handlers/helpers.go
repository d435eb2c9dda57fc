package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-live/brackets"
	"github.com/Dosada05/bracket-live/repositories"
	"github.com/Dosada05/bracket-live/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

// Error kinds reported to websocket clients and in HTTP error bodies.
const (
	kindBadRequest  = "bad_request"
	kindValidation  = "validation"
	kindNotFound    = "not_found"
	kindConflict    = "conflict"
	kindUnavailable = "unavailable"
	kindInternal    = "internal"
)

const maxBodyBytes = 1_048_576

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))
	return decodeJSON(r.Body, dst)
}

// decodeJSON decodes exactly one JSON value from body into dst, rejecting
// unknown fields.
func decodeJSON(body io.Reader, dst interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, kind string, message interface{}) {
	env := jsonResponse{"error": message, "kind": kind}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Default().Error("failed to write error response",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Default().Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, kindInternal, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, kindBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, kindNotFound, message)
}

// classifyError maps a service or bracket error to an HTTP status and an
// error kind. Unknown errors are internal.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, brackets.ErrInvalidWinner),
		errors.Is(err, brackets.ErrInvalidEntrantList):
		return http.StatusUnprocessableEntity, kindValidation

	case errors.Is(err, services.ErrPlayerNameRequired),
		errors.Is(err, services.ErrPlayerNameReserved),
		errors.Is(err, services.ErrTooManyPlayers),
		errors.Is(err, services.ErrNotEnoughPlayers),
		errors.Is(err, repositories.ErrEventRunIDInvalid):
		return http.StatusBadRequest, kindBadRequest

	case errors.Is(err, brackets.ErrInvalidMatchAddress),
		errors.Is(err, services.ErrPlayerNotFound):
		return http.StatusNotFound, kindNotFound

	case errors.Is(err, services.ErrTournamentAlreadyStarted),
		errors.Is(err, services.ErrTournamentNotStarted),
		errors.Is(err, services.ErrPlayerNameConflict),
		errors.Is(err, brackets.ErrImmutableByeMatch):
		return http.StatusConflict, kindConflict

	case errors.Is(err, services.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable, kindUnavailable
	}
	return http.StatusInternalServerError, kindInternal
}

// mapServiceErrorToHTTP writes the response for an error returned by the
// tournament service.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classifyError(err)
	if status == http.StatusInternalServerError {
		serverErrorResponse(w, r, err)
		return
	}
	errorResponse(w, r, status, kind, err.Error())
}

// getIndexFromURL reads an integer path parameter. Range checks are left to
// the bracket so that every bad address gets the same error.
func getIndexFromURL(r *http.Request, paramName string) (int, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, raw)
	}
	return v, nil
}

// NotFoundHandler answers unknown routes with the JSON error body.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	notFoundResponse(w, r)
}
