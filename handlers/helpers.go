package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/galera-volei/galera-system/domain"
	"github.com/galera-volei/galera-system/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
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
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // programmer error: dst is not a pointer
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
	js, err := json.Marshal(data)
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

// errorResponse writes the error envelope: a human message plus the
// machine code the client maps back onto the domain sentinels.
func errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message interface{}) {
	env := jsonResponse{"error": message}
	if code != "" {
		env["code"] = code
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", slog.String("path", r.URL.Path), slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, "", message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, domain.CodeValidation, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, domain.CodeNotFound, "the requested resource could not be found")
}

// mapServiceErrorToHTTP translates service-layer errors into HTTP
// responses. Every domain rejection is recoverable and carries its
// category code; only unplanned errors fall through to a 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials):
		errorResponse(w, r, http.StatusUnauthorized, domain.CodeUnauthenticated, err.Error())

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, services.ErrOrganizerCannotLeave):
		errorResponse(w, r, http.StatusForbidden, domain.CodeForbidden, err.Error())

	case errors.Is(err, domain.ErrNotEligible):
		errorResponse(w, r, http.StatusForbidden, domain.CodeEligibility, err.Error())

	case errors.Is(err, domain.ErrMatchFull):
		errorResponse(w, r, http.StatusConflict, domain.CodeCapacity, err.Error())

	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, services.ErrAlreadyParticipant),
		errors.Is(err, services.ErrNotParticipant):
		errorResponse(w, r, http.StatusConflict, domain.CodeState, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvitePending):
		errorResponse(w, r, http.StatusConflict, domain.CodeValidation, err.Error())

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidWinner),
		errors.Is(err, services.ErrInviteSelf),
		errors.Is(err, services.ErrRecipientIneligible):
		errorResponse(w, r, http.StatusUnprocessableEntity, domain.CodeValidation, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
