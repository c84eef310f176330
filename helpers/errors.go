package helpers

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zynerotech/apiserver/logger"
	"github.com/zynerotech/apiserver/response"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// Failure is one of StringMessage, CapturedException or StructuredError.
// The variant is chosen where the failure is raised.
type Failure interface {
	failure()
}

// StringMessage is a client-facing message for a bad request.
type StringMessage string

// CapturedException wraps an unexpected error. Its text is logged, never sent.
type CapturedException struct {
	Err    error
	Errors any
}

// StructuredError carries its own status, message and payload.
type StructuredError struct {
	Status  response.Code
	Message string
	Data    any
	Errors  any
}

func (StringMessage) failure()     {}
func (CapturedException) failure() {}
func (StructuredError) failure()   {}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NormalizedError is the result of LogErrors.
type NormalizedError struct {
	Status  response.Code `json:"status"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
	Errors  any           `json:"errors,omitempty"`
}

// Envelope converts n into an error envelope. Errors are sent as data when
// no data is set.
func (n NormalizedError) Envelope() response.Envelope {
	data := n.Data
	if data == nil && n.Errors != nil {
		data = map[string]any{"errors": n.Errors}
	}
	return response.Error(n.Status, n.Message, data)
}

// FromError picks the Failure variant for err. Identifier errors become bad
// requests with a fixed message, the offending value stays in the log written
// by GetValidObjectID. Duplicate-key errors from either driver become 409s.
func FromError(err error) Failure {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidSessionID) {
		return StringMessage(response.MessageInvalidSessionID)
	}
	if errors.Is(err, ErrInvalidIdentifier) {
		return StringMessage(response.MessageInvalidIdentifier)
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var pgErr *pgconn.PgError
	if mongo.IsDuplicateKeyError(err) || (errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation) {
		return &StructuredError{Status: response.StatusDuplicateRecord, Message: response.MessageDuplicateRecord}
	}

	return CapturedException{Err: err}
}

// LogErrors logs f and normalizes it. It never panics.
func LogErrors(f Failure, defaultMessage string) NormalizedError {
	log := logger.GetGlobal()

	out := NormalizedError{
		Status:  response.StatusInternalServerError,
		Message: defaultMessage,
	}
	if out.Message == "" {
		out.Message = response.MessageUnexpectedError
	}

	switch f := f.(type) {
	case StringMessage:
		out.Status = response.StatusBadRequest
		out.Message = string(f)
		log.Error().Msg(string(f))
	case CapturedException:
		if f.Err != nil {
			log.Error().Msg(f.Err.Error())
			if detail := fmt.Sprintf("%+v", f.Err); detail != f.Err.Error() {
				log.Error().Msg(detail)
			}
		} else {
			log.Error().Msg(out.Message)
		}
		out.Errors = f.Errors
	case *StructuredError:
		if f == nil {
			log.Error().Msg(out.Message)
			break
		}
		applyStructured(&out, *f)
		log.Error().Msg(out.Message)
	case StructuredError:
		applyStructured(&out, f)
		log.Error().Msg(out.Message)
	default:
		log.Error().Msg(out.Message)
		log.Error().Msgf("%v", f)
	}

	return out
}

func applyStructured(out *NormalizedError, f StructuredError) {
	if f.Status != 0 {
		out.Status = f.Status
	}
	if f.Message != "" {
		out.Message = f.Message
	}
	out.Data = f.Data
	out.Errors = f.Errors
}
