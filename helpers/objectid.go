package helpers

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zynerotech/apiserver/response"
)

var (
	// ErrInvalidIdentifier is returned when a value is not a 24-character hex ObjectID.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidSessionID is returned by GetSessionID. It matches ErrInvalidIdentifier.
	ErrInvalidSessionID = fmt.Errorf("%w: invalid session id", ErrInvalidIdentifier)
)

func objectIDString(v any) (string, bool) {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex(), true
	case *primitive.ObjectID:
		if x == nil {
			return "", false
		}
		return x.Hex(), true
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

// IsValidObjectID reports whether v is a non-empty ObjectID or its hex form.
func IsValidObjectID(v any) bool {
	if IsEmpty(v) {
		return false
	}
	s, ok := objectIDString(v)
	return ok && primitive.IsValidObjectID(s)
}

// GetValidObjectID converts v into a native ObjectID. Invalid input is logged
// and reported as ErrInvalidIdentifier.
func GetValidObjectID(v any) (primitive.ObjectID, error) {
	if !IsValidObjectID(v) {
		LogErrors(CapturedException{Err: fmt.Errorf("%s%v", response.MessageInvalidIdentifier, v)}, "")
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidIdentifier, v)
	}

	s, _ := objectIDString(v)
	return primitive.ObjectIDFromHex(s)
}

// GetValidObjectIDs converts every element with GetValidObjectID and stops at
// the first invalid one.
func GetValidObjectIDs(values []any) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, err := GetValidObjectID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetSessionID joins a valid identifier with a timestamp-like value.
// time.Time values contribute their Unix milliseconds.
func GetSessionID(id, ctime any) (string, error) {
	if !IsValidObjectID(id) {
		LogErrors(CapturedException{Err: fmt.Errorf("%s%v", response.MessageInvalidSessionID, id)}, "")
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionID, id)
	}

	s, _ := objectIDString(id)
	return s + stringify(ctime), nil
}

// IsUpdated reports whether an update matched or upserted a document.
func IsUpdated(res *mongo.UpdateResult) bool {
	return res != nil && (res.MatchedCount > 0 || res.UpsertedCount > 0)
}
