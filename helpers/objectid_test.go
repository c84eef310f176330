package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const validHex = "507f1f77bcf86cd799439011"

func TestGetValidObjectID(t *testing.T) {
	captureLog(t)

	id, err := GetValidObjectID(validHex)
	require.NoError(t, err)
	assert.Equal(t, validHex, id.Hex())

	native := primitive.NewObjectID()
	got, err := GetValidObjectID(native)
	require.NoError(t, err)
	assert.Equal(t, native, got)
}

func TestGetValidObjectIDInvalid(t *testing.T) {
	buf := captureLog(t)

	for _, in := range []any{"not-an-id", "", nil, 42, validHex[:23]} {
		_, err := GetValidObjectID(in)
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	}
	assert.Contains(t, buf.String(), "not-an-id")
}

func TestGetValidObjectIDs(t *testing.T) {
	captureLog(t)

	ids, err := GetValidObjectIDs([]any{validHex, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	_, err = GetValidObjectIDs([]any{validHex, "bad"})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestGetSessionID(t *testing.T) {
	buf := captureLog(t)

	sid, err := GetSessionID(validHex, 1700000000)
	require.NoError(t, err)
	assert.Equal(t, validHex+"1700000000", sid)

	at := time.UnixMilli(1700000000123)
	sid, err = GetSessionID(validHex, at)
	require.NoError(t, err)
	assert.Equal(t, validHex+"1700000000123", sid)

	_, err = GetSessionID("zzz", 1)
	assert.ErrorIs(t, err, ErrInvalidSessionID)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	assert.Contains(t, buf.String(), "zzz")
}

func TestIsUpdated(t *testing.T) {
	assert.False(t, IsUpdated(nil))
	assert.False(t, IsUpdated(&mongo.UpdateResult{}))
	assert.True(t, IsUpdated(&mongo.UpdateResult{MatchedCount: 1}))
	assert.True(t, IsUpdated(&mongo.UpdateResult{UpsertedCount: 1}))
}
