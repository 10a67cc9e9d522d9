package errors

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionNotFound(t *testing.T) {
	id := uuid.Must(uuid.FromString("4d8c6b36-4e9b-4469-8a05-2c60b9671590"))
	err := &SessionNotFoundError{UUID: id}
	msg := `session "4d8c6b36-4e9b-4469-8a05-2c60b9671590" not found`
	assert.Equal(t, msg, err.Error())
}

func TestNotFoundSession(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	tests := []struct {
		name     string
		err      error
		wantOK   bool
		wantUUID uuid.UUID
	}{
		{
			name:     "session not found",
			err:      &SessionNotFoundError{UUID: id},
			wantOK:   true,
			wantUUID: id,
		},
		{
			name:     "wrapped session not found",
			err:      fmtWrap(&SessionNotFoundError{UUID: id}),
			wantOK:   true,
			wantUUID: id,
		},
		{
			name:     "random error",
			err:      New("err"),
			wantOK:   false,
			wantUUID: uuid.Nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			id, ok := NotFoundSession(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUUID, id)
		})
	}
}
