package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("не удалось сохранить отчёт", cause)

	assert.ErrorIs(t, err, cause)

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "не удалось сохранить отчёт", ue.UserMessage)
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	err := SetupLogger("loud", "console")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, SetupLogger("debug", "json"))
	require.NoError(t, SetupLogger("", ""))
}
