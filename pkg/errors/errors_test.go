package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "precondition",
			code:    errors.ErrPrecondition,
			message: "claude CLI not found",
			wantStr: "[PRECONDITION] claude CLI not found",
		},
		{
			name:    "verification",
			code:    errors.ErrVerification,
			message: "plugin not installed",
			wantStr: "[VERIFICATION] plugin not installed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("permission denied")

	err := errors.Wrapf(base, errors.ErrSymlinkCreate, "linking %s", "rules/a.md")
	require.NotNil(t, err)
	assert.Equal(t, "[SYMLINK_CREATE] linking rules/a.md: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
}

func TestIsErrorCode_ThroughFmtWrapping(t *testing.T) {
	inner := errors.New(errors.ErrUserDeclined, "skipped")
	outer := fmt.Errorf("artifact rule:a.md: %w", inner)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrUserDeclined))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrPrecondition))
	assert.Equal(t, errors.ErrUserDeclined, errors.GetErrorCode(outer))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := errors.New(errors.ErrPrecondition, "unsupported OS").WithDetail("os", "windows")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrPrecondition, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrVerification, "")))
	assert.Equal(t, "windows", errors.GetErrorDetails(err)["os"])
}

func TestIsFatal(t *testing.T) {
	assert.False(t, errors.IsFatal(nil))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrUserDeclined, "no")))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrSoftWarning, "already registered")))
	assert.True(t, errors.IsFatal(errors.New(errors.ErrPrecondition, "missing cli")))
	assert.True(t, errors.IsFatal(stderrors.New("unclassified")))
}
