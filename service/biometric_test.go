package service

import (
	"context"
	"errors"
	"testing"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type signerFunc func(ctx context.Context, message string) (*core.SignedChallenge, error)

func (f signerFunc) SignMessage(ctx context.Context, message string) (*core.SignedChallenge, error) {
	return f(ctx, message)
}

func TestGuardedSigner(t *testing.T) {
	ctx := context.Background()
	calls := 0
	signer := signerFunc(func(ctx context.Context, message string) (*core.SignedChallenge, error) {
		calls++
		return &core.SignedChallenge{Signature: "0xsig", Message: message}, nil
	})

	t.Run("not required", func(t *testing.T) {
		bio := new(mocks.Biometrics)
		bio.On("ShouldRequireBiometrics").Return(false).Once()

		challenge, err := NewGuardedSigner(signer, bio).SignMessage(ctx, "m")
		require.NoError(t, err)
		assert.Equal(t, "0xsig", challenge.Signature)
		bio.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("approved", func(t *testing.T) {
		bio := new(mocks.Biometrics)
		bio.On("ShouldRequireBiometrics").Return(true).Once()
		bio.On("Authenticate", mock.Anything, mock.Anything).Return(true, nil).Once()

		_, err := NewGuardedSigner(signer, bio).SignMessage(ctx, "m")
		require.NoError(t, err)
		bio.AssertExpectations(t)
	})

	t.Run("denied", func(t *testing.T) {
		before := calls
		bio := new(mocks.Biometrics)
		bio.On("ShouldRequireBiometrics").Return(true).Once()
		bio.On("Authenticate", mock.Anything, mock.Anything).Return(false, nil).Once()

		_, err := NewGuardedSigner(signer, bio).SignMessage(ctx, "m")
		assert.ErrorIs(t, err, core.ErrBiometricDenied)
		assert.Equal(t, before, calls)
	})

	t.Run("sensor error", func(t *testing.T) {
		bio := new(mocks.Biometrics)
		bio.On("ShouldRequireBiometrics").Return(true).Once()
		bio.On("Authenticate", mock.Anything, mock.Anything).Return(false, errors.New("lockout")).Once()

		_, err := NewGuardedSigner(signer, bio).SignMessage(ctx, "m")
		assert.ErrorIs(t, err, core.ErrBiometricDenied)
	})

	t.Run("nil biometrics", func(t *testing.T) {
		_, err := NewGuardedSigner(signer, nil).SignMessage(ctx, "m")
		require.NoError(t, err)
	})
}
