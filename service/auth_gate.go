package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

// DefaultAccessTTL is the lifetime of access tokens handed to UI collaborators
const DefaultAccessTTL = 5 * time.Minute

// SnapshotSource exposes the wallet state the gate derives from
type SnapshotSource interface {
	Snapshot() core.Snapshot
}

// AuthGate derives the authenticated status from the wallet session's signed challenge
type AuthGate struct {
	wallet    SnapshotSource
	tokenizer ports.Tokenizer
	accessTTL time.Duration
	now       func() time.Time
}

// NewAuthGate creates a new auth gate. tokenizer may be nil when access tokens are not needed.
func NewAuthGate(wallet SnapshotSource, tokenizer ports.Tokenizer, accessTTL time.Duration) *AuthGate {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &AuthGate{
		wallet:    wallet,
		tokenizer: tokenizer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Status reports whether the wallet holds an unexpired signed challenge
func (g *AuthGate) Status() core.AuthStatus {
	snap := g.wallet.Snapshot()
	return core.AuthStatus{
		Authenticated: snap.Challenge != nil && !snap.Challenge.Expired(g.now()),
		Address:       snap.Session.Address,
		ChainType:     snap.Session.ChainType,
	}
}

// IsAuthenticated is shorthand for Status().Authenticated
func (g *AuthGate) IsAuthenticated() bool {
	return g.Status().Authenticated
}

// IssueAccessToken mints an access token for the authenticated wallet
func (g *AuthGate) IssueAccessToken(ctx context.Context) (string, *core.Grant, error) {
	if g.tokenizer == nil {
		return "", nil, fmt.Errorf("%w: no tokenizer configured", core.ErrConfiguration)
	}

	snap := g.wallet.Snapshot()
	now := g.now()
	if snap.Challenge == nil || snap.Challenge.Expired(now) {
		return "", nil, core.ErrNotAuthenticated
	}

	grant := &core.Grant{
		ID:          uuid.New().String(),
		Address:     snap.Session.Address,
		ChainType:   snap.Session.ChainType,
		IssuedAt:    now,
		ExpiresAt:   now.Add(g.accessTTL),
		ChallengeAt: snap.Challenge.SignedTime(),
	}

	// The grant never outlives the challenge backing it
	if challengeExpiry := grant.ChallengeAt.Add(core.ChallengeValidity); challengeExpiry.Before(grant.ExpiresAt) {
		grant.ExpiresAt = challengeExpiry
	}

	token, err := g.tokenizer.GrantToAccessToken(grant)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return token, grant, nil
}

// ValidateAccessToken accepts a token only while the gate is authenticated for the same wallet
// and the same signed challenge; disconnecting or re-signing revokes earlier tokens.
func (g *AuthGate) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Grant, error) {
	if g.tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer configured", core.ErrConfiguration)
	}

	grant, err := g.tokenizer.AccessTokenToGrant(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if g.now().After(grant.ExpiresAt) {
		return nil, core.ErrTokenExpired
	}

	snap := g.wallet.Snapshot()
	if snap.Challenge == nil || snap.Challenge.Expired(g.now()) {
		return nil, core.ErrNotAuthenticated
	}
	if snap.Session.Address != grant.Address || !snap.Challenge.SignedTime().Equal(grant.ChallengeAt) {
		return nil, core.ErrNotAuthenticated
	}

	return grant, nil
}
