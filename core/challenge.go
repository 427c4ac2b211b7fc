package core

import "time"

// ChallengeValidity is how long a signed challenge keeps a session authenticated
const ChallengeValidity = 24 * time.Hour

// SignedChallenge is the proof of wallet ownership produced by signing a challenge message
type SignedChallenge struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
	SignedAt  int64  `json:"timestamp"` // epoch milliseconds
}

// SignedTime returns SignedAt as a time.Time
func (c SignedChallenge) SignedTime() time.Time {
	return time.UnixMilli(c.SignedAt)
}

// Expired reports whether the challenge is outside the validity window at now
func (c SignedChallenge) Expired(now time.Time) bool {
	return now.Sub(c.SignedTime()) >= ChallengeValidity
}
