package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with wallet-specific ones
type AccessClaims struct {
	jwt.RegisteredClaims
	ChainType   string `json:"chain"`
	ChallengeAt int64  `json:"cat"` // signed-at of the backing challenge, epoch ms
}
