package ports

import "github.com/layer-3/signa/core"

// Tokenizer converts between access grants and bearer tokens
type Tokenizer interface {
	GrantToAccessToken(grant *core.Grant) (string, error)
	AccessTokenToGrant(token string) (*core.Grant, error)
}
