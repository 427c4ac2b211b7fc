package core

import "time"

// Grant is an access grant handed to UI collaborators while the wallet is authenticated
type Grant struct {
	ID          string    // Unique grant identifier
	Address     string    // Wallet address the grant was issued for
	ChainType   ChainType // Chain of the address
	IssuedAt    time.Time // When the grant was created
	ExpiresAt   time.Time // When the grant stops being accepted
	ChallengeAt time.Time // When the backing challenge was signed
}
