package core

// ChainType identifies the blockchain family a wallet session belongs to
type ChainType string

const (
	ChainEVM    ChainType = "evm"
	ChainSolana ChainType = "solana"
)

// WalletType identifies the wallet app or protocol that produced a session
type WalletType string

const (
	WalletMetaMask      WalletType = "metamask"
	WalletWalletConnect WalletType = "walletconnect"
	WalletCoinbase      WalletType = "coinbase"
	WalletPhantom       WalletType = "phantom"
	WalletSolflare      WalletType = "solflare"
)

// ConnectionStatus is the connection half of the wallet state machine
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// SigningStatus is the signing half of the wallet state machine
type SigningStatus string

const (
	SigningIdle   SigningStatus = "idle"
	SigningActive SigningStatus = "signing"
)

// WalletSession is the observable wallet state. Empty strings mean "not set".
type WalletSession struct {
	Address          string           `json:"address,omitempty"`
	ChainType        ChainType        `json:"chain_type,omitempty"`
	WalletType       WalletType       `json:"wallet_type,omitempty"`
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	SigningStatus    SigningStatus    `json:"signing_status"`
	LastError        string           `json:"last_error,omitempty"`
	AuthToken        string           `json:"-"` // Solana only
}

// DisconnectedSession returns the initial session state
func DisconnectedSession() WalletSession {
	return WalletSession{
		ConnectionStatus: StatusDisconnected,
		SigningStatus:    SigningIdle,
	}
}

// Account is the identity produced by a successful connector handshake
type Account struct {
	Address    string
	ChainType  ChainType
	WalletType WalletType
	AuthToken  string
}

// Account returns the identity fields of the session
func (s WalletSession) Account() Account {
	return Account{
		Address:    s.Address,
		ChainType:  s.ChainType,
		WalletType: s.WalletType,
		AuthToken:  s.AuthToken,
	}
}

// Snapshot is a read-only copy of the wallet state handed to consumers
type Snapshot struct {
	Session   WalletSession    `json:"session"`
	Challenge *SignedChallenge `json:"challenge,omitempty"`
	Restoring bool             `json:"restoring"`
}

// AuthStatus is what the navigation layer needs to route between auth and mail screens
type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	Address       string    `json:"address,omitempty"`
	ChainType     ChainType `json:"chain_type,omitempty"`
}
