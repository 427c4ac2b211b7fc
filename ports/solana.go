package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/layer-3/signa/core"
)

// AppIdentity is how the app presents itself to a mobile wallet
type AppIdentity struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
	Icon string `json:"icon"`
}

// AuthorizedAccount is an account granted by the wallet. Address holds the raw public key bytes.
type AuthorizedAccount struct {
	Address []byte
	Label   string
}

// Authorization is the result of authorize and reauthorize calls
type Authorization struct {
	AuthToken     string
	Accounts      []AuthorizedAccount
	WalletURIBase string
}

// MobileWallet is the wallet handle available inside a transact scope
type MobileWallet interface {
	Authorize(ctx context.Context, cluster string, identity AppIdentity) (Authorization, error)
	Reauthorize(ctx context.Context, authToken string, identity AppIdentity) (Authorization, error)
	Deauthorize(ctx context.Context, authToken string) error
	SignMessages(ctx context.Context, addresses []string, payloads [][]byte) ([][]byte, error)
	SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error)
}

// Transactor opens a scoped session with the co-resident wallet app
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context, wallet MobileWallet) error) error
}

// TransactionSigner is implemented by connectors that can sign chain transactions
type TransactionSigner interface {
	SignTransaction(ctx context.Context, account core.Account, tx *solana.Transaction) (*solana.Transaction, string, error)
}
