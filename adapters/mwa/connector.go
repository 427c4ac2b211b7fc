package mwa

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// DefaultCluster is the cluster requested during authorization
const DefaultCluster = "mainnet-beta"

// Connector connects Solana wallets through the mobile wallet adapter (MWA) transact scope
type Connector struct {
	transactor ports.Transactor
	linker     ports.Linker
	prompter   ports.Prompter
	identity   ports.AppIdentity
	cluster    string
	logger     *zap.Logger
}

// NewConnector creates a Solana connector
func NewConnector(transactor ports.Transactor, linker ports.Linker, prompter ports.Prompter, identity ports.AppIdentity, cluster string, logger *zap.Logger) *Connector {
	if cluster == "" {
		cluster = DefaultCluster
	}
	return &Connector{
		transactor: transactor,
		linker:     linker,
		prompter:   prompter,
		identity:   identity,
		cluster:    cluster,
		logger:     logger,
	}
}

var (
	_ ports.Connector         = (*Connector)(nil)
	_ ports.TransactionSigner = (*Connector)(nil)
)

// Connect authorizes the app with a co-resident wallet and returns its first account
func (c *Connector) Connect(ctx context.Context, walletType core.WalletType) (core.Account, error) {
	info, ok := core.LookupWallet(walletType)
	if !ok || info.ChainType != core.ChainSolana {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrUnknownWallet, walletType)
	}

	if !c.walletInstalled(ctx) {
		c.prompter.PromptInstall(ctx, info)
		return core.Account{}, fmt.Errorf("%w: no Solana wallet found", core.ErrWalletNotInstalled)
	}

	var auth ports.Authorization
	err := c.transactor.Transact(ctx, func(ctx context.Context, wallet ports.MobileWallet) error {
		var err error
		auth, err = wallet.Authorize(ctx, c.cluster, c.identity)
		return err
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("authorization failed: %w", err)
	}

	if len(auth.Accounts) == 0 {
		return core.Account{}, core.ErrNoAccount
	}
	raw := auth.Accounts[0].Address
	if len(raw) != solana.PublicKeyLength {
		return core.Account{}, fmt.Errorf("%w: public key has %d bytes", core.ErrInvalidAddress, len(raw))
	}

	return core.Account{
		Address:    solana.PublicKeyFromBytes(raw).String(),
		ChainType:  core.ChainSolana,
		WalletType: walletType,
		AuthToken:  auth.AuthToken,
	}, nil
}

// SignMessage reauthorizes with the stored token and signs the UTF-8 bytes of message.
// The rotated token is returned even if the signing step fails.
func (c *Connector) SignMessage(ctx context.Context, account core.Account, message string) (ports.SignResult, error) {
	if account.AuthToken == "" {
		return ports.SignResult{}, core.ErrNoProvider
	}

	var (
		result    ports.SignResult
		signature []byte
	)
	err := c.transactor.Transact(ctx, func(ctx context.Context, wallet ports.MobileWallet) error {
		token, err := c.reauthorize(ctx, wallet, account.AuthToken)
		if err != nil {
			return err
		}
		result.AuthToken = token

		signatures, err := wallet.SignMessages(ctx, []string{account.Address}, [][]byte{[]byte(message)})
		if err != nil {
			return fmt.Errorf("sign messages: %w", err)
		}
		if len(signatures) == 0 || len(signatures[0]) == 0 {
			return fmt.Errorf("%w: wallet returned no signature", core.ErrInvalidSignature)
		}
		signature = signatures[0]
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("signing failed: %w", err)
	}

	result.Signature = base58.Encode(signature)
	return result, nil
}

// SignTransaction reauthorizes and asks the wallet to sign tx. It returns the signed transaction
// and the rotated auth token.
func (c *Connector) SignTransaction(ctx context.Context, account core.Account, tx *solana.Transaction) (*solana.Transaction, string, error) {
	if account.AuthToken == "" {
		return nil, "", core.ErrNoProvider
	}
	if tx == nil {
		return nil, "", errors.New("transaction is required")
	}

	payload, err := encodeForSigning(tx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode transaction: %w", err)
	}

	var (
		rotated string
		signed  []byte
	)
	err = c.transactor.Transact(ctx, func(ctx context.Context, wallet ports.MobileWallet) error {
		token, err := c.reauthorize(ctx, wallet, account.AuthToken)
		if err != nil {
			return err
		}
		rotated = token

		out, err := wallet.SignTransactions(ctx, [][]byte{payload})
		if err != nil {
			return fmt.Errorf("sign transactions: %w", err)
		}
		if len(out) == 0 {
			return errors.New("wallet returned no transaction")
		}
		signed = out[0]
		return nil
	})
	if err != nil {
		return nil, rotated, fmt.Errorf("transaction signing failed: %w", err)
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signed))
	if err != nil {
		return nil, rotated, fmt.Errorf("failed to decode signed transaction: %w", err)
	}
	return decoded, rotated, nil
}

// Disconnect revokes the wallet authorization. Non-Solana accounts are ignored.
func (c *Connector) Disconnect(ctx context.Context, account core.Account) error {
	if account.ChainType != core.ChainSolana || account.AuthToken == "" {
		return nil
	}

	err := c.transactor.Transact(ctx, func(ctx context.Context, wallet ports.MobileWallet) error {
		return wallet.Deauthorize(ctx, account.AuthToken)
	})
	if err != nil {
		return fmt.Errorf("deauthorize failed: %w", err)
	}
	return nil
}

func (c *Connector) reauthorize(ctx context.Context, wallet ports.MobileWallet, authToken string) (string, error) {
	auth, err := wallet.Reauthorize(ctx, authToken, c.identity)
	if err != nil {
		return "", fmt.Errorf("reauthorize: %w", err)
	}
	if auth.AuthToken == "" {
		return "", errors.New("reauthorize: wallet returned no auth token")
	}
	return auth.AuthToken, nil
}

// encodeForSigning serializes tx with an empty slot for every required signature that is missing
func encodeForSigning(tx *solana.Transaction) ([]byte, error) {
	unsigned := *tx
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(unsigned.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		unsigned.Signatures = sigs
	}
	return unsigned.MarshalBinary()
}

// walletInstalled reports whether any known Solana wallet app can be opened
func (c *Connector) walletInstalled(ctx context.Context) bool {
	for _, w := range core.WalletsForChain(core.ChainSolana) {
		if w.Scheme == "" {
			continue
		}
		ok, err := c.linker.CanOpen(ctx, w.Scheme)
		if err != nil {
			c.logger.Debug("capability check failed", zap.String("scheme", w.Scheme), zap.Error(err))
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
