package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"go.uber.org/zap"
)

// DefaultOperationTimeout bounds a single connect or sign round trip with an external wallet
const DefaultOperationTimeout = 2 * time.Minute

// WalletService owns the live wallet session and drives it through
// connect, sign, restore and disconnect across the chain connectors.
type WalletService struct {
	store      *SessionStore
	connectors map[core.ChainType]ports.Connector
	challenges *ChallengeGenerator
	events     ports.EventPublisher
	verifier   ports.SignatureVerifier
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	mu        sync.Mutex
	session   core.WalletSession
	challenge *core.SignedChallenge
	restoring bool
	busy      bool
	epoch     uint64
	cancel    context.CancelFunc
}

// Option configures a WalletService
type Option func(*WalletService)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *WalletService) { s.logger = logger }
}

// WithEventPublisher publishes lifecycle events through publisher
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *WalletService) { s.events = publisher }
}

// WithVerifier rejects signatures that do not verify against the session address
func WithVerifier(verifier ports.SignatureVerifier) Option {
	return func(s *WalletService) { s.verifier = verifier }
}

// WithOperationTimeout bounds connect and sign calls. Zero disables the timeout.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(s *WalletService) { s.timeout = timeout }
}

// WithChallengeGenerator replaces the default challenge generator
func WithChallengeGenerator(generator *ChallengeGenerator) Option {
	return func(s *WalletService) { s.challenges = generator }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *WalletService) { s.now = now }
}

// NewWalletService creates a wallet service. The service reports Restoring until Restore has run.
func NewWalletService(store *SessionStore, connectors map[core.ChainType]ports.Connector, opts ...Option) *WalletService {
	s := &WalletService{
		store:      store,
		connectors: connectors,
		challenges: NewChallengeGenerator("Signa Email"),
		logger:     zap.NewNop(),
		timeout:    DefaultOperationTimeout,
		now:        time.Now,
		session:    core.DisconnectedSession(),
		restoring:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenWalletService creates a wallet service and restores the persisted session
func OpenWalletService(ctx context.Context, store *SessionStore, connectors map[core.ChainType]ports.Connector, opts ...Option) *WalletService {
	s := NewWalletService(store, connectors, opts...)
	s.Restore(ctx)
	return s
}

// Snapshot returns a copy of the current state
func (s *WalletService) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := core.Snapshot{
		Session:   s.session,
		Restoring: s.restoring,
	}
	if s.challenge != nil {
		c := *s.challenge
		snap.Challenge = &c
	}
	return snap
}

// GetSigningMessage returns a freshly generated challenge for the user to sign
func (s *WalletService) GetSigningMessage() (string, error) {
	return s.challenges.Generate()
}

// DismissError clears the last error shown to the user
func (s *WalletService) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.LastError = ""
}

// Restore loads the persisted wallet identity and challenge.
// No network validation happens here; the connector token is trusted until the next wallet call.
func (s *WalletService) Restore(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	restored, ok := s.restoreLocked(ctx)
	s.restoring = false
	s.mu.Unlock()

	if ok {
		s.publish(ctx, core.EventRestored, restored)
	}
}

func (s *WalletService) restoreLocked(ctx context.Context) (core.Account, bool) {
	if s.session.ConnectionStatus != core.StatusDisconnected {
		s.logger.Debug("skipping restore, wallet already active")
		return core.Account{}, false
	}

	account, err := s.store.LoadAccount(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.logger.Error("failed to load saved wallet", zap.Error(err))
		}
		s.dropChallengeLocked(ctx)
		return core.Account{}, false
	}

	if !restorable(account) {
		s.logger.Warn("discarding unusable saved wallet",
			zap.String("wallet", string(account.WalletType)),
			zap.String("chain", string(account.ChainType)))
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Error("failed to clear saved wallet", zap.Error(err))
		}
		return core.Account{}, false
	}

	s.session = connectedSession(account)

	challenge, err := s.store.LoadChallenge(ctx, s.now())
	switch {
	case err == nil:
		s.challenge = challenge
	case errors.Is(err, core.ErrNotFound):
		s.challenge = nil
	default:
		s.challenge = nil
		s.logger.Error("failed to load saved challenge", zap.Error(err))
	}

	s.logger.Info("wallet session restored",
		zap.String("address", account.Address),
		zap.String("wallet", string(account.WalletType)),
		zap.Bool("authenticated", s.challenge != nil))
	return account, true
}

func (s *WalletService) dropChallengeLocked(ctx context.Context) {
	if err := s.store.RemoveChallenge(ctx); err != nil {
		s.logger.Error("failed to remove orphaned challenge", zap.Error(err))
	}
}

// Connect connects the given wallet. It returns false with a nil error when the user cancelled
// or the wallet app is missing; other failures are returned and recorded as the session's LastError.
// ErrOperationInProgress and ErrAlreadyConnected leave the state untouched.
func (s *WalletService) Connect(ctx context.Context, walletType core.WalletType) (bool, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return false, core.ErrOperationInProgress
	}
	info, ok := core.LookupWallet(walletType)
	connector := s.connectors[info.ChainType]
	if !ok || connector == nil {
		err := fmt.Errorf("%w: %s", core.ErrUnknownWallet, walletType)
		s.session.LastError = err.Error()
		s.mu.Unlock()
		return false, err
	}
	if s.session.ConnectionStatus == core.StatusConnected {
		s.mu.Unlock()
		return false, core.ErrAlreadyConnected
	}
	s.session = core.DisconnectedSession()
	s.session.ConnectionStatus = core.StatusConnecting
	s.session.WalletType = walletType
	opCtx, epoch := s.beginLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("connecting wallet", zap.String("wallet", string(walletType)))
	account, err := connector.Connect(opCtx, walletType)
	timedOut := errors.Is(opCtx.Err(), context.DeadlineExceeded)
	if err == nil && account.Address == "" {
		err = core.ErrNoAccount
	}

	persistCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	if !s.finishLocked(epoch) {
		s.mu.Unlock()
		s.logger.Info("connect superseded by disconnect", zap.String("wallet", string(walletType)))
		if err == nil {
			if derr := connector.Disconnect(persistCtx, account); derr != nil {
				s.logger.Warn("failed to tear down superseded connection", zap.Error(derr))
			}
		}
		return false, nil
	}

	if err != nil {
		if timedOut {
			err = fmt.Errorf("%w: %w", core.ErrOperationTimeout, err)
		}
		s.session = core.DisconnectedSession()
		silent := !timedOut && (core.IsRejection(err) || errors.Is(err, core.ErrWalletNotInstalled))
		if !silent {
			s.session.LastError = err.Error()
		}
		s.mu.Unlock()

		if silent {
			s.logger.Info("wallet connection cancelled", zap.String("wallet", string(walletType)), zap.Error(err))
			return false, nil
		}
		s.logger.Warn("wallet connection failed", zap.String("wallet", string(walletType)), zap.Error(err))
		return false, err
	}

	account.ChainType = info.ChainType
	account.WalletType = walletType
	if info.ChainType != core.ChainSolana {
		account.AuthToken = ""
	}
	s.session = connectedSession(account)
	s.persistAccountLocked(persistCtx, account)
	s.mu.Unlock()

	s.logger.Info("wallet connected",
		zap.String("wallet", string(walletType)),
		zap.String("address", account.Address))
	s.publish(persistCtx, core.EventConnected, account)
	return true, nil
}

// SignMessage asks the connected wallet to sign message and stores the result as the session's
// signed challenge. Failures are returned and recorded as LastError; the session stays connected.
func (s *WalletService) SignMessage(ctx context.Context, message string) (*core.SignedChallenge, error) {
	opCtx, connector, account, epoch, err := s.beginSigning(ctx)
	if err != nil {
		return nil, err
	}

	result, err := connector.SignMessage(opCtx, account, message)
	if err == nil && s.verifier != nil {
		if verr := s.verifier.Verify(account.ChainType, account.Address, message, result.Signature); verr != nil {
			err = fmt.Errorf("signature verification failed: %w", verr)
		}
	}
	timedOut := errors.Is(opCtx.Err(), context.DeadlineExceeded)
	persistCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	if superseded, err := s.endSigningLocked(persistCtx, epoch, result.AuthToken, err, timedOut); err != nil {
		s.mu.Unlock()
		if superseded {
			s.revokeRotated(persistCtx, connector, account, result.AuthToken)
		}
		return nil, err
	}

	challenge := core.SignedChallenge{
		Signature: result.Signature,
		Message:   message,
		SignedAt:  s.now().UnixMilli(),
	}
	s.challenge = &challenge
	if err := s.store.SaveChallenge(persistCtx, challenge); err != nil {
		s.logger.Error("failed to persist signed challenge", zap.Error(err))
	}
	s.mu.Unlock()

	s.logger.Info("challenge signed", zap.String("address", account.Address))
	s.publish(persistCtx, core.EventSigned, account)
	return &challenge, nil
}

// SignTransaction asks a Solana wallet to sign tx. The signed challenge is not affected.
func (s *WalletService) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	opCtx, connector, account, epoch, err := s.beginSigning(ctx)
	if err != nil {
		return nil, err
	}

	var (
		signed  *solana.Transaction
		rotated string
	)
	signer, ok := connector.(ports.TransactionSigner)
	if ok {
		signed, rotated, err = signer.SignTransaction(opCtx, account, tx)
	} else {
		err = fmt.Errorf("%w: %s wallets cannot sign transactions", core.ErrNoProvider, account.ChainType)
	}
	timedOut := errors.Is(opCtx.Err(), context.DeadlineExceeded)
	persistCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	superseded, err := s.endSigningLocked(persistCtx, epoch, rotated, err, timedOut)
	s.mu.Unlock()
	if err != nil {
		if superseded {
			s.revokeRotated(persistCtx, connector, account, rotated)
		}
		return nil, err
	}
	return signed, nil
}

func (s *WalletService) beginSigning(ctx context.Context) (context.Context, ports.Connector, core.Account, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, nil, core.Account{}, 0, core.ErrOperationInProgress
	}
	if s.session.ConnectionStatus != core.StatusConnected || s.session.Address == "" {
		s.session.LastError = core.ErrNotConnected.Error()
		return nil, nil, core.Account{}, 0, core.ErrNotConnected
	}
	connector := s.connectors[s.session.ChainType]
	if connector == nil {
		s.session.LastError = core.ErrNoProvider.Error()
		return nil, nil, core.Account{}, 0, core.ErrNoProvider
	}

	s.session.SigningStatus = core.SigningActive
	s.session.LastError = ""
	opCtx, epoch := s.beginLocked(ctx)
	return opCtx, connector, s.session.Account(), epoch, nil
}

// endSigningLocked applies the outcome of a signing call. It returns a non-nil error when the
// caller must not record a result, and reports whether a disconnect superseded the call.
func (s *WalletService) endSigningLocked(ctx context.Context, epoch uint64, rotated string, err error, timedOut bool) (bool, error) {
	if !s.finishLocked(epoch) {
		s.logger.Info("signing superseded by disconnect")
		return true, core.ErrNotConnected
	}

	s.session.SigningStatus = core.SigningIdle
	if rotated != "" && rotated != s.session.AuthToken {
		s.session.AuthToken = rotated
		s.persistAccountLocked(ctx, s.session.Account())
	}

	if err != nil {
		if timedOut {
			err = fmt.Errorf("%w: %w", core.ErrOperationTimeout, err)
		}
		s.session.LastError = err.Error()
		s.logger.Warn("signing failed",
			zap.String("address", s.session.Address),
			zap.Bool("rejected", core.IsRejection(err)),
			zap.Error(err))
		return false, err
	}
	return false, nil
}

// revokeRotated tears down an authorization that a superseded signing call obtained after
// the disconnect had already revoked the previous token.
func (s *WalletService) revokeRotated(ctx context.Context, connector ports.Connector, account core.Account, rotated string) {
	if rotated == "" || rotated == account.AuthToken {
		return
	}
	account.AuthToken = rotated
	if err := connector.Disconnect(ctx, account); err != nil {
		s.logger.Warn("failed to revoke rotated authorization", zap.String("address", account.Address), zap.Error(err))
	}
}

// Disconnect ends the session from any state. It always succeeds: in-flight operations are
// cancelled, state and persisted records are cleared, and connector teardown errors are only logged.
func (s *WalletService) Disconnect(ctx context.Context) {
	persistCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	account := s.session.Account()
	s.abortLocked()
	s.session = core.DisconnectedSession()
	s.challenge = nil
	if err := s.store.Clear(persistCtx); err != nil {
		s.logger.Error("failed to clear persisted session", zap.Error(err))
	}
	s.mu.Unlock()

	for chain, connector := range s.connectors {
		if err := connector.Disconnect(persistCtx, account); err != nil {
			s.logger.Warn("wallet teardown failed", zap.String("chain", string(chain)), zap.Error(err))
		}
	}

	s.logger.Info("wallet disconnected", zap.String("address", account.Address))
	s.publish(persistCtx, core.EventDisconnected, account)
}

// Close releases the service. Pending operations are cancelled; the persisted session is kept.
func (s *WalletService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abortLocked()
	if s.session.ConnectionStatus == core.StatusConnecting {
		s.session = core.DisconnectedSession()
	}
	s.session.SigningStatus = core.SigningIdle
}

// beginLocked marks an operation in flight and returns its context and epoch
func (s *WalletService) beginLocked(ctx context.Context) (context.Context, uint64) {
	var (
		opCtx  context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		opCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		opCtx, cancel = context.WithCancel(ctx)
	}

	s.busy = true
	s.cancel = cancel
	return opCtx, s.epoch
}

// finishLocked clears the in-flight marker. It reports false when the operation was aborted.
func (s *WalletService) finishLocked(epoch uint64) bool {
	if epoch != s.epoch {
		return false
	}
	s.busy = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// abortLocked invalidates any in-flight operation
func (s *WalletService) abortLocked() {
	s.epoch++
	s.busy = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *WalletService) persistAccountLocked(ctx context.Context, account core.Account) {
	if err := s.store.SaveAccount(ctx, account); err != nil {
		s.logger.Error("failed to persist wallet", zap.String("address", account.Address), zap.Error(err))
	}
}

func (s *WalletService) publish(ctx context.Context, eventType core.WalletEventType, account core.Account) {
	if s.events == nil {
		return
	}

	event := core.WalletEvent{
		Type:       eventType,
		Address:    account.Address,
		ChainType:  account.ChainType,
		WalletType: account.WalletType,
		At:         s.now(),
	}
	if err := s.events.PublishWalletEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish wallet event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func connectedSession(account core.Account) core.WalletSession {
	session := core.DisconnectedSession()
	session.Address = account.Address
	session.ChainType = account.ChainType
	session.WalletType = account.WalletType
	session.AuthToken = account.AuthToken
	session.ConnectionStatus = core.StatusConnected
	return session
}

func restorable(account core.Account) bool {
	if account.Address == "" {
		return false
	}
	info, ok := core.LookupWallet(account.WalletType)
	if !ok || info.ChainType != account.ChainType {
		return false
	}
	if account.ChainType == core.ChainSolana && account.AuthToken == "" {
		return false
	}
	return true
}
