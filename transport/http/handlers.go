package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/service"
)

// WalletHandlers contains HTTP handlers for the wallet session
type WalletHandlers struct {
	wallet *service.WalletService
	signer service.MessageSigner
}

// NewWalletHandlers creates new wallet handlers. Sign requests go through signer,
// which is typically the wallet service wrapped in a biometric guard.
func NewWalletHandlers(wallet *service.WalletService, signer service.MessageSigner) *WalletHandlers {
	if signer == nil {
		signer = wallet
	}
	return &WalletHandlers{
		wallet: wallet,
		signer: signer,
	}
}

// Session returns the current wallet state
func (h *WalletHandlers) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.wallet.Snapshot())
}

// Wallets lists the supported wallets, optionally filtered by chain
func (h *WalletHandlers) Wallets(c *gin.Context) {
	chain := c.Query("chain")
	if chain == "" {
		c.JSON(http.StatusOK, gin.H{"wallets": core.SupportedWallets})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": core.WalletsForChain(core.ChainType(chain))})
}

// Connect handles the connect request
func (h *WalletHandlers) Connect(c *gin.Context) {
	var req struct {
		WalletType string `json:"wallet_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	connected, err := h.wallet.Connect(c.Request.Context(), core.WalletType(req.WalletType))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": connected,
		"session":   h.wallet.Snapshot().Session,
	})
}

// Challenge returns a fresh message for the user to sign
func (h *WalletHandlers) Challenge(c *gin.Context) {
	message, err := h.wallet.GetSigningMessage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Sign asks the connected wallet to sign a challenge
func (h *WalletHandlers) Sign(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	challenge, err := h.signer.SignMessage(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// SignTransaction asks a connected Solana wallet to sign a base64 encoded transaction
func (h *WalletHandlers) SignTransaction(c *gin.Context) {
	var req struct {
		Transaction string `json:"transaction" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Transaction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction"})
		return
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction"})
		return
	}

	signed, err := h.wallet.SignTransaction(c.Request.Context(), tx)
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := signed.MarshalBinary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": base64.StdEncoding.EncodeToString(out)})
}

// Disconnect ends the wallet session
func (h *WalletHandlers) Disconnect(c *gin.Context) {
	h.wallet.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Disconnected"})
}

// DismissError clears the last error
func (h *WalletHandlers) DismissError(c *gin.Context) {
	h.wallet.DismissError()
	c.Status(http.StatusNoContent)
}

// AuthHandlers contains HTTP handlers for the auth gate
type AuthHandlers struct {
	gate *service.AuthGate
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(gate *service.AuthGate) *AuthHandlers {
	return &AuthHandlers{gate: gate}
}

// Status reports whether the wallet is authenticated
func (h *AuthHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.Status())
}

// Token issues an access token while the wallet is authenticated
func (h *AuthHandlers) Token(c *gin.Context) {
	token, grant, err := h.gate.IssueAccessToken(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(grant.ExpiresAt.Sub(grant.IssuedAt).Seconds()),
	})
}

// Me returns the wallet behind the access token
func (h *AuthHandlers) Me(c *gin.Context) {
	// Set by the auth middleware
	grant, exists := c.Get(grantKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Grant not found in context"})
		return
	}

	g := grant.(*core.Grant)
	c.JSON(http.StatusOK, gin.H{
		"address": g.Address,
		"chain":   g.ChainType,
	})
}

// writeError maps wallet errors to status codes
func writeError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrUnknownWallet):
		statusCode = http.StatusBadRequest
	case errors.Is(err, core.ErrOperationInProgress), errors.Is(err, core.ErrAlreadyConnected):
		statusCode = http.StatusConflict
	case errors.Is(err, core.ErrNotConnected), errors.Is(err, core.ErrNoProvider):
		statusCode = http.StatusPreconditionFailed
	case errors.Is(err, core.ErrNotAuthenticated), errors.Is(err, core.ErrBiometricDenied):
		statusCode = http.StatusUnauthorized
	case core.IsRejection(err):
		statusCode = http.StatusForbidden
	case errors.Is(err, core.ErrOperationTimeout):
		statusCode = http.StatusGatewayTimeout
	case errors.Is(err, core.ErrConfiguration):
		statusCode = http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidSignature):
		statusCode = http.StatusBadGateway
	}

	c.JSON(statusCode, gin.H{"error": err.Error()})
}
