package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/signa/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(wallet *service.WalletService, signer service.MessageSigner, gate *service.AuthGate) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	walletHandlers := NewWalletHandlers(wallet, signer)
	authHandlers := NewAuthHandlers(gate)

	w := router.Group("/wallet")
	{
		w.GET("", walletHandlers.Session)
		w.GET("/wallets", walletHandlers.Wallets)
		w.POST("/connect", walletHandlers.Connect)
		w.GET("/challenge", walletHandlers.Challenge)
		w.POST("/sign", walletHandlers.Sign)
		w.POST("/sign-transaction", walletHandlers.SignTransaction)
		w.POST("/disconnect", walletHandlers.Disconnect)
		w.POST("/dismiss-error", walletHandlers.DismissError)
	}

	auth := router.Group("/auth")
	{
		auth.GET("/status", authHandlers.Status)
		auth.POST("/token", authHandlers.Token)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(gate))
	{
		api.GET("/me", authHandlers.Me)
	}

	return router
}
