package handler

import (
	"coinbridge_back/pkg/middleware"
	"coinbridge_back/pkg/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
	}))

	api := router.Group("/api")
	{
		api.GET("/info", h.Info)
		api.GET("/balance/:account", h.Balance)
		api.GET("/address/:account", h.AccountAddress)
		api.GET("/transactions/:account", h.LedgerTransactions)
		api.GET("/daemon-transactions/:account", h.DaemonTransactions)
		api.POST("/payment", h.Payment)
		api.POST("/confirmations/:hash", h.UpdateConfirmations)

		message := api.Group("/message")
		{
			message.POST("/sign", h.SignMessage)
			message.POST("/verify", h.VerifyMessage)
		}

		api.POST("/wallet/encrypt", h.EncryptWallet)
	}
	return router
}
