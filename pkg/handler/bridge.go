package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coinbridge_back/models"
)

// Платёж: {origin, destination, amount}. Destination — аккаунт или адрес,
// механизм выбирает маршрутизатор.
func (h *Handler) Payment(c *gin.Context) {
	var req models.PaymentInput
	if err := c.BindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Payment(c.Request.Context(), req.Origin, req.Destination, req.Amount)
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"data": res,
	})
}

func (h *Handler) Balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Param("account"))
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"account": c.Param("account"),
		"balance": balance,
	})
}

func (h *Handler) AccountAddress(c *gin.Context) {
	addr, err := h.service.AccountAddress(c.Param("account"))
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"account": c.Param("account"),
		"address": addr,
	})
}

func (h *Handler) Info(c *gin.Context) {
	info, err := h.service.Info()
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"data": info,
	})
}

// Строки ledger по аккаунту — то, что читают витрины балансов.
func (h *Handler) LedgerTransactions(c *gin.Context) {
	txs, err := h.service.LedgerTransactions(c.Param("account"))
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"data": txs,
	})
}

func (h *Handler) DaemonTransactions(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "count должен быть числом")
		return
	}
	startAt, err := strconv.Atoi(c.DefaultQuery("start_at", "0"))
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "start_at должен быть числом")
		return
	}

	txs, err := h.service.DaemonTransactions(c.Param("account"), count, startAt)
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"data": txs,
	})
}

func (h *Handler) UpdateConfirmations(c *gin.Context) {
	confirmations, err := h.service.UpdateConfirmations(c.Param("hash"))
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"tx_hash":       c.Param("hash"),
		"confirmations": confirmations,
	})
}

// Шифрование кошелька — разовая операция; после неё демон требует перезапуск.
func (h *Handler) EncryptWallet(c *gin.Context) {
	if err := h.service.EncryptWallet(); err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"encrypted": true,
	})
}

func (h *Handler) SignMessage(c *gin.Context) {
	var req models.SignInput
	if err := c.BindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	signature, err := h.service.SignMessage(req.Address, req.Message)
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"signature": signature,
	})
}

func (h *Handler) VerifyMessage(c *gin.Context) {
	var req models.VerifyInput
	if err := c.BindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	verified, err := h.service.VerifyMessage(req.Address, req.Signature, req.Message)
	if err != nil {
		respondBridgeError(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"verified": verified,
	})
}
