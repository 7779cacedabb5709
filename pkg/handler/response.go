package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"coinbridge_back/internal/address"
	"coinbridge_back/pkg/coinrpc"
	"coinbridge_back/pkg/repository"
	"coinbridge_back/pkg/service"
)

type Error struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

// respondBridgeError переводит ошибки моста в HTTP-статусы: ошибки валидации —
// 400, неизвестный хэш — 404, недоступный демон — 503, прикладной отказ
// демона — 502, сбой записи ledger — 500 (деньги ушли, требуется сверка).
func respondBridgeError(c *gin.Context, err error) {
	var (
		invalidAmount  *service.InvalidAmountError
		unknownAccount *service.UnknownAccountError
		connErr        *coinrpc.ConnectionError
		rpcErr         *coinrpc.RPCCallError
		unlockErr      *coinrpc.WalletUnlockError
		ledgerErr      *repository.LedgerWriteError
	)
	switch {
	case errors.As(err, &invalidAmount),
		errors.As(err, &unknownAccount),
		errors.Is(err, service.ErrSelfPayment),
		errors.Is(err, address.ErrInvalidAddress):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrTxNotFound):
		newErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &connErr):
		newErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &rpcErr), errors.As(err, &unlockErr):
		newErrorResponse(c, http.StatusBadGateway, err.Error())
	case errors.As(err, &ledgerErr):
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	default:
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
