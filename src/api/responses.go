package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onemorebsmith/stx-clawbot/src/ledger"
	"github.com/onemorebsmith/stx-clawbot/src/model"
)

const (
	KindDuplicateRequest = "DuplicateRequest"
	KindUnauthenticated  = "Unauthenticated"
)

type response struct {
	Ok      bool           `json:"ok"`
	Value   any            `json:"value,omitempty"`
	Receipt *model.Receipt `json:"receipt,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

func statusForKind(kind string) int {
	switch kind {
	case ledger.KindInvalidAmount, ledger.KindInvalidPrincipal:
		return http.StatusBadRequest
	case ledger.KindInsufficientBalance, ledger.KindOverflow, KindDuplicateRequest:
		return http.StatusConflict
	case ledger.KindNotAuthorized:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case ledger.KindCustodyFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, kind string, message string) {
	c.AbortWithStatusJSON(statusForKind(kind), response{Error: kind, Message: message})
}

func failErr(c *gin.Context, err error) {
	fail(c, ledger.Kind(err), err.Error())
}

func ok(c *gin.Context, value any, receipt *model.Receipt) {
	c.JSON(http.StatusOK, response{Ok: true, Value: value, Receipt: receipt})
}
