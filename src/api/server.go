package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onemorebsmith/stx-clawbot/src/auth"
	"github.com/onemorebsmith/stx-clawbot/src/ledger"
	"go.uber.org/zap"
)

// Deduper guards against the same request id being applied twice
type Deduper interface {
	Claim(ctx context.Context, caller, requestId string) (bool, error)
	Release(ctx context.Context, caller, requestId string) error
}

type Info struct {
	ContractAddress string `json:"contract_address"`
	ContractName    string `json:"contract_name"`
	Network         string `json:"network"`
}

type Server struct {
	router   *gin.Engine
	contract *ledger.Contract
	journal  ledger.Journal
	issuer   *auth.Issuer
	deduper  Deduper
	info     Info
	logger   *zap.Logger
}

// NewServer builds the http surface over contract. journal and deduper are
// optional.
func NewServer(contract *ledger.Contract, journal ledger.Journal, issuer *auth.Issuer,
	deduper Deduper, info Info, logger *zap.Logger) *Server {
	s := &Server{
		router:   gin.New(),
		contract: contract,
		journal:  journal,
		issuer:   issuer,
		deduper:  deduper,
		info:     info,
		logger:   logger.Named("api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.metricsMiddleware())

	s.router.GET("/readyz", s.readyz)

	v1 := s.router.Group("/v1")
	{
		v1.GET("/info", s.getInfo)
		v1.GET("/balance/:principal", s.getBalance)
		v1.GET("/total-deposits", s.getTotalDeposits)
		v1.GET("/bots/:bot", s.getBot)
		v1.GET("/receipts/:principal", s.getReceipts)

		signed := v1.Group("", s.authMiddleware(), s.dedupeMiddleware())
		signed.POST("/deposit", s.deposit)
		signed.POST("/withdraw", s.withdraw)
		signed.POST("/transfer", s.transfer)
		signed.POST("/bot-spend", s.botSpend)
		signed.POST("/authorize-bot", s.authorizeBot)
		signed.POST("/revoke-bot", s.revokeBot)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) readyz(c *gin.Context) {
	if err := s.contract.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("store not ready", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": ledger.KindStoreFailure, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
