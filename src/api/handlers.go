package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onemorebsmith/stx-clawbot/src/ledger"
	"github.com/onemorebsmith/stx-clawbot/src/model"
)

const defaultReceiptLimit = 50

// amount is given either in micro-STX or as a decimal STX string
type amountRequest struct {
	Amount    *uint64 `json:"amount"`
	AmountStx string  `json:"amount_stx"`
	Recipient string  `json:"recipient"`
}

type botRequest struct {
	Bot string `json:"bot"`
}

func (r amountRequest) micro() (uint64, error) {
	if r.Amount != nil {
		return *r.Amount, nil
	}
	if r.AmountStx == "" {
		return 0, fmt.Errorf("%w: amount or amount_stx required", ledger.ErrInvalidAmount)
	}
	micro, err := model.StxToMicro(r.AmountStx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ledger.ErrInvalidAmount, err)
	}
	return micro, nil
}

func bindAmount(c *gin.Context, withRecipient bool) (uint64, model.Principal, bool) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, ledger.KindInvalidAmount, err.Error())
		return 0, "", false
	}
	amount, err := req.micro()
	if err != nil {
		failErr(c, err)
		return 0, "", false
	}
	if !withRecipient {
		return amount, "", true
	}
	recipient, err := model.ParsePrincipal(req.Recipient)
	if err != nil {
		failErr(c, err)
		return 0, "", false
	}
	return amount, recipient, true
}

type ledgerOp func(ctx context.Context, caller model.Principal, amount uint64) (model.Receipt, error)
type ledgerTransferOp func(ctx context.Context, caller model.Principal, amount uint64, recipient model.Principal) (model.Receipt, error)
type registryOp func(ctx context.Context, caller, bot model.Principal) (model.Receipt, error)

func (s *Server) handleAmount(op ledgerOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		amount, _, valid := bindAmount(c, false)
		if !valid {
			return
		}
		receipt, err := op(c.Request.Context(), callerOf(c), amount)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, receipt.Amount, &receipt)
	}
}

func (s *Server) handleTransfer(op ledgerTransferOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		amount, recipient, valid := bindAmount(c, true)
		if !valid {
			return
		}
		receipt, err := op(c.Request.Context(), callerOf(c), amount, recipient)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, true, &receipt)
	}
}

func (s *Server) handleBot(op registryOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req botRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, ledger.KindInvalidPrincipal, err.Error())
			return
		}
		bot, err := model.ParsePrincipal(req.Bot)
		if err != nil {
			failErr(c, err)
			return
		}
		receipt, err := op(c.Request.Context(), callerOf(c), bot)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, true, &receipt)
	}
}

func (s *Server) deposit(c *gin.Context) {
	s.handleAmount(s.contract.Ledger.Deposit)(c)
}

func (s *Server) withdraw(c *gin.Context) {
	s.handleAmount(s.contract.Ledger.Withdraw)(c)
}

func (s *Server) transfer(c *gin.Context) {
	s.handleTransfer(s.contract.Ledger.Transfer)(c)
}

func (s *Server) botSpend(c *gin.Context) {
	s.handleTransfer(s.contract.Ledger.BotSpend)(c)
}

func (s *Server) authorizeBot(c *gin.Context) {
	s.handleBot(s.contract.Registry.AuthorizeBot)(c)
}

func (s *Server) revokeBot(c *gin.Context) {
	s.handleBot(s.contract.Registry.RevokeBot)(c)
}

func (s *Server) getBalance(c *gin.Context) {
	p, err := model.ParsePrincipal(c.Param("principal"))
	if err != nil {
		failErr(c, err)
		return
	}
	bal, err := s.contract.Ledger.GetBalance(c.Request.Context(), p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"principal": p, "balance": bal, "balance_stx": model.FormatStx(bal)}, nil)
}

func (s *Server) getTotalDeposits(c *gin.Context) {
	total, err := s.contract.Ledger.GetTotalDeposits(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"total": total, "total_stx": model.FormatStx(total)}, nil)
}

func (s *Server) getBot(c *gin.Context) {
	bot, err := model.ParsePrincipal(c.Param("bot"))
	if err != nil {
		failErr(c, err)
		return
	}
	authorized, err := s.contract.Registry.IsBotAuthorized(c.Request.Context(), bot)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"bot": bot, "authorized": authorized}, nil)
}

func (s *Server) getReceipts(c *gin.Context) {
	p, err := model.ParsePrincipal(c.Param("principal"))
	if err != nil {
		failErr(c, err)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultReceiptLimit)))
	if err != nil || limit <= 0 {
		limit = defaultReceiptLimit
	}
	receipts := []model.Receipt{}
	if s.journal != nil {
		found, err := s.journal.List(c.Request.Context(), p, limit)
		if err != nil {
			failErr(c, err)
			return
		}
		receipts = append(receipts, found...)
	}
	ok(c, receipts, nil)
}

func (s *Server) getInfo(c *gin.Context) {
	ok(c, s.info, nil)
}
