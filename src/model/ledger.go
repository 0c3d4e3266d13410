package model

import (
	"time"

	"github.com/google/uuid"
)

type OperationType string

const ( // needs to match the `receipt_type` values written to pg
	OperationDeposit      OperationType = "deposit"
	OperationWithdraw     OperationType = "withdraw"
	OperationTransfer     OperationType = "transfer"
	OperationBotSpend     OperationType = "bot-spend"
	OperationAuthorizeBot OperationType = "authorize-bot"
	OperationRevokeBot    OperationType = "revoke-bot"
)

type ReceiptStatus string

const ( // stored in the `status` column
	StatusPending ReceiptStatus = "pending"
	StatusSuccess ReceiptStatus = "success"
	StatusError   ReceiptStatus = "error"
)

// Receipt - the outcome of a state-mutating ledger operation. Only
// successful receipts carry a txid and get journaled.
type Receipt struct {
	TxId      string        `json:"txid,omitempty"`
	Type      OperationType `json:"type"`
	Caller    Principal     `json:"caller"`
	Amount    uint64        `json:"amount,omitempty"`
	Recipient Principal     `json:"recipient,omitempty"`
	Status    ReceiptStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewReceipt(op OperationType, caller Principal, amount uint64, recipient Principal) Receipt {
	return Receipt{
		TxId:      uuid.New().String(),
		Type:      op,
		Caller:    caller,
		Amount:    amount,
		Recipient: recipient,
		Status:    StatusSuccess,
		Timestamp: time.Now().UTC(),
	}
}

// NewRejectedReceipt describes an operation that changed nothing
func NewRejectedReceipt(op OperationType, caller Principal, amount uint64, recipient Principal) Receipt {
	return Receipt{
		Type:      op,
		Caller:    caller,
		Amount:    amount,
		Recipient: recipient,
		Status:    StatusError,
		Timestamp: time.Now().UTC(),
	}
}

// Involves reports whether p sent, received or was the subject of the receipt
func (r Receipt) Involves(p Principal) bool {
	return r.Caller == p || r.Recipient == p
}
