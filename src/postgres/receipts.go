package postgres

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/pkg/errors"
)

var receiptColumns = []string{"tx_id", "receipt_type", "caller", "amount", "recipient", "status", "timestamp"}

var insertReceipt = fmt.Sprintf(`INSERT INTO ledger_receipts(%s)
	VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`, strings.Join(receiptColumns, ", "))

// ReceiptJournal persists receipts to ledger_receipts
type ReceiptJournal struct{}

func NewReceiptJournal() *ReceiptJournal {
	return &ReceiptJournal{}
}

func numeric(amount uint64) pgtype.Numeric {
	return pgtype.Numeric{Int: new(big.Int).SetUint64(amount), Valid: true}
}

func receiptRow(r model.Receipt) []any {
	return []any{r.TxId, string(r.Type), string(r.Caller), numeric(r.Amount), string(r.Recipient), string(r.Status), r.Timestamp.UTC()}
}

func (ReceiptJournal) Record(ctx context.Context, r model.Receipt) error {
	return DoQuery(ctx, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, insertReceipt, receiptRow(r)...)
		if err != nil {
			return errors.Wrapf(err, "failed to record receipt %s", r.TxId)
		}
		return nil
	})
}

func (ReceiptJournal) List(ctx context.Context, p model.Principal, limit int) ([]model.Receipt, error) {
	if limit <= 0 {
		limit = 100
	}
	var fetched []model.Receipt
	err := DoQuery(ctx, func(conn *pgx.Conn) error {
		cur, err := conn.Query(ctx,
			`SELECT tx_id, receipt_type, caller, amount::text, recipient, status, timestamp
			FROM ledger_receipts WHERE caller = $1 OR recipient = $1
			ORDER BY timestamp DESC LIMIT $2`, string(p), limit)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch receipts for %s", p)
		}
		defer cur.Close()

		for cur.Next() {
			var txid, op, caller, amount, recipient, status string
			var ts time.Time
			if err := cur.Scan(&txid, &op, &caller, &amount, &recipient, &status, &ts); err != nil {
				return errors.Wrap(err, "failed unmarshalling receipt")
			}
			parsed, err := strconv.ParseUint(amount, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "corrupt amount on receipt %s", txid)
			}
			fetched = append(fetched, model.Receipt{
				TxId:      txid,
				Type:      model.OperationType(op),
				Caller:    model.Principal(caller),
				Amount:    parsed,
				Recipient: model.Principal(recipient),
				Status:    model.ReceiptStatus(status),
				Timestamp: ts,
			})
		}
		return cur.Err()
	})
	return fetched, err
}

// PruneReceipts deletes receipts older than cutoff, returning the count removed
func PruneReceipts(ctx context.Context, cutoff time.Time) (int64, error) {
	var pruned int64
	err := DoQuery(ctx, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM ledger_receipts WHERE timestamp < $1`, cutoff.UTC())
		if err != nil {
			return errors.Wrap(err, "failed to prune receipts")
		}
		pruned = tag.RowsAffected()
		return nil
	})
	return pruned, err
}

func (ReceiptJournal) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return PruneReceipts(ctx, cutoff)
}
