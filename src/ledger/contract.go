package ledger

import (
	"context"

	"github.com/onemorebsmith/stx-clawbot/src/metrics"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"go.uber.org/zap"
)

// Contract is one ledger instance: the Ledger and the bot Registry sharing a
// single store and a single serialized executor.
type Contract struct {
	Ledger   *Ledger
	Registry *Registry
	store    state.Store
}

// NewContract wires both components over store. A nil custodian moves no
// asset; a nil journal keeps no history.
func NewContract(store state.Store, custodian Custodian, journal Journal, logger *zap.Logger) *Contract {
	if custodian == nil {
		custodian = nopCustodian{}
	}
	exec := &executor{store: store}
	registry := &Registry{
		exec:     exec,
		recorder: &recorder{journal: journal, logger: logger.Named("registry")},
	}
	return &Contract{
		Registry: registry,
		Ledger: &Ledger{
			exec:      exec,
			registry:  registry,
			custodian: custodian,
			recorder:  &recorder{journal: journal, logger: logger.Named("ledger")},
		},
		store: store,
	}
}

func (c *Contract) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

type recorder struct {
	journal Journal
	logger  *zap.Logger
}

func (r *recorder) finish(ctx context.Context, op model.OperationType, caller model.Principal,
	amount uint64, recipient model.Principal, err error) model.Receipt {
	kind := Kind(err)
	metrics.RecordOperation(op, kind)
	if err != nil {
		r.logger.Debug("operation rejected",
			zap.String("op", string(op)),
			zap.String("caller", string(caller)),
			zap.Uint64("amount", amount),
			zap.String("kind", kind),
			zap.Error(err))
		return model.NewRejectedReceipt(op, caller, amount, recipient)
	}

	receipt := model.NewReceipt(op, caller, amount, recipient)
	metrics.RecordAmount(op, amount)
	r.logger.Info("operation committed",
		zap.String("op", string(op)),
		zap.String("txid", receipt.TxId),
		zap.String("caller", string(caller)),
		zap.Uint64("amount", amount),
		zap.String("recipient", string(recipient)))
	if r.journal != nil {
		if jerr := r.journal.Record(ctx, receipt); jerr != nil {
			r.logger.Error("failed journaling receipt", zap.String("txid", receipt.TxId), zap.Error(jerr))
		}
	}
	return receipt
}
