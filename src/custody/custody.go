package custody

import (
	"context"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type CustodyConfig struct {
	Mock bool `yaml:"use_mock_custody"`
	// external holdings each principal starts with, in base units. Seeded
	// once per principal and only consulted when not running the mock.
	Wallets map[string]uint64 `yaml:"external_wallets"`
}

// NewCustodian builds the vault backing the contract's custody on store. The
// mock vault accepts any deposit; otherwise deposits are bounded by the
// seeded external wallets.
func NewCustodian(ctx context.Context, cfg CustodyConfig, store state.Store, logger *zap.Logger) (*Vault, error) {
	if cfg.Mock {
		return NewVault(store, false, logger), nil
	}
	vault := NewVault(store, true, logger)
	for addr, amount := range cfg.Wallets {
		p, err := model.ParsePrincipal(addr)
		if err != nil {
			return nil, errors.Wrap(err, "bad external wallet in custody config")
		}
		seeded, err := vault.Seed(ctx, p, amount)
		if err != nil {
			return nil, err
		}
		if seeded {
			logger.Info("seeded external wallet", zap.String("principal", p.String()), zap.Uint64("amount", amount))
		}
	}
	return vault, nil
}
