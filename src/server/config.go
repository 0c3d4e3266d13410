package server

import (
	"time"

	"github.com/onemorebsmith/stx-clawbot/src/common"
	"github.com/onemorebsmith/stx-clawbot/src/custody"
	"github.com/onemorebsmith/stx-clawbot/src/redisdb"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// LedgerConfig configures a single ledger replica. Operations are serialized
// in process, so at most one replica may serve a given postgres or redis
// store at a time.
type LedgerConfig struct {
	common.CommonConfig   `yaml:",inline"`
	custody.CustodyConfig `yaml:",inline"`
	redisdb.RedisConfig   `yaml:",inline"`

	ListenAddress    string        `yaml:"listen_address"`
	StoreBackend     string        `yaml:"store_backend"`
	JwtSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	DedupeWindow     time.Duration `yaml:"dedupe_window"`
	PruneInterval    time.Duration `yaml:"prune_interval"`
	ReceiptRetention time.Duration `yaml:"receipt_retention"`
	ContractAddress  string        `yaml:"contract_address"`
	ContractName     string        `yaml:"contract_name"`
	Network          string        `yaml:"network"`
}

func (cfg *LedgerConfig) ApplyDefaults() {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendMemory
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.DedupeWindow == 0 {
		cfg.DedupeWindow = 10 * time.Minute
	}
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = 5 * time.Minute
	}
	if cfg.ReceiptRetention == 0 {
		cfg.ReceiptRetention = 30 * 24 * time.Hour
	}
	if cfg.ContractName == "" {
		cfg.ContractName = "clawbot"
	}
	if cfg.Network == "" {
		cfg.Network = "devnet"
	}
}
