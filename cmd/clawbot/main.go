package main

import (
	"flag"
	"log"
	"os"

	"github.com/onemorebsmith/stx-clawbot/src/common"
	"github.com/onemorebsmith/stx-clawbot/src/server"
)

func main() {
	cfg := server.LedgerConfig{}
	fullPath, err := common.LoadConfig(&cfg)
	log.Printf("loading config @ `%s`", fullPath)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.ListenAddress, "listen", cfg.ListenAddress, "address to serve the ledger api on, default `:8080`")
	flag.StringVar(&cfg.StoreBackend, "backend", cfg.StoreBackend, "state backend: memory, postgres or redis")
	flag.StringVar(&cfg.PromPort, "prom", cfg.PromPort, "address to serve prom stats, default `:2112`")
	flag.StringVar(&cfg.HealthCheckPort, "hcp", cfg.HealthCheckPort, `(rarely used) if defined will expose a health check on /readyz, default ""`)
	flag.StringVar(&cfg.PostgresConfig, "pg", cfg.PostgresConfig, `config string for the postgres connection`)
	flag.StringVar(&cfg.RedisConfig.Address, "redis", cfg.RedisConfig.Address, `address of the redis server`)
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level, default `info`")
	flag.BoolVar(&cfg.Mock, "mock", cfg.Mock, "accept every deposit without checking external wallets")

	flag.Parse()
	cfg.ApplyDefaults()

	log.Println("----------------------------------")
	log.Printf("initializing clawbot ledger")
	log.Printf("\tcontract:      %s %s (%s)", cfg.ContractAddress, cfg.ContractName, cfg.Network)
	log.Printf("\tlisten:        %s", cfg.ListenAddress)
	log.Printf("\tbackend:       %s", cfg.StoreBackend)
	log.Printf("\tprom:          %s", cfg.PromPort)
	log.Printf("\thealth check:  %s", cfg.HealthCheckPort)
	log.Printf("\tredis:         %s", cfg.RedisConfig.Address)
	log.Printf("\tmock custody:  %t", cfg.Mock)
	log.Println("----------------------------------")

	if err := server.ListenAndServe(cfg); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
