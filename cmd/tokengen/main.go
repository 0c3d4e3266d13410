package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/onemorebsmith/stx-clawbot/src/auth"
	"github.com/onemorebsmith/stx-clawbot/src/common"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/server"
)

// prints a bearer token for the given principal, signed with the configured secret
func main() {
	cfg := server.LedgerConfig{}
	if _, err := common.LoadConfig(&cfg); err != nil {
		log.Printf("%s, relying on flags", err)
	}
	principal := ""
	flag.StringVar(&principal, "principal", "", "principal the token authenticates as")
	flag.StringVar(&cfg.JwtSecret, "secret", cfg.JwtSecret, "hmac secret shared with the ledger api")
	flag.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "token lifetime, default `24h`")
	flag.Parse()
	cfg.ApplyDefaults()

	p, err := model.ParsePrincipal(principal)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	issuer, err := auth.NewIssuer(cfg.JwtSecret)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	token, err := issuer.Issue(p, cfg.TokenTTL)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	fmt.Println(token)
}
