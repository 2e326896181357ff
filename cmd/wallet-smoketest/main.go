package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/Hitanshuser50/daoconnect/src/wallet"
)

var (
	urlFlag      = flag.String("url", "http://127.0.0.1:8545", "JSON-RPC endpoint")
	accountsFlag = flag.String("accounts", "", "Comma-separated account addresses")
	chainFlag    = flag.Uint64("switch-chain", 0, "Chain id to switch to after connecting (0=skip)")
	timeoutFlag  = flag.Duration("timeout", 15*time.Second, "Provider call timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	var accounts []string
	for _, a := range strings.Split(*accountsFlag, ",") {
		if a = strings.TrimSpace(a); a != "" {
			accounts = append(accounts, a)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	provider, err := wallet.NewNodeProvider(ctx, *urlFlag, accounts)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}
	defer provider.Close()

	session := wallet.NewSession(provider, *timeoutFlag)
	defer session.Close()

	unsubscribe := session.Subscribe(func(st wallet.WalletState) {
		log.Printf("state: connected=%v address=%s chain=%d balance=%s",
			st.IsConnected, st.Address, st.ChainID, st.Balance)
	})
	defer unsubscribe()

	if err := session.Connect(ctx); err != nil {
		log.Fatalf("connect: %v", err)
	}

	if *chainFlag != 0 {
		if err := session.SwitchChain(ctx, *chainFlag); err != nil {
			log.Printf("switch chain: %v", err)
		}
	}

	session.Disconnect()
}
