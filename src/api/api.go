package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hitanshuser50/daoconnect/src/ai"
	"github.com/Hitanshuser50/daoconnect/src/api/config"
	"github.com/Hitanshuser50/daoconnect/src/api/webserver"
	"github.com/Hitanshuser50/daoconnect/src/chain"
	"github.com/Hitanshuser50/daoconnect/src/data"
	"github.com/Hitanshuser50/daoconnect/src/governance"
	"github.com/Hitanshuser50/daoconnect/src/notifier"
	"github.com/Hitanshuser50/daoconnect/src/types"
	"gorm.io/gorm"
)

var allModels = []interface{}{
	&types.User{}, &types.DAO{}, &types.Proposal{}, &types.Vote{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)

	rdb := data.MustRedis(cfg.RedisURL)

	store := governance.NewStore()
	svc := governance.NewService(store, db, rdb)
	if err := svc.Rehydrate(); err != nil {
		log.Fatalf("rehydrate: %v", err)
	}

	analyzer := ai.NewAnalyzer(ai.NewClient(ai.FactoryConfig{
		Provider:  cfg.AIProvider,
		OpenAIKey: cfg.OpenAIKey,
		ClaudeKey: cfg.ClaudeKey,
	}), 60*time.Second)

	ctx, cancel := context.WithCancel(context.Background())

	// Close expired voting windows once a minute.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				svc.CloseExpired(ctx)
			}
		}
	}()

	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		n, err := notifier.New(cfg.DiscordToken, cfg.DiscordChannelID, rdb)
		if err != nil {
			log.Printf("notifier disabled: %v", err)
		} else {
			go n.Run(ctx)
		}
	}

	var onchain chain.Client
	if cfg.RPCURL != "" && cfg.GovernorAddr != "" {
		var err error
		onchain, err = chain.Dial(ctx, cfg.RPCURL, cfg.GovernorAddr, cfg.SignerKey)
		if err != nil {
			log.Printf("governor client disabled: %v", err)
			onchain = nil
		}
	}

	router := webserver.New(cfg, svc, analyzer, rdb, onchain)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("DaoConnect API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
