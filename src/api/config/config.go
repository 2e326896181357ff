package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	MySQLDSN  string
	RedisURL  string
	JWTSecret string
	Port      string

	RPCURL       string
	GovernorAddr string
	SignerKey    string

	AIProvider string
	OpenAIKey  string
	ClaudeKey  string

	DiscordToken     string
	DiscordChannelID string

	ProviderTimeout int // seconds
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	pt, _ := strconv.Atoi(getenv("PROVIDER_TIMEOUT", "15"))
	return Config{
		MySQLDSN:         getenv("MYSQL_DSN", "daoconnect:daoconnect@tcp(127.0.0.1:3306)/daoconnect?parseTime=true"),
		RedisURL:         getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:        getenv("JWT_SECRET", "change-me-in-production"),
		Port:             getenv("PORT", "8080"),
		RPCURL:           os.Getenv("RPC_URL"),
		GovernorAddr:     os.Getenv("GOVERNOR_ADDR"),
		SignerKey:        os.Getenv("SIGNER_KEY"),
		AIProvider:       getenv("AI_PROVIDER", "openai"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		ClaudeKey:        os.Getenv("CLAUDE_API_KEY"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		ProviderTimeout:  pt,
	}
}
