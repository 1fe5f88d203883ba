package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"news-dashboard/internal/infra/config"
	httpinfra "news-dashboard/internal/infra/http"
)

func main() {
	var (
		userID string
		ttl    time.Duration
	)
	flag.StringVar(&userID, "user", "", "user id to sign the session for")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime (SESSION_TTL when zero)")
	flag.Parse()

	if userID == "" {
		log.Fatal().Msg("issue-session: -user обязателен")
	}
	cfg := config.Load()
	if ttl <= 0 {
		ttl = cfg.Session.TTL
	}
	fmt.Println(httpinfra.IssueToken(cfg.SessionSecret(), userID, time.Now().Add(ttl)))
}
