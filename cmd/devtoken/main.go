package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/pkg/jwt"
)

func main() {
	userID := flag.Int64("user", 0, "user id to put in the token")
	role := flag.String("role", "guest", "role claim")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-role guest]")
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.IsProduction() {
		log.Fatal().Msg("devtoken refuses to run with ENV=production")
	}

	token, err := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL).GenerateAccessToken(*userID, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}
