package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-live-inventory/config"
	"github.com/oksasatya/go-live-inventory/pkg/helpers"
)

// Prints a custom sign-in token for INITIAL_AUTH_TOKEN.
func main() {
	_ = godotenv.Load()
	uid := flag.String("uid", "", "user id the token signs in as")
	ttl := flag.Duration("ttl", -1, "token lifetime; 0 never expires, negative uses CUSTOM_TOKEN_TTL")
	flag.Parse()
	if *uid == "" {
		log.Fatal("-uid is required")
	}

	cfg := config.Load()
	if cfg.CustomTokenSecret == "" {
		log.Fatal("CUSTOM_TOKEN_SECRET is not set")
	}
	lifetime := cfg.CustomTokenTTL
	if *ttl >= 0 {
		lifetime = *ttl
	}

	tok, exp, err := helpers.NewJWTManager(cfg.CustomTokenSecret, lifetime).GenerateCustomToken(*uid)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(tok)
	if !exp.IsZero() {
		log.Printf("expires at %s", exp.Format(time.RFC3339))
	}
}
