package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rjcreations/internal/config"
	"rjcreations/internal/http/handlers"
	"rjcreations/internal/payment"
	"rjcreations/internal/redisx"
	"rjcreations/internal/repos"
	"rjcreations/internal/server"
	"rjcreations/internal/services"
	"rjcreations/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hasher := services.BcryptHasher{}
	if cfg.AdminEmail != "" {
		hash, err := hasher.Hash(cfg.AdminPassword)
		if err != nil {
			log.Fatal(err)
		}
		promoted, err := repos.SeedAdmin(context.Background(), db, cfg.AdminEmail, hash)
		if err != nil {
			log.Fatal(err)
		}
		if promoted {
			log.Printf("[seed] existing account %s promoted to admin; its password was not changed", cfg.AdminEmail)
		} else {
			log.Printf("[seed] admin account %s ensured", cfg.AdminEmail)
		}
	}

	// Checkout intents live in Redis when configured, otherwise in the database.
	var intents services.IntentStore = repos.NewIntentRepo(db)
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisx.Ping(ctx, rdb)
		cancel()
		if err != nil {
			log.Fatalf("[redis] %s: %v", cfg.RedisAddr, err)
		}
		intents = redisx.NewIntentStore(rdb)
		log.Printf("[redis] checkout intents -> %s", cfg.RedisAddr)
	}

	gateway := payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpaySecret, payment.WithBaseURL(cfg.RazorpayBaseURL))

	prodRepo := repos.NewProductRepo(db)
	catalogSvc := services.NewCatalogService(prodRepo)
	checkoutSvc := services.NewCheckoutService(gateway, intents, cfg.RazorpayKeyID)
	cartSvc := services.NewCartService(prodRepo, checkoutSvc)
	authSvc := services.NewAuthService(repos.NewUserRepo(db), hasher)

	sessions := session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.CookieSecure)
	opts := server.DefaultOptions(sessions)
	opts.CookieSecure = cfg.CookieSecure

	app, err := server.New(handlers.NewDeps(catalogSvc, cartSvc, authSvc), opts)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("[server] shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("[server] listening on %s", cfg.HTTPAddress())
	if err := app.Listen(cfg.HTTPAddress()); err != nil {
		log.Fatal(err)
	}
}
