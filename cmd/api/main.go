package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"yookassa-es-bridge/internal/client"
	"yookassa-es-bridge/internal/config"
	"yookassa-es-bridge/internal/server"
	"yookassa-es-bridge/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	// missing credentials only warn: /env-check must stay reachable so
	// the operator can see what is absent
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		log.Printf("WARNING: missing env vars: %s", strings.Join(missing, ", "))
	}

	insalesClient := client.NewInsalesClient(&cfg.Insales)
	yookassaClient := client.NewYookassaClient(&cfg.Yookassa)

	paymentService, err := service.NewPaymentService(cfg, insalesClient, yookassaClient)
	if err != nil {
		fmt.Printf("Failed to init payment service: %v\n", err)
		os.Exit(1)
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, paymentService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
