package main

import (
	"flag"
	"log"
	"os"

	"PatternScan/internal/di"
	"PatternScan/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s exchange=%s category=%s scanner=%t kafka=%t redis=%t",
		cfg.Environment, cfg.Exchange.BaseURL, cfg.Exchange.Category,
		cfg.Scanner.Enabled, cfg.Kafka.Enabled, cfg.Cache.Redis.Enabled)

	// Wire DI: Initialize all dependencies
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	err = app.Run()
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
