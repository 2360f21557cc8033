package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	checkConfig := flag.Bool("check-config", false, "print the resolved configuration and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal("env file load failed:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	if *checkConfig {
		printConfig(cfg)
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed:", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("server start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}

	log.Println("server stopped gracefully")
}

func printConfig(cfg *config.Config) {
	fmt.Printf("name:               %s %s\n", cfg.Name, cfg.Version)
	fmt.Printf("listen:             %s\n", cfg.Server.Addr())
	fmt.Printf("database:           %s@%s:%d/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	fmt.Printf("uploads path:       %s\n", cfg.Storage.UploadsPath)
	fmt.Printf("images path:        %s\n", cfg.Storage.ImagesPath)
	fmt.Printf("max upload size:    %s\n", cfg.Storage.MaxUploadSize)
	fmt.Printf("api base path:      %s\n", cfg.API.BasePath)
	fmt.Printf("retention minutes:  %d\n", cfg.Sweeper.RetentionMinutes)
}
