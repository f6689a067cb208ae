package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicekit/voicenode/internal/config"
	"github.com/voicekit/voicenode/internal/server"
)

func main() {
	nodeFile := flag.String("config", os.Getenv("NODE_CONFIG"), "Path to YAML node file")
	port := flag.String("port", "", "Override server port")
	flag.Parse()

	cfg, err := config.LoadWithFile(*nodeFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
