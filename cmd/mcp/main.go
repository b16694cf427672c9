package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/mcptools"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	version    = "0.1.0"
	serverName = "docoutline-mcp"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		return
	}

	// stdout carries the protocol.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.Load()
	if err := cfg.ValidateStore(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	docs, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := docs.Close(); err != nil {
			log.Error("close store", "error", err)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcptools.New(editor.New(docs, nil, log)).Register(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting mcp server", "store", cfg.StoreBackend)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
