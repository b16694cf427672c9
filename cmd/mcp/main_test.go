package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestRun_InvalidStoreBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "floppy")
	err := run(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("expected configuration error, got %v", err)
	}
}
