package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Addr: "", DBPath: t.TempDir() + "/editor.db", JWTSecret: "secret"})
	if err == nil {
		t.Fatal("expected error for missing addr")
	}

	_, err = New(Config{Addr: ":0", DBPath: t.TempDir() + "/editor.db", JWTSecret: ""})
	if err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestNewSeedsCatalog(t *testing.T) {
	server, err := New(Config{
		Addr:        ":0",
		DBPath:      t.TempDir() + "/editor.db",
		JWTSecret:   "secret",
		SeedCatalog: true,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	templates, err := server.store.ListTemplates(context.Background(), "")
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) == 0 {
		t.Fatal("catalog seed produced no templates")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	server, err := New(Config{
		Addr:      "127.0.0.1:0",
		DBPath:    t.TempDir() + "/editor.db",
		JWTSecret: "secret",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("listen and serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestListenAndServeReturnsServeError(t *testing.T) {
	server := &Server{
		httpAddr:   "127.0.0.1:-1",
		httpServer: &http.Server{Addr: "127.0.0.1:-1"},
	}

	err := server.ListenAndServe(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "serve http") {
		t.Fatalf("unexpected error: %v", err)
	}
	if errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("unexpected closed error: %v", err)
	}
}
