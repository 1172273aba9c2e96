package otel

import (
	"context"
	"testing"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("FOTOM_OTEL_ENDPOINT", "")
	t.Setenv("FOTOM_OTEL_ENABLED", "")

	shutdown, err := Setup(context.Background(), "editor")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	t.Setenv("FOTOM_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("FOTOM_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "editor")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
