package scanner

import (
	"context"
	"strings"
	"testing"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(context.Context, Request) ([]domain.Post, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedScanner("web"))
	reg.Register(namedScanner("bot"))

	got, err := reg.Resolve("web")
	if err != nil {
		t.Fatalf("resolve web: %v", err)
	}
	if got.Name() != "web" {
		t.Fatalf("unexpected scanner: %s", got.Name())
	}

	if _, err := reg.Resolve(" WEB "); err != nil {
		t.Fatalf("resolve must ignore case and spaces: %v", err)
	}

	_, err = reg.Resolve("rss")
	if err == nil || !strings.Contains(err.Error(), "bot, web") {
		t.Fatalf("expected error listing registered scanners, got %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "bot" || names[1] != "web" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestZeroRegistryRegister(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(namedScanner("bot"))

	if _, err := reg.Resolve("bot"); err != nil {
		t.Fatalf("resolve after register on zero value: %v", err)
	}
}
