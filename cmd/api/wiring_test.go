package main

import (
	"context"
	"io"
	"testing"
	"time"

	"harambee_billing/internal/config"

	"github.com/sirupsen/logrus"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "sweep", "seed"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered (err=%v)", name, err)
		}
	}
}

func TestOpenLedger_MemoryBackendIsSeeded(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo, closeLedger, err := openLedger(context.Background(), config.Config{LedgerBackend: config.BackendMemory}, log)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer closeLedger()

	c, err := repo.GetCampaign(context.Background(), "proj_school_dev_001")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !c.AcceptingFunds() {
		t.Fatalf("expected sample campaign to accept funds, got %+v", c)
	}

	created, err := repo.SeedCampaign(context.Background(), c)
	if err != nil || created {
		t.Fatalf("expected existing campaign to be skipped, created=%v err=%v", created, err)
	}
}

func TestOpenGuard_FallsBackToMemory(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	guard, mem, client := openGuard(context.Background(), config.Config{RateLimitMax: 10, RateLimitWindow: time.Minute}, log)
	if guard == nil || mem == nil || client != nil {
		t.Fatalf("expected in-process guard, got guard=%v mem=%v client=%v", guard, mem, client)
	}
}

func TestOpenGateway_UnconfiguredLeavesInterfaceNil(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	mpesa, gateway := openGateway(config.Config{}, log)
	if gateway != nil {
		t.Fatalf("expected nil gateway interface")
	}
	if got := mpesa.Mode(); got != "unconfigured" {
		t.Fatalf("expected unconfigured mode, got %q", got)
	}
}
