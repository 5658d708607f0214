package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "seed"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %q sub-command, got %v (%v)", name, cmd, err)
		}
	}
}

func TestSeedCommandReportsRecords(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_USERNAME", "Admin")
	t.Setenv("ADMIN_PASSWORD", "Hello")
	t.Setenv("BCRYPT_COST", "4")

	var out bytes.Buffer
	if err := seed(context.Background(), nil, &out); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	report := out.String()
	for _, want := range []string{"Tasty Bites (S101)", "Spice Junction (S102)", "Sweet Treats (S103)", "admin Admin seeded"} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected %q in report:\n%s", want, report)
		}
	}
}

func TestSeedCommandRejectsBadFlags(t *testing.T) {
	if err := seed(context.Background(), []string{"--session-ttl", "bad"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected flag parsing error")
	}
}
