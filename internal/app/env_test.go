package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("CHAT_TEST_STR", "  value  ")
	if got := EnvString("CHAT_TEST_STR", "def"); got != "value" {
		t.Fatalf("EnvString = %q, want trimmed %q", got, "value")
	}
	if got := EnvString("CHAT_TEST_STR_UNSET", "def"); got != "def" {
		t.Fatalf("EnvString unset = %q, want default", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("CHAT_TEST_BOOL", "true")
	if !EnvBool("CHAT_TEST_BOOL", false) {
		t.Fatal("EnvBool = false, want true")
	}
	t.Setenv("CHAT_TEST_BOOL", "not-a-bool")
	if EnvBool("CHAT_TEST_BOOL", false) {
		t.Fatal("EnvBool on garbage = true, want default false")
	}
}

func TestEnvInt32(t *testing.T) {
	t.Setenv("CHAT_TEST_INT", "16")
	if got := EnvInt32("CHAT_TEST_INT", 4); got != 16 {
		t.Fatalf("EnvInt32 = %d, want 16", got)
	}
	t.Setenv("CHAT_TEST_INT", "-3")
	if got := EnvInt32("CHAT_TEST_INT", 4); got != 4 {
		t.Fatalf("EnvInt32 negative = %d, want default 4", got)
	}
	t.Setenv("CHAT_TEST_INT", "nope")
	if got := EnvInt32("CHAT_TEST_INT", 4); got != 4 {
		t.Fatalf("EnvInt32 garbage = %d, want default 4", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("CHAT_TEST_DUR", "750ms")
	if got := EnvDuration("CHAT_TEST_DUR", time.Second); got != 750*time.Millisecond {
		t.Fatalf("EnvDuration = %v, want 750ms", got)
	}
	t.Setenv("CHAT_TEST_DUR", "-1s")
	if got := EnvDuration("CHAT_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("EnvDuration non-positive = %v, want default 1s", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CHAT_PERSIST_DELAY", "")
	t.Setenv("CHAT_PEER_NAME", "")
	t.Setenv("CHAT_SENDER_KEY", "")

	cfg := LoadConfig()

	if cfg.PersistDelay != 500*time.Millisecond {
		t.Fatalf("PersistDelay = %v, want 500ms", cfg.PersistDelay)
	}
	if cfg.PeerName != "Driver" {
		t.Fatalf("PeerName = %q, want Driver", cfg.PeerName)
	}
	if cfg.SenderKey != "passenger" {
		t.Fatalf("SenderKey = %q, want passenger", cfg.SenderKey)
	}
}
