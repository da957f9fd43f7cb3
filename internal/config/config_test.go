package config

import (
	"os"
	"testing"
)

func TestBodyLimitFromEnv(t *testing.T) {
	t.Setenv("HTTP_BODY_LIMIT_MB", "25")
	if got := Load().App.BodyLimitMB; got != 25 {
		t.Errorf("BodyLimitMB = %d, want 25", got)
	}
}

func TestBodyLimitDefault(t *testing.T) {
	os.Unsetenv("HTTP_BODY_LIMIT_MB")
	if got := Load().App.BodyLimitMB; got != 10 {
		t.Errorf("BodyLimitMB = %d, want default 10", got)
	}
}

func TestBodyLimitIgnoresGarbage(t *testing.T) {
	t.Setenv("HTTP_BODY_LIMIT_MB", "plenty")
	if got := Load().App.BodyLimitMB; got != 10 {
		t.Errorf("BodyLimitMB = %d, want fallback 10", got)
	}
}
