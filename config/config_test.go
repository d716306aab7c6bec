package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SNAKE_WIDTH", "SNAKE_HEIGHT", "SNAKE_FRUIT_COUNT", "SNAKE_TICK_RATE", "SNAKE_LISTEN_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Fatalf("dimensions = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
	if cfg.TickRate != DefaultTickRate {
		t.Fatalf("TickRate = %d, want %d", cfg.TickRate, DefaultTickRate)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNAKE_WIDTH", "20")
	t.Setenv("SNAKE_HEIGHT", "30")
	t.Setenv("SNAKE_TICK_RATE", "5")
	t.Setenv("SNAKE_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SNAKE_READ_TIMEOUT", "3s")

	cfg := Load()
	if cfg.Width != 20 || cfg.Height != 30 {
		t.Fatalf("dimensions = %dx%d, want 20x30", cfg.Width, cfg.Height)
	}
	if cfg.TickRate != 5 {
		t.Fatalf("TickRate = %d, want 5", cfg.TickRate)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Fatalf("ReadTimeout = %v, want 3s", cfg.ReadTimeout)
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("SNAKE_WIDTH", "wide")
	if got := Load().Width; got != DefaultWidth {
		t.Fatalf("Width = %d, want default %d", got, DefaultWidth)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
		ok   bool
	}{
		{"default", func(*Config) {}, true},
		{"tiny grid", func(c *Config) { c.Width = 2 }, false},
		{"too many fruits", func(c *Config) { c.Width, c.Height, c.FruitCount = 3, 3, 4 }, false},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, false},
		{"no tail", func(c *Config) { c.InitialLength = 0 }, false},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.edit(&cfg)
		err := cfg.Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestTickInterval(t *testing.T) {
	cfg := Default()
	cfg.TickRate = 4
	if got := cfg.TickInterval(); got != 250*time.Millisecond {
		t.Fatalf("TickInterval = %v, want 250ms", got)
	}
}
