package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Game World Dimensions
const (
	DefaultWidth      = 50 // Grid width in cells
	DefaultHeight     = 50 // Grid height in cells
	DefaultFruitCount = 10
)

// Snake Defaults
const (
	DefaultInitialLength = 4 // Tail segments a new snake spawns with
	MinInitialLength     = 1
)

// Simulation Tick Rate
const (
	DefaultTickRate = 6 // ticks per second
	MaxTickRate     = 60
)

// Listen Addresses
const (
	DefaultListenAddr = ":1984"  // Raw TCP game transport
	DefaultHTTPAddr   = ":8080"  // HTTP API + WebSocket game transport
	DefaultGRPCAddr   = ":50051" // gRPC health service
)

// HTTP server timeouts
const (
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Width         int
	Height        int
	FruitCount    int
	TickRate      int
	InitialLength int

	ListenAddr   string
	HTTPAddr     string
	GRPCAddr     string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		FruitCount:    DefaultFruitCount,
		TickRate:      DefaultTickRate,
		InitialLength: DefaultInitialLength,
		ListenAddr:    DefaultListenAddr,
		HTTPAddr:      DefaultHTTPAddr,
		GRPCAddr:      DefaultGRPCAddr,
		CORSOrigins:   []string{"*"},
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
	}
}

// Load reads an optional .env file and then the SNAKE_* environment variables,
// falling back to the defaults for anything unset or unparsable.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Config: no .env file loaded, using process environment")
	} else {
		log.Println("Config: loaded environment variables from .env")
	}

	def := Default()
	return Config{
		Width:         getEnvInt("SNAKE_WIDTH", def.Width),
		Height:        getEnvInt("SNAKE_HEIGHT", def.Height),
		FruitCount:    getEnvInt("SNAKE_FRUIT_COUNT", def.FruitCount),
		TickRate:      getEnvInt("SNAKE_TICK_RATE", def.TickRate),
		InitialLength: getEnvInt("SNAKE_INITIAL_LENGTH", def.InitialLength),
		ListenAddr:    getEnv("SNAKE_LISTEN_ADDR", def.ListenAddr),
		HTTPAddr:      getEnv("SNAKE_HTTP_ADDR", def.HTTPAddr),
		GRPCAddr:      getEnv("SNAKE_GRPC_ADDR", def.GRPCAddr),
		CORSOrigins:   splitList(getEnv("SNAKE_CORS_ORIGINS", strings.Join(def.CORSOrigins, ","))),
		ReadTimeout:   parseDuration(getEnv("SNAKE_READ_TIMEOUT", ""), def.ReadTimeout),
		WriteTimeout:  parseDuration(getEnv("SNAKE_WRITE_TIMEOUT", ""), def.WriteTimeout),
	}
}

// Validate reports the first setting that would make the world unplayable.
func (c Config) Validate() error {
	switch {
	case c.Width < 3 || c.Height < 3:
		return fmt.Errorf("grid must be at least 3x3, got %dx%d", c.Width, c.Height)
	case c.FruitCount < 0:
		return fmt.Errorf("fruit count must not be negative, got %d", c.FruitCount)
	case c.FruitCount >= (c.Width-1)*(c.Height-1):
		return fmt.Errorf("fruit count %d does not fit a %dx%d grid", c.FruitCount, c.Width, c.Height)
	case c.TickRate <= 0 || c.TickRate > MaxTickRate:
		return fmt.Errorf("tick rate must be in 1..%d, got %d", MaxTickRate, c.TickRate)
	case c.InitialLength < MinInitialLength:
		return fmt.Errorf("initial length must be at least %d, got %d", MinInitialLength, c.InitialLength)
	}
	return nil
}

// TickInterval is the target period between two simulation ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] Config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
