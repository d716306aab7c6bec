package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"snake-arena-server/api"
	"snake-arena-server/config"
	"snake-arena-server/rpc"
	"snake-arena-server/server"
)

// Command-line overrides. A flag only wins over the environment when it was
// set explicitly.
var (
	width, height, fruitCount, tickRate, initialLength int
	listenAddr, httpAddr, grpcAddr                     string
)

var rootCmd = &cobra.Command{
	Use:   "snake-arena-server",
	Short: "A multiplayer snake arena server",
	Long:  `Runs one shared snake arena: raw TCP and WebSocket game connections, an HTTP ops API and a gRPC health service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
	SilenceUsage: true,
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fruits") {
		cfg.FruitCount = fruitCount
	}
	if flags.Changed("tick-rate") {
		cfg.TickRate = tickRate
	}
	if flags.Changed("initial-length") {
		cfg.InitialLength = initialLength
	}
	if flags.Changed("listen") {
		cfg.ListenAddr = listenAddr
	}
	if flags.Changed("http") {
		cfg.HTTPAddr = httpAddr
	}
	if flags.Changed("grpc") {
		cfg.GRPCAddr = grpcAddr
	}
}

// run serves until ctx is cancelled or one of the listeners fails.
func run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := server.NewSession(cfg)

	gameLn, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening for game connections: %w", err)
	}
	grpcLn, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		gameLn.Close()
		return fmt.Errorf("listening for gRPC: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(cfg, session),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	health := rpc.NewServer()

	errc := make(chan error, 4)
	go func() { errc <- session.Run(ctx) }()
	go func() { errc <- session.Serve(ctx, gameLn) }()
	go func() { errc <- health.Serve(grpcLn) }()
	go func() {
		log.Printf("Server started on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("ListenAndServe: %w", err)
		}
	}()
	health.SetServing(true)

	select {
	case <-ctx.Done():
		log.Printf("Shutting down...")
	case err = <-errc:
		log.Printf("ERROR %v; shutting down", err)
	}

	health.SetServing(false)
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Printf("HTTP shutdown: %v", serr)
	}
	session.Shutdown()
	health.Stop()
	return err
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVar(&width, "width", config.DefaultWidth, "Width of the grid.")
	flags.IntVar(&height, "height", config.DefaultHeight, "Height of the grid.")
	flags.IntVar(&fruitCount, "fruits", config.DefaultFruitCount, "Number of fruits kept on the grid.")
	flags.IntVar(&tickRate, "tick-rate", config.DefaultTickRate, "World updates per second.")
	flags.IntVar(&initialLength, "initial-length", config.DefaultInitialLength, "Tail length of a newly spawned snake.")
	flags.StringVar(&listenAddr, "listen", config.DefaultListenAddr, "Address of the raw TCP game listener.")
	flags.StringVar(&httpAddr, "http", config.DefaultHTTPAddr, "Address of the HTTP API and WebSocket endpoint.")
	flags.StringVar(&grpcAddr, "grpc", config.DefaultGRPCAddr, "Address of the gRPC health service.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("snake-arena-server: %v", err)
	}
}
