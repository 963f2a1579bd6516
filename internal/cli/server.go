package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escape-game-service/internal/app"
	"escape-game-service/internal/config"
	"escape-game-service/internal/domain"
	"escape-game-service/internal/game"
	"escape-game-service/internal/infra/memory"
	pgstore "escape-game-service/internal/infra/postgres"
	redisstore "escape-game-service/internal/infra/redis"
	"escape-game-service/internal/levels"
	transport "escape-game-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(levels.Default())
	if pool != nil {
		loader = pgstore.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisstore.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	var attemptStore app.AttemptStore = memory.NewAttemptStore()
	var credStore app.CredentialStore = memory.NewCredentialStore(sampleTeams())
	if pool != nil {
		attemptStore = pgstore.NewAttemptStore(pool)
		credStore = pgstore.NewCredentialStore(pool)
	}

	var clock game.TimeSource = game.SystemTimeSource{}
	if redisClient != nil {
		clock = redisstore.NewTimeAuthority(redisClient)
	}

	service := app.NewGameService(credStore, attemptStore, bankRepo, clock)
	if redisClient != nil {
		service.SetLivenessStore(redisstore.NewLivenessStore(redisClient, redisTTL))
	}
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting game service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleTeams seeds the in-memory registry for demo runs without Postgres.
func sampleTeams() []memory.Credential {
	return []memory.Credential{
		{Team: domain.Team{TeamID: "team-hawkins", TeamName: "Hawkins AV Club", IsActive: true}, Password: "demogorgon"},
		{Team: domain.Team{TeamID: "team-lab", TeamName: "The Lab Rats", IsActive: true}, Password: "upside-down"},
	}
}
