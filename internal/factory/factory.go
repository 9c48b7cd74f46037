package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/vstetris/internal/dependencies/clock"
	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/relay"
	"github.com/mcoot/vstetris/internal/services/bag"
	"github.com/mcoot/vstetris/internal/services/board"
	"github.com/mcoot/vstetris/internal/services/bot"
	"github.com/mcoot/vstetris/internal/services/game"
	"github.com/mcoot/vstetris/internal/storage"
	"github.com/mcoot/vstetris/internal/storage/memory"
	redisstorage "github.com/mcoot/vstetris/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	GameController *game.Controller
	BotService     *bot.Service
	Hub            *relay.Hub

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GameConfig holds fall and lock timings (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// RelayConfig holds websocket settings (optional)
	// If zero value, defaults to relay.DefaultConfig()
	RelayConfig relay.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	gameCfg := cfg.GameConfig
	if gameCfg.LockDelay == 0 {
		gameCfg = game.DefaultConfig()
	}
	relayCfg := cfg.RelayConfig
	if relayCfg.SendBufferSize == 0 {
		relayCfg = relay.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), gameCfg, relayCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, gameCfg game.Config, relayCfg relay.Config, logger *slog.Logger) *App {
	boardService := board.New(rnd)
	gameController := game.NewController(gameCfg, boardService, logger)
	botService := bot.NewService(gameController, bot.DefaultStrategies(rnd), logger)
	hub := relay.NewHub(relayCfg, store, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		BoardService:   boardService,
		GameController: gameController,
		BotService:     botService,
		Hub:            hub,
		Logger:         logger,
	}
}

// NewGame creates an idle game that draws from a fresh 7-bag
func (a *App) NewGame(mode model.Mode) *model.GameState {
	return a.GameController.NewGame(mode, bag.New(a.Random))
}
