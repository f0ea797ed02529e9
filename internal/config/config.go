package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jaminalder/cubechess/internal/domain"
	"github.com/jaminalder/cubechess/internal/search"
)

var ErrInvalid = errors.New("invalid config")

// Config is the typed view of the loaded settings.
type Config struct {
	Addr     string     `mapstructure:"addr"`
	LogLevel string     `mapstructure:"logLevel"`
	Game     GameConfig `mapstructure:"game"`
	AI       AIConfig   `mapstructure:"ai"`
}

type GameConfig struct {
	SideLength uint32 `mapstructure:"sideLength"`
}

// AIConfig controls the computer player.
type AIConfig struct {
	Depth   int            `mapstructure:"depth"`
	Timeout time.Duration  `mapstructure:"timeout"`
	Weights search.Weights `mapstructure:"weights"`
}

func setDefaults() {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("game.sideLength", 8)

	w := search.DefaultWeights()
	viper.SetDefault("ai.depth", 3)
	viper.SetDefault("ai.timeout", "10s")
	viper.SetDefault("ai.weights.pawn", w.Pawn)
	viper.SetDefault("ai.weights.knight", w.Knight)
	viper.SetDefault("ai.weights.bishop", w.Bishop)
	viper.SetDefault("ai.weights.rook", w.Rook)
	viper.SetDefault("ai.weights.queen", w.Queen)
	viper.SetDefault("ai.weights.king", w.King)
}

// Load sets default values, reads the config file at path when path is not
// empty, and applies CUBECHESS_* environment overrides (CUBECHESS_AI_DEPTH
// for ai.depth).
func Load(path string) (Config, error) {
	setDefaults()

	viper.SetEnvPrefix("cubechess")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges the rest of the program relies on.
func (c Config) Validate() error {
	if c.Game.SideLength < domain.MinLayoutSideLength || c.Game.SideLength > domain.MaxSideLength {
		return fmt.Errorf("%w: game.sideLength must be in %d..%d, got %d",
			ErrInvalid, domain.MinLayoutSideLength, domain.MaxSideLength, c.Game.SideLength)
	}
	if c.AI.Depth < 1 || c.AI.Depth > search.MaxDepth {
		return fmt.Errorf("%w: ai.depth must be in 1..%d, got %d", ErrInvalid, search.MaxDepth, c.AI.Depth)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("%w: ai.timeout must not be negative", ErrInvalid)
	}
	return nil
}
