// Package config provides Viper-based configuration loading for the donut server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/donut/internal/game/rules"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ReplayDelay paces entries streamed over the replay websocket.
	ReplayDelay time.Duration `mapstructure:"replay_delay"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	// ConnectTimeout bounds dialing and the startup ping; zero leaves pgx's default.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	// ApplicationName is reported to the server as application_name.
	ApplicationName string `mapstructure:"application_name"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for the session save store.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	// TTL expires idle saves; zero keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`
}

// Save and leaderboard backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StorageConfig selects the persistence backends.
type StorageConfig struct {
	// Saves is one of memory, file, redis, postgres.
	Saves string `mapstructure:"saves"`
	// Dir is the save directory for the file backend.
	Dir string `mapstructure:"dir"`
	// Leaderboard is one of memory, postgres.
	Leaderboard string `mapstructure:"leaderboard"`
}

// NeedsPostgres reports whether any backend requires a database pool.
func (s StorageConfig) NeedsPostgres() bool {
	return s.Saves == BackendPostgres || s.Leaderboard == BackendPostgres
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Service is attached to every entry as the "service" field when set.
	Service string `mapstructure:"service"`
	// Output is "stdout", "stderr" or a file path. Empty means stderr.
	Output string `mapstructure:"output"`
}

// GameConfig holds the balance rules and the randomness seed.
type GameConfig struct {
	// Seed makes every game reproducible when non-zero.
	Seed  uint64      `mapstructure:"seed"`
	Rules rules.Rules `mapstructure:",squash"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateServer(c.Server),
		validateStorage(c.Storage),
		validateLogging(c.Logging),
		c.Game.Rules.Validate(),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.NeedsPostgres() {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.Saves == BackendRedis {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.ReplayDelay < 0 {
		errs = append(errs, "server.replay_delay must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if d.MaxConnIdleTime < 0 {
		errs = append(errs, "database.max_conn_idle_time must not be negative")
	}
	if d.ConnectTimeout < 0 {
		errs = append(errs, "database.connect_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.TTL < 0 {
		errs = append(errs, "redis.ttl must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Saves {
	case BackendMemory, BackendRedis, BackendPostgres:
	case BackendFile:
		if s.Dir == "" {
			errs = append(errs, "storage.dir must not be empty for the file backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.saves must be one of [memory, file, redis, postgres], got %q", s.Saves))
	}
	switch s.Leaderboard {
	case BackendMemory, BackendPostgres:
	default:
		errs = append(errs, fmt.Sprintf("storage.leaderboard must be one of [memory, postgres], got %q", s.Leaderboard))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and DONUT_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DONUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.replay_delay", "250ms")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "donut")
	v.SetDefault("database.password", "donut")
	v.SetDefault("database.name", "donut")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.application_name", "donut")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "donut:session:")
	v.SetDefault("redis.ttl", "168h")

	v.SetDefault("storage.saves", BackendMemory)
	v.SetDefault("storage.dir", "saves")
	v.SetDefault("storage.leaderboard", BackendMemory)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.service", "donut")
	v.SetDefault("logging.output", "stderr")

	d := rules.Default()
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.fight_interval", d.FightInterval)
	v.SetDefault("game.boss_interval", d.BossInterval)
	v.SetDefault("game.monster_chance", d.MonsterChance)
	v.SetDefault("game.spell_chance", d.SpellChance)
	v.SetDefault("game.max_combat_rounds", d.MaxCombatRounds)
	v.SetDefault("game.fist_damage", d.FistDamage)
	v.SetDefault("game.counter_attack_max_multiplier", d.CounterAttackMaxMultiplier)
	v.SetDefault("game.xp_per_difficulty", d.XPPerDifficulty)
	v.SetDefault("game.boss_xp_multiplier", d.BossXPMultiplier)
	v.SetDefault("game.starting_health", d.StartingHealth)
	v.SetDefault("game.starting_mana", d.StartingMana)
	v.SetDefault("game.starting_max_mana", d.StartingMaxMana)
	v.SetDefault("game.xp_base", d.XPBase)
	v.SetDefault("game.xp_growth", d.XPGrowth)
	v.SetDefault("game.health_per_level", d.HealthPerLevel)
	v.SetDefault("game.mana_per_level", d.ManaPerLevel)
	v.SetDefault("game.mana_regen_bonus", d.ManaRegenBonus)
}
