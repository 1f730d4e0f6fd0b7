package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the application's configuration values.
type Config struct {
	Port     string // HTTP listen port
	LogLevel string // logrus level name
	MaxRooms int    // Maximum number of concurrent rooms, 0 for no limit

	CountdownSeconds    int           // Seconds left to beat the first solution
	MinSingleRobotMoves int           // Shortest accepted single-robot solution
	RoundsUntilRegen    int           // Awarded rounds before the board is regenerated
	TickInterval        time.Duration // Room clock cadence

	Seed      int64  // Random seed, 0 seeds from the clock
	WireCodec string // json, gob or msgpack
	BoardFile string // Optional fixed board layout
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = Load()

// Load reads the configuration, loading a .env file first if there is one.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("[APP] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		MaxRooms: getEnvAsInt("MAX_ROOMS", 64),

		CountdownSeconds:    getEnvAsInt("COUNTDOWN_SECONDS", 60),
		MinSingleRobotMoves: getEnvAsInt("MIN_SINGLE_ROBOT_MOVES", 2),
		RoundsUntilRegen:    getEnvAsInt("ROUNDS_UNTIL_REGEN", 5),
		TickInterval:        time.Duration(getEnvAsInt("TICK_MILLIS", 1000)) * time.Millisecond,

		Seed:      int64(getEnvAsInt("SEED", 0)),
		WireCodec: getEnv("WIRE_CODEC", "json"),
		BoardFile: getEnv("BOARD_FILE", ""),
	}
}

// getEnv returns the value of key or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	return value
}

// getEnvAsInt returns key parsed as an integer, or fallback when it is unset
// or cannot be parsed.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warnf("[APP] Environment variable %s must be an integer, using %d: %v", key, fallback, err)
		return fallback
	}
	return value
}
