package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "COUNTDOWN_SECONDS", "TICK_MILLIS", "WIRE_CODEC", "BOARD_FILE", "SEED", "MIN_SINGLE_ROBOT_MOVES"} {
		t.Setenv(key, "")
	}
	c := Load()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "json", c.WireCodec)
	assert.Equal(t, int64(0), c.Seed)
	assert.Equal(t, 60, c.CountdownSeconds)
	assert.Equal(t, 2, c.MinSingleRobotMoves)
	assert.Equal(t, time.Second, c.TickInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COUNTDOWN_SECONDS", "30")
	t.Setenv("ROUNDS_UNTIL_REGEN", "0")
	t.Setenv("TICK_MILLIS", "250")
	t.Setenv("SEED", "42")
	t.Setenv("WIRE_CODEC", "msgpack")
	t.Setenv("BOARD_FILE", "boards/classic.txt")

	c := Load()

	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 30, c.CountdownSeconds)
	assert.Equal(t, 0, c.RoundsUntilRegen)
	assert.Equal(t, 250*time.Millisecond, c.TickInterval)
	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, "msgpack", c.WireCodec)
	assert.Equal(t, "boards/classic.txt", c.BoardFile)
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("MAX_ROOMS", "many")
	assert.Equal(t, 64, Load().MaxRooms)
}
