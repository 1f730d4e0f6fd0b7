package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zucenko/robots/model"
)

// Options configures a GameServer.
type Options struct {
	Settings Settings
	// Source lays out rounds; nil means generated boards.
	Source BoardSource
	Codec  Codec
	// Tick is the clock cadence of every room.
	Tick     time.Duration
	MaxRooms int
	// JoinTimeout closes a room nobody joined in time.
	JoinTimeout time.Duration
	// Seed feeds the per-room random sources; zero seeds from the clock.
	Seed int64
	// OnAward is the point-crediting hook, called from the room goroutine.
	OnAward func(room uuid.UUID, s model.Solution)
}

type GameServer struct {
	GameSessions map[uuid.UUID]*GameSession
	GameRequests chan GameRequest
	Upgrader     *websocket.Upgrader

	options  Options
	finished chan uuid.UUID
	rooms    int64
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_OVER
)

// GameSession owns one room: its RoundController and its players. Every
// mutation runs on the Loop goroutine.
type GameSession struct {
	ID                    uuid.UUID
	State                 GameSessionState
	Round                 *RoundController
	PlayerSessions        map[uuid.UUID]*PlayerSession
	Errors                chan uuid.UUID
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	codec       Codec
	tick        time.Duration
	joinTimeout time.Duration
	done        chan struct{}
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          uuid.UUID
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.Message
	quit           chan struct{}

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
