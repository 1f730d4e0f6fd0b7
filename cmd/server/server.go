package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/robots/config"
	"github.com/zucenko/robots/model"
	"github.com/zucenko/robots/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	cfg := config.Envs
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	codec, err := server.NewCodec(cfg.WireCodec)
	if err != nil {
		log.Fatalln(err)
	}

	var source server.BoardSource = server.GeneratedBoards{}
	if cfg.BoardFile != "" {
		fixture, err := server.LoadBoard(cfg.BoardFile)
		if err != nil {
			log.Fatalln(err)
		}
		source = fixture
	}

	Server := Server{
		GameServer: server.NewGameServer(server.Options{
			Settings: server.Settings{
				Countdown:           cfg.CountdownSeconds,
				MinSingleRobotMoves: cfg.MinSingleRobotMoves,
				RoundsUntilRegen:    cfg.RoundsUntilRegen,
			},
			Source:   source,
			Codec:    codec,
			Tick:     cfg.TickInterval,
			MaxRooms: cfg.MaxRooms,
			Seed:     cfg.Seed,
			OnAward: func(room uuid.UUID, s model.Solution) {
				log.WithFields(log.Fields{
					"room":      room,
					"submitter": s.Submitter,
					"moves":     s.Moves,
					"robots":    s.Robots,
				}).Info("round awarded")
			},
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go Server.GameServer.Loop(ctx)
	Server.routes()

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: Server.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Infof("Listening on port %s, %s frames", cfg.Port, codec.Name())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}
