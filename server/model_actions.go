package server

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/robots/model"
)

const (
	requestTimeout = 200 * time.Millisecond
	sendQueueSize  = 32
	defaultTick    = time.Second
	defaultJoin    = 10 * time.Second
)

var errUnknownFrame = errors.New("unknown frame type")

func NewGameServer(o Options) *GameServer {
	if o.Source == nil {
		o.Source = GeneratedBoards{}
	}
	if o.Codec == nil {
		o.Codec = jsonCodec{}
	}
	if o.Tick <= 0 {
		o.Tick = defaultTick
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = defaultJoin
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return &GameServer{
		GameSessions: make(map[uuid.UUID]*GameSession),
		GameRequests: make(chan GameRequest),
		Upgrader:     &websocket.Upgrader{},
		options:      o,
		finished:     make(chan uuid.UUID),
	}
}

// HandleHttpCall joins the room named in the path, creating it when missing,
// and holds the connection until the player session ends.
func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, err := uuid.Parse(way.Param(r.Context(), "room"))
		if err != nil {
			log.Warnf("HandleHttpCall bad room id: %v", err)
			w.WriteHeader(GAME_INVALIDE.ToHttp())
			return
		}
		logger := log.WithField("room", room)

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Room: room, GameContextAwaiting: gcas}:
		case <-time.After(requestTimeout):
			logger.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				logger.Warnf("HandleHttpCall room refused, code:%d", gca.ResponseCode)
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(requestTimeout):
			logger.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already answered the request
			logger.Warnf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{Con: con, GameOver: gameOver}:
		case <-gca.GameSession.done:
			logger.Warn("HandleHttpCall room closed before join")
			return
		case <-time.After(requestTimeout):
			logger.Warn("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			return
		}

		select {
		case <-gameOver:
		case <-gca.GameSession.done:
		}
	}
}

// Loop owns the room registry until ctx is done.
func (s *GameServer) Loop(ctx context.Context) {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Info("GameServer.Loop stopping")
			return
		case id := <-s.finished:
			delete(s.GameSessions, id)
			log.WithField("room", id).Info("GameServer.Loop room closed")
		case gameReq := <-s.GameRequests:
			gameReq.GameContextAwaiting <- s.findOrCreate(ctx, gameReq.Room)
		}
	}
}

func (s *GameServer) findOrCreate(ctx context.Context, id uuid.UUID) GameContextAwaiting {
	if gs, ok := s.GameSessions[id]; ok {
		return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	}
	if s.options.MaxRooms > 0 && len(s.GameSessions) >= s.options.MaxRooms {
		return GameContextAwaiting{ResponseCode: GAME_FULL}
	}

	s.rooms++
	rng := rand.New(rand.NewSource(s.options.Seed + s.rooms))
	round := NewRoundController(s.options.Settings, s.options.Source, rng)
	if hook := s.options.OnAward; hook != nil {
		round.OnAward = func(sol model.Solution) { hook(id, sol) }
	}
	if _, err := round.NewRound(); err != nil {
		log.WithField("room", id).Errorf("create GameSession: %v", err)
		return GameContextAwaiting{ResponseCode: GAME_ERR}
	}

	gs := NewGameSession(id, round, s.options.Codec, s.options.Tick, s.options.JoinTimeout)
	s.GameSessions[id] = gs
	go gs.Loop(ctx, s.finished)
	log.WithField("room", id).Info("create GameSession")
	return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
}

func NewGameSession(id uuid.UUID, round *RoundController, codec Codec, tick, joinTimeout time.Duration) *GameSession {
	return &GameSession{
		ID:                    id,
		State:                 GS_NEW,
		Round:                 round,
		PlayerSessions:        make(map[uuid.UUID]*PlayerSession),
		Errors:                make(chan uuid.UUID),
		Events:                make(chan PlayerEvent, sendQueueSize),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		codec:                 codec,
		tick:                  tick,
		joinTimeout:           joinTimeout,
		done:                  make(chan struct{}),
	}
}

// Loop serializes joins, leaves, move batches and clock ticks of the room.
// It ends when the last player leaves, when nobody joins within the join
// timeout, or when ctx is done.
func (gs *GameSession) Loop(ctx context.Context, finished chan<- uuid.UUID) {
	logger := log.WithField("room", gs.ID)
	logger.Info("GameSession.Loop start")
	ticker := time.NewTicker(gs.tick)
	idle := time.NewTimer(gs.joinTimeout)
	defer func() {
		ticker.Stop()
		idle.Stop()
		gs.State = GS_OVER
		for id := range gs.PlayerSessions {
			gs.removePlayer(id)
		}
		close(gs.done)
		select {
		case finished <- gs.ID:
		case <-ctx.Done():
		}
		logger.Info("GameSession.Loop end")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case pcr := <-gs.PlayerConnectRequests:
			ps := gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			for _, m := range gs.Round.Snapshot() {
				ps.send(m)
			}
		case <-idle.C:
			if len(gs.PlayerSessions) == 0 {
				logger.Warn("GameSession.Loop nobody joined, closing")
				return
			}
		case id := <-gs.Errors:
			gs.removePlayer(id)
			if len(gs.PlayerSessions) == 0 {
				return
			}
		case pe := <-gs.Events:
			gs.handleEvent(pe)
		case <-ticker.C:
			msgs, err := gs.Round.Tick()
			if err != nil {
				logger.Errorf("GameSession tick: %v", err)
			}
			gs.broadcast(msgs)
		}
	}
}

func (gs *GameSession) handleEvent(pe PlayerEvent) {
	ps, ok := gs.PlayerSessions[pe.Player]
	if !ok {
		return
	}
	logger := log.WithFields(log.Fields{"room": gs.ID, "player": pe.Player})

	switch pe.Message.Type {
	case model.ClientMove:
		moves := pe.Message.ToMoves()
		report, msgs := gs.Round.ApplyMoves(pe.Player, moves)
		for i, err := range report.Errors {
			if err != nil {
				logger.Warnf("move %d skipped: %v", i, err)
				ps.send(model.ErrorMessage(err))
			}
		}
		if report.Solved {
			ps.send(model.RobotsMessage(report.Robots))
		}
		gs.broadcast(msgs)
	case model.ClientNewRound:
		msgs, err := gs.Round.NewRound()
		if err != nil {
			logger.Errorf("new round: %v", err)
			ps.send(model.ErrorMessage(err))
			return
		}
		gs.broadcast(msgs)
	default:
		logger.Warnf("frame type %q", pe.Message.Type)
		ps.send(model.ErrorMessage(errUnknownFrame))
	}
}

func (gs *GameSession) broadcast(msgs []model.Message) {
	for _, ps := range gs.PlayerSessions {
		for _, m := range msgs {
			ps.send(m)
		}
	}
}

func (gs *GameSession) addPlayer(conn *websocket.Conn, gameOver chan struct{}) *PlayerSession {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             uuid.New(),
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.Message, sendQueueSize),
		quit:           make(chan struct{}),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	ps.State = PS_PLAY
	gs.PlayerSessions[ps.Id] = ps
	log.WithFields(log.Fields{"room": gs.ID, "player": ps.Id}).Info("GameSession.addPlayer")
	return ps
}

func (gs *GameSession) removePlayer(id uuid.UUID) {
	ps, ok := gs.PlayerSessions[id]
	if !ok {
		return
	}
	delete(gs.PlayerSessions, id)
	close(ps.quit)
	close(ps.GameOver)
	log.WithFields(log.Fields{"room": gs.ID, "player": id}).Info("GameSession.removePlayer")
}

// send queues m without blocking; a full queue drops it.
func (ps *PlayerSession) send(m model.Message) {
	select {
	case ps.MessagesToSend <- m:
	default:
		log.WithField("player", ps.Id).Warnf("dropping %s message, send queue FULL", m.Action)
	}
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.quit:
	case <-ps.GameSession.done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := log.WithField("player", ps.Id)
	logger.Debug("LoopChannelRead STARTED")
	defer func() {
		logger.Debugf("LoopChannelRead ENDED after %d messages, %d pings", ps.DebugInMessages, ps.DebugPings)
	}()
	codec := ps.GameSession.codec
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			logger.Infof("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			return
		}
		cm := model.ClientMessage{}
		if err := codec.Decode(r, &cm); err != nil {
			logger.Warnf("cant decode: %v", err)
			ps.send(model.ErrorMessage(err))
			continue
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Message: cm}:
		case <-ps.quit:
			return
		case <-ps.GameSession.done:
			return
		}
	}
}

// LoopChannelWrite is the only writer of data frames on the connection.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := log.WithField("player", ps.Id)
	codec := ps.GameSession.codec
	for {
		select {
		case <-ps.quit:
			logger.Debugf("LoopChannelWrite ENDED after %d messages", ps.DebugOutMessages)
			return
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(codec.FrameType())
			if err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
				ps.fail()
				return
			}
			if err := codec.Encode(w, mes); err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
				ps.fail()
				return
			}
			if err := w.Close(); err != nil {
				logger.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
				ps.fail()
				return
			}
			ps.DebugOutMessages++
		}
	}
}
