package main

import (
	"net/http"

	"github.com/matryer/way"
)

const (
	URI_WS     = "/play/:room"
	URI_HEALTH = "/health"
)

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_HEALTH, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
