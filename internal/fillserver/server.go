// Package fillserver hosts the fill station's websocket command
// surface on an h2c-wrapped HTTP server (spec.md §4.5, §6), grounded
// on the teacher's internal/server.Server Start/buildHandler pattern.
package fillserver

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/cornellrocketryteam/control-core/internal/command"
	"github.com/cornellrocketryteam/control-core/internal/config"
	"github.com/cornellrocketryteam/control-core/internal/iohw"
	"github.com/cornellrocketryteam/control-core/internal/middleware"
)

// Server hosts the /ws command endpoint.
type Server struct {
	cfg           *config.Config
	dispatcher    *command.Dispatcher
	adc           *iohw.AdcReadings
	activeClients *atomic.Int64
	logger        *log.Logger
	mux           *http.ServeMux
}

// New wires a Server against its shared dependencies.
func New(cfg *config.Config, dispatcher *command.Dispatcher, adc *iohw.AdcReadings, activeClients *atomic.Int64, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, dispatcher: dispatcher, adc: adc, activeClients: activeClients, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

func (s *Server) buildHandler() http.Handler {
	handler := http.Handler(s.mux)
	handler = middleware.CORS(s.cfg.Server.CORSOrigins)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)
	return h2c.NewHandler(handler, &http2.Server{})
}

// Start listens on the configured host:port (spec.md §6 "Port 9000 TCP").
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	handler := s.buildHandler()
	s.logger.Printf("fill-station command server starting on %s", addr)
	return http.ListenAndServe(addr, handler)
}
