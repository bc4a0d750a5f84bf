package fillserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"

	"github.com/cornellrocketryteam/control-core/internal/command"
)

const (
	recvRaceInterval = 50 * time.Millisecond
	heartbeatTimeout = 15 * time.Second
)

// handleWS implements spec.md §4.5's per-client handler: race a 50ms
// timer against message receive, dispatch commands, stream ADC data
// while `streaming` is on, and enforce a 15s heartbeat timeout.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.Server.CORSOrigins,
	})
	if err != nil {
		s.logger.Printf("fillserver: accept: %v", err)
		return
	}
	defer conn.CloseNow()

	s.activeClients.Add(1)
	defer s.activeClients.Add(-1)

	lastHeartbeat := time.Now()
	var lastSentTS int64

	ctx := r.Context()
	for {
		if time.Since(lastHeartbeat) > heartbeatTimeout {
			conn.Close(websocket.StatusPolicyViolation, "heartbeat timeout")
			return
		}

		msgType, data, err := readWithTimeout(ctx, conn, recvRaceInterval)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			if s.dispatcher.Streaming() {
				s.maybeSendAdcData(ctx, conn, &lastSentTS)
			}
			continue
		case errors.Is(err, errConnClosed):
			return
		case err != nil:
			s.logger.Printf("fillserver: receive: %v", err)
			return
		}

		lastHeartbeat = time.Now()
		if msgType != websocket.MessageText {
			continue
		}

		cmd, err := command.Parse(data)
		if err != nil {
			s.sendResponse(ctx, conn, command.Response{Type: command.TypeError, Message: err.Error()})
			continue
		}
		resp := s.dispatcher.Dispatch(cmd)
		if err := s.sendResponse(ctx, conn, resp); err != nil {
			s.logger.Printf("fillserver: send: %v", err)
			return
		}
	}
}

var errConnClosed = errors.New("fillserver: connection closed")

// readWithTimeout races conn.Read against a fixed-duration timer
// (spec.md §4.5 step 3's "50ms timer vs message receive").
func readWithTimeout(ctx context.Context, conn *websocket.Conn, d time.Duration) (websocket.MessageType, []byte, error) {
	rctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	msgType, data, err := conn.Read(rctx)
	if err != nil {
		if rctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return 0, nil, context.DeadlineExceeded
		}
		return 0, nil, errConnClosed
	}
	return msgType, data, nil
}

func (s *Server) maybeSendAdcData(ctx context.Context, conn *websocket.Conn, lastSentTS *int64) {
	ts, valid := s.adc.Tick()
	if ts == *lastSentTS {
		return
	}
	*lastSentTS = ts

	resp := command.Response{
		Type:        command.TypeAdcData,
		TimestampMS: ts,
	}
	validPtr := valid
	resp.Valid = &validPtr
	resp.Adc1 = s.channelReadings("adc1")
	resp.Adc2 = s.channelReadings("adc2")

	if err := s.sendResponse(ctx, conn, resp); err != nil {
		s.logger.Printf("fillserver: stream adc_data: %v", err)
	}
}

func (s *Server) channelReadings(adcLabel string) []command.ChannelReading {
	out := make([]command.ChannelReading, 0, 4)
	for ch := 0; ch < 4; ch++ {
		r, ok := s.adc.Get(adcLabel + ":" + strconv.Itoa(ch))
		if !ok {
			out = append(out, command.ChannelReading{})
			continue
		}
		cr := command.ChannelReading{Raw: r.Raw}
		if r.Valid {
			cr.Voltage = float32(r.Voltage)
			scaled := float32(r.Scaled)
			cr.Scaled = &scaled
		}
		out = append(out, cr)
	}
	return out
}

func (s *Server) sendResponse(ctx context.Context, conn *websocket.Conn, resp command.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data)
}
