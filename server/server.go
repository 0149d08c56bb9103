// Package server answers protocol requests from a unix socket by running the
// attendance workflow headlessly.
package server

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abihf/rollcall"
	"github.com/abihf/rollcall/logger"
	"github.com/abihf/rollcall/protocol"
)

type Server struct {
	App *rollcall.App
	// Timeout bounds one MARK request. Zero means no limit.
	Timeout time.Duration
	Log     *zerolog.Logger
	// Pin, when set, runs on the goroutine serving a request before the
	// workflow starts; the returned func undoes it.
	Pin func() (func(), error)

	// one workflow at a time: there is only one camera
	mu sync.Mutex
}

func (s *Server) log() *zerolog.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}

// Serve accepts connections until ln is closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return errors.Wrap(err, "Accept error")
		}
		go s.handle(ctx, c)
	}
}

func (s *Server) handle(ctx context.Context, c net.Conn) {
	defer c.Close()

	reader := protocol.NewReader(c)
	for {
		req, err := reader.Req()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log().Warn().Err(err).Msg("Can not read request")
			}
			return
		}

		res := s.Do(ctx, req)
		if err := protocol.WriteRes(c, res); err != nil {
			s.log().Warn().Err(err).Msg("Can not write response")
			return
		}
	}
}

// Do executes one request.
func (s *Server) Do(ctx context.Context, req *protocol.Req) *protocol.Res {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log().With().Str("action", string(req.Action)).Str("client", req.Params["client"]).Logger()
	log.Info().Msg("Handling request")

	if s.Pin != nil {
		unpin, err := s.Pin()
		if err != nil {
			log.Warn().Err(err).Msg("Can not pin worker thread")
		} else {
			defer unpin()
		}
	}

	var notices rollcall.Notices
	app := *s.App
	app.Notifier = &notices

	res := &protocol.Res{}
	var err error
	switch req.Action {
	case protocol.ActionMark:
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		var out *rollcall.Outcome
		out, err = app.TakeAttendance(ctx)
		if out != nil {
			res.Name = out.Name
		}

	case protocol.ActionList:
		res.Records, err = app.Records(ctx)

	case protocol.ActionReset:
		err = app.ResetLedger()

	default:
		err = errors.Errorf("unknown action %q", req.Action)
	}

	for _, n := range notices {
		res.Notices = append(res.Notices, protocol.Notice{Kind: n.Kind.String(), Message: n.Message})
	}
	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		res.Status = protocol.StatusError
		res.Error = err.Error()
		return res
	}
	res.Status = protocol.StatusSuccess
	return res
}
