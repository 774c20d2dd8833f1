// Package web serves the browser UI and hosts one match per WebSocket
// connection.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

//go:embed static
var staticFiles embed.FS

// MsgJoin is the first message a browser sends.
const MsgJoin = "join"

// JoinRequest asks for a new match with the browser at Seat.
type JoinRequest struct {
	Type    string `json:"type"`
	Players int    `json:"players"`
	Seat    int    `json:"seat"`
	Seed    int64  `json:"seed,omitempty"`
}

// RulesInfo is the JSON representation of the rule set for /api/rules.
type RulesInfo struct {
	MinPlayers  int            `json:"minPlayers"`
	MaxPlayers  int            `json:"maxPlayers"`
	RevealLimit int            `json:"revealLimit"`
	Deck        []DeckInfo     `json:"deck"`
	Roles       []game.Role    `json:"roles"`
	Profiles    []game.Profile `json:"profiles"`
}

// DeckInfo is one line of the deck composition.
type DeckInfo struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Config configures the server.
type Config struct {
	Rules       *game.RuleSet
	AutoAdvance time.Duration
	Log         logrus.FieldLogger
}

// Server is the poisontraders web UI server.
type Server struct {
	rules       *game.RuleSet
	autoAdvance time.Duration
	log         logrus.FieldLogger
	mux         *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	s := &Server{
		rules:       cfg.Rules,
		autoAdvance: cfg.AutoAdvance,
		log:         cfg.Log,
		mux:         http.NewServeMux(),
	}
	if s.rules == nil {
		s.rules = game.DefaultRules()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /api/rules", s.handleRules)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	info := RulesInfo{
		MinPlayers:  s.rules.MinPlayers,
		MaxPlayers:  s.rules.MaxPlayers(),
		RevealLimit: s.rules.RevealLimit,
		Roles:       s.rules.Roles,
		Profiles:    s.rules.Profiles,
	}
	for _, e := range s.rules.Deck {
		info.Deck = append(info.Deck, DeckInfo{Type: e.Type.String(), Count: e.Count})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	clog := s.log.WithField("client", uuid.NewString())

	var join JoinRequest
	if err := wsjson.Read(ctx, conn, &join); err != nil {
		clog.WithError(err).Debug("read join")
		return
	}
	if join.Type != MsgJoin {
		conn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	m, err := s.newMatch(join, clog)
	if err != nil {
		wsjson.Write(ctx, conn, protocol.ErrorMessage(join.Seat, err))
		conn.Close(websocket.StatusNormalClosure, "could not start match")
		return
	}
	defer m.Close()
	clog = clog.WithField("match", m.ID())
	clog.WithFields(logrus.Fields{"players": join.Players, "seat": join.Seat}).Info("browser joined")

	notify := make(chan struct{}, 1)
	unsubscribe := m.Subscribe(func(*game.GameState) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	lastSeq := 0
	if err := push(ctx, conn, m, join.Seat, protocol.MsgWelcome, &lastSeq); err != nil {
		return
	}

	// Match → browser
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
			}
			if err := push(ctx, conn, m, join.Seat, protocol.MsgState, &lastSeq); err != nil {
				clog.WithError(err).Debug("websocket write")
				cancel()
				return
			}
		}
	}()

	if err := m.Start(); err != nil {
		wsjson.Write(ctx, conn, protocol.ErrorMessage(join.Seat, err))
		return
	}

	// Browser → match
	for {
		var cmd protocol.Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			if !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
				clog.WithError(err).Debug("websocket read")
			}
			break
		}
		if err := cmd.Apply(m, join.Seat); err != nil {
			if werr := wsjson.Write(ctx, conn, protocol.ErrorMessage(join.Seat, err)); werr != nil {
				break
			}
		}
	}
	cancel()
	<-writerDone
	clog.Info("browser left")
}

func (s *Server) newMatch(join JoinRequest, clog logrus.FieldLogger) (*match.Match, error) {
	if join.Seat < 0 || join.Seat >= join.Players {
		return nil, fmt.Errorf("seat %d is not at a %d player table", join.Seat, join.Players)
	}
	return match.New(match.Config{
		Game: game.Config{
			NumPlayers: join.Players,
			HumanSeats: []int{join.Seat},
			Seed:       join.Seed,
			Rules:      s.rules,
		},
		AutoAdvance: s.autoAdvance,
		Log:         clog,
	})
}

// push sends the seat's view plus every event after lastSeq.
func push(ctx context.Context, conn *websocket.Conn, m *match.Match, seat int, typ string, lastSeq *int) error {
	events := m.Events(*lastSeq)
	msg := protocol.StateMessage(m, seat)
	msg.Type = typ
	if n := len(events); n > 0 {
		*lastSeq = events[n-1].Seq
		msg.Events = protocol.BuildEventViews(events, 0)
	}
	return wsjson.Write(ctx, conn, msg)
}
