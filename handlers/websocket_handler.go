package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/Dosada05/bracket-live/models"
	"github.com/Dosada05/bracket-live/realtime"
	"github.com/Dosada05/bracket-live/services"
	"github.com/gorilla/websocket"
)

// Inbound websocket message types.
const (
	msgUpdatePlayers   = "updatePlayers"
	msgAddPlayer       = "addPlayer"
	msgRemovePlayer    = "removePlayer"
	msgStartTournament = "startTournament"
	msgSelectWinner    = "selectWinner"
	msgToggleWinner    = "toggleWinner"
	msgResetTournament = "resetTournament"
)

var (
	errUnknownMessageType = errors.New("unknown message type")
	errMalformedMessage   = errors.New("malformed message")
)

// inboundMessage is the flat frame sent by browser clients, for example
// {"type":"selectWinner","roundIndex":0,"matchIndex":1,"winner":"Ann"}.
type inboundMessage struct {
	Type       string   `json:"type"`
	Players    []string `json:"players"`
	Name       string   `json:"name"`
	RoundIndex *int     `json:"roundIndex"`
	MatchIndex *int     `json:"matchIndex"`
	Winner     *string  `json:"winner"`
	Player     string   `json:"player"`
}

func (m inboundMessage) address() (int, int, error) {
	if m.RoundIndex == nil || m.MatchIndex == nil {
		return 0, 0, fmt.Errorf("%w: %s requires roundIndex and matchIndex", errMalformedMessage, m.Type)
	}
	return *m.RoundIndex, *m.MatchIndex, nil
}

type WebSocketHandler struct {
	hub               *realtime.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// ServeWs handles GET /ws. The new client is registered with the current
// state as its first frame while the service is locked, so it cannot miss or
// reorder an update.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, h)
	var registered bool
	h.tournamentService.Observe(r.Context(), func(state models.TournamentState) {
		frame, err := realtime.Encode(realtime.MessageStateUpdate, state)
		if err != nil {
			h.logger.Error("failed to encode initial state", slog.Any("error", err))
			registered = h.hub.Register(client)
			return
		}
		registered = h.hub.Register(client, frame)
	})
	if !registered {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(context.WithoutCancel(r.Context()))
}

// HandleMessage applies one inbound frame. Successful mutations reach every
// client through the hub; failures are reported to the sender only.
func (h *WebSocketHandler) HandleMessage(ctx context.Context, client *realtime.Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.reply(client, kindBadRequest, fmt.Errorf("%w: %v", errMalformedMessage, err))
		return
	}

	logger := h.logger.With(slog.String("client_id", client.ID), slog.String("type", msg.Type))
	logger.Debug("websocket message received")

	if err := h.dispatch(ctx, msg); err != nil {
		status, kind := classifyError(err)
		switch {
		case errors.Is(err, errUnknownMessageType), errors.Is(err, errMalformedMessage):
			kind = kindBadRequest
		case status == http.StatusInternalServerError:
			logger.Error("websocket message failed", slog.Any("error", err))
			h.reply(client, kind, errors.New("the server could not process the message"))
			return
		}
		logger.Info("websocket message rejected", slog.String("kind", kind), slog.Any("error", err))
		h.reply(client, kind, err)
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, msg inboundMessage) error {
	var err error
	switch msg.Type {
	case msgUpdatePlayers:
		_, err = h.tournamentService.UpdatePlayers(ctx, msg.Players)
	case msgAddPlayer:
		_, err = h.tournamentService.AddPlayer(ctx, msg.Name)
	case msgRemovePlayer:
		_, err = h.tournamentService.RemovePlayer(ctx, msg.Name)
	case msgStartTournament:
		_, err = h.tournamentService.Start(ctx)
	case msgSelectWinner:
		round, position, addrErr := msg.address()
		if addrErr != nil {
			return addrErr
		}
		_, err = h.tournamentService.SelectWinner(ctx, round, position, msg.Winner)
	case msgToggleWinner:
		round, position, addrErr := msg.address()
		if addrErr != nil {
			return addrErr
		}
		_, err = h.tournamentService.ToggleWinner(ctx, round, position, msg.Player)
	case msgResetTournament:
		_, err = h.tournamentService.Reset(ctx)
	default:
		return fmt.Errorf("%w: %q", errUnknownMessageType, msg.Type)
	}
	return err
}

func (h *WebSocketHandler) reply(client *realtime.Client, kind string, err error) {
	payload := realtime.ErrorPayload{Kind: kind, Message: err.Error()}
	if sendErr := client.SendMessage(realtime.MessageError, payload); sendErr != nil {
		h.logger.Warn("failed to send error frame", slog.String("client_id", client.ID), slog.Any("error", sendErr))
	}
}
