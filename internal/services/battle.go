package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/mentoro/internal/backend"
	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/apierr"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/realtime"
	"github.com/yungbote/mentoro/internal/sse"
)

const battleEventBuffer = 64

var ErrMissingMatch = apierr.New(http.StatusBadRequest, "missing_match_id", errors.New("match id required"))

// MatchChannel is the part of the realtime channel battles use.
type MatchChannel interface {
	Subscribe(buffer int) (<-chan realtime.Event, func())
	JoinMatch(matchID string) bool
	SendMatchMessage(matchID, content string) bool
	SendCodeUpdate(matchID, code string, cursor *int) bool
}

// JoinResult reports the backend join and whether the live channel took it.
type JoinResult struct {
	Status string `json:"status"`
	Live   bool   `json:"live"`
}

type BattleService interface {
	Create(ctx context.Context, req backend.CreateBattleRequest) (backend.BattleCreated, error)
	Active(ctx context.Context) (backend.ActiveBattleList, error)
	Join(ctx context.Context, matchID string) (JoinResult, error)
	Submit(ctx context.Context, matchID, code string) (backend.SubmitResult, error)
	Message(matchID, content string) (bool, error)
	CodeUpdate(matchID, code string, cursor *int) (bool, error)
	// Watch relays live match events to SSE and settles finished battles in
	// the store. It returns when ctx is done.
	Watch(ctx context.Context) error
}

type battleService struct {
	log     *logger.Logger
	store   *progression.Store
	backend *backend.Client
	channel MatchChannel
	emit    sse.Emitter
}

// NewBattleService wires battles. channel and emit may be nil.
func NewBattleService(log *logger.Logger, store *progression.Store, client *backend.Client, channel MatchChannel, emit sse.Emitter) BattleService {
	if log == nil {
		log = logger.NewNop()
	}
	return &battleService{
		log:     log.With("service", "BattleService"),
		store:   store,
		backend: client,
		channel: channel,
		emit:    emit,
	}
}

func (s *battleService) Create(ctx context.Context, req backend.CreateBattleRequest) (backend.BattleCreated, error) {
	if req.Mode == "" {
		req.Mode = "1v1"
	}
	if req.Difficulty == "" {
		req.Difficulty = string(progression.DifficultyBeginner)
	}
	return s.backend.CreateBattle(ctx, req)
}

func (s *battleService) Active(ctx context.Context) (backend.ActiveBattleList, error) {
	return s.backend.ActiveBattles(ctx)
}

func (s *battleService) Join(ctx context.Context, matchID string) (JoinResult, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return JoinResult{}, ErrMissingMatch
	}
	res, err := s.backend.JoinBattle(ctx, matchID)
	if err != nil {
		return JoinResult{}, err
	}
	out := JoinResult{Status: res.Status}
	if s.channel != nil {
		out.Live = s.channel.JoinMatch(matchID)
	}
	return out, nil
}

func (s *battleService) Submit(ctx context.Context, matchID, code string) (backend.SubmitResult, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return backend.SubmitResult{}, ErrMissingMatch
	}
	return s.backend.SubmitCode(ctx, matchID, code)
}

func (s *battleService) Message(matchID, content string) (bool, error) {
	if strings.TrimSpace(matchID) == "" {
		return false, ErrMissingMatch
	}
	if s.channel == nil {
		return false, nil
	}
	return s.channel.SendMatchMessage(matchID, content), nil
}

func (s *battleService) CodeUpdate(matchID, code string, cursor *int) (bool, error) {
	if strings.TrimSpace(matchID) == "" {
		return false, ErrMissingMatch
	}
	if s.channel == nil {
		return false, nil
	}
	return s.channel.SendCodeUpdate(matchID, code, cursor), nil
}

func (s *battleService) Watch(ctx context.Context) error {
	if s.channel == nil {
		<-ctx.Done()
		return nil
	}
	events, cancel := s.channel.Subscribe(battleEventBuffer)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *battleService) handle(ctx context.Context, ev realtime.Event) {
	observability.Current().IncRealtimeEvent(ev.Type)
	if s.emit != nil {
		s.emit.Emit(ctx, sse.Message{Channel: sse.ChannelRealtime, Event: sse.EventRealtime, Data: ev})
	}

	switch ev.Type {
	case realtime.EventMatchStarted:
		n := progression.Notification{
			Title:    "Battle Started!",
			Message:  "Battle started! Code your solution!",
			Type:     progression.NotifyBattle,
			Priority: progression.PriorityHigh,
			Icon:     "⚔️",
		}
		if ev.MatchID != "" {
			n.ActionURL = "/battles/" + ev.MatchID
		}
		s.store.AddNotification(n)
	case realtime.EventMatchEnded:
		r, ok := ev.MatchResults()
		if !ok {
			s.log.Warn("match_ended without results", "match_id", ev.MatchID)
			return
		}
		me := s.store.Profile().ID
		s.store.RecordBattle(me != "" && r.WinnerID == me, r.XPEarned)
	}
}
