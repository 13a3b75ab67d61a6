package server

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/history"
)

// interHandDelay is the pause between a hand ending and the next deal
const interHandDelay = 2 * time.Second

// recordTimeout bounds how long a hand history write may take
const recordTimeout = 5 * time.Second

// Room runs one table. All table access happens on the room's
// goroutine: public methods post closures onto the command channel and
// return immediately, so the game.Table itself needs no locking. Turn
// timers fire back into the same channel carrying a turn sequence
// number; a sequence that no longer matches means the player acted in
// time and the expiry is discarded.
type Room struct {
	ID string

	cfg      TableConfig
	table    *game.Table
	logger   *log.Logger
	clock    quartz.Clock
	recorder history.Recorder

	commands chan func()
	done     chan struct{}

	conns      map[string]*Connection // seated player ID -> connection
	spectators map[*Connection]bool

	turnSeq      uint64
	turnTimer    *quartz.Timer
	startPending bool
}

// NewRoom creates a room for the given table configuration. Game
// options (for example a seeded RNG) pass through to the table.
func NewRoom(cfg TableConfig, logger *log.Logger, clock quartz.Clock, recorder history.Recorder, opts ...game.Option) *Room {
	if recorder == nil {
		recorder = history.NopRecorder{}
	}
	return &Room{
		ID:         cfg.Name,
		cfg:        cfg,
		table:      game.NewTable(cfg.Name, cfg.SmallBlind, cfg.BigBlind, opts...),
		logger:     logger.WithPrefix("room").With("table", cfg.Name),
		clock:      clock,
		recorder:   recorder,
		commands:   make(chan func(), 64),
		done:       make(chan struct{}),
		conns:      make(map[string]*Connection),
		spectators: make(map[*Connection]bool),
	}
}

// Run processes commands until the context is cancelled. Must be
// called exactly once.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	defer r.stopTurnTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-r.commands:
			cmd()
		}
	}
}

// post hands a closure to the room goroutine. Posts after shutdown are
// dropped.
func (r *Room) post(fn func()) {
	select {
	case r.commands <- fn:
	case <-r.done:
	}
}

// Join seats the player, or reconnects them to an existing seat
func (r *Room) Join(conn *Connection, playerID, name string, buyIn int) {
	r.post(func() {
		rejoining := r.table.HasPlayer(playerID)
		if !rejoining && (buyIn < r.cfg.BuyInMin || buyIn > r.cfg.BuyInMax) {
			conn.sendError("invalid_buy_in", "buy-in must be between configured limits")
			return
		}

		p := r.table.Join(playerID, name, buyIn)
		if old, ok := r.conns[playerID]; ok && old != conn {
			delete(r.spectators, old)
		}
		r.conns[playerID] = conn
		delete(r.spectators, conn)

		r.logger.Info("player seated", "player", playerID, "stack", p.Stack, "rejoin", rejoining)
		if msg, err := NewMessage(MessageTypeJoined, JoinedData{
			TableID:  r.ID,
			PlayerID: playerID,
			Stack:    p.Stack,
		}); err == nil {
			_ = conn.SendMessage(msg)
		}

		r.broadcast()
		r.maybeScheduleHand()
	})
}

// Watch subscribes a connection to table state without a seat
func (r *Room) Watch(conn *Connection) {
	r.post(func() {
		r.spectators[conn] = true
		r.sendState(conn, "")
	})
}

// Leave gives up the player's seat. Mid-hand this folds them first.
func (r *Room) Leave(playerID string) {
	r.post(func() {
		res, err := r.table.Leave(playerID)
		if err != nil {
			if conn, ok := r.conns[playerID]; ok {
				conn.sendError("leave_failed", err.Error())
			}
			return
		}
		delete(r.conns, playerID)
		r.logger.Info("player left", "player", playerID)
		r.afterTableChange(res)
	})
}

// Act applies a betting decision for the player
func (r *Room) Act(playerID, action string, amount int) {
	r.post(func() {
		conn := r.conns[playerID]
		at, err := game.ParseActionType(action)
		if err != nil {
			if conn != nil {
				conn.sendError("illegal_action", err.Error())
			}
			return
		}

		res, err := r.table.HandleAction(playerID, at, amount)
		if err != nil {
			// Rejected actions leave the table untouched; the turn
			// timer keeps running
			if conn != nil {
				conn.sendError("illegal_action", err.Error())
			}
			return
		}
		r.logger.Debug("action applied", "player", playerID, "action", action, "amount", amount)
		r.afterTableChange(res)
	})
}

// RequestState sends the viewer's current snapshot
func (r *Room) RequestState(conn *Connection, playerID string) {
	r.post(func() {
		r.sendState(conn, playerID)
	})
}

// Disconnect detaches a connection. A seated player keeps their seat
// and may reconnect; the turn timer folds them if it expires first.
func (r *Room) Disconnect(conn *Connection) {
	r.post(func() {
		delete(r.spectators, conn)
		for id, c := range r.conns {
			if c == conn {
				delete(r.conns, id)
				r.logger.Info("player disconnected", "player", id)
			}
		}
	})
}

// afterTableChange is the common tail of every successful mutation:
// rearm the turn timer, push snapshots, and resolve a finished hand
func (r *Room) afterTableChange(res *game.HandResult) {
	r.armTurnTimer()
	r.broadcast()
	if res != nil {
		r.handleResult(res)
	}
}

func (r *Room) maybeScheduleHand() {
	if r.startPending || r.table.HandInProgress() {
		return
	}
	r.startPending = true
	r.clock.AfterFunc(interHandDelay, func() {
		r.post(r.startHand)
	})
}

func (r *Room) startHand() {
	r.startPending = false
	res, err := r.table.StartHand()
	if err != nil {
		if errors.Is(err, game.ErrInvalidTableState) {
			// Not enough funded players yet; the next join reschedules
			r.logger.Debug("hand not started", "err", err)
			return
		}
		r.logger.Error("failed to start hand", "err", err)
		return
	}
	r.logger.Info("hand started", "hand", r.table.HandNumber())
	r.afterTableChange(res)
}

// armTurnTimer cancels any pending expiry and starts the clock on the
// current actor. Bumping the sequence invalidates expiries already in
// flight on the command channel.
func (r *Room) armTurnTimer() {
	r.turnSeq++
	r.stopTurnTimer()

	actorID := r.table.CurrentActorID()
	if actorID == "" {
		return
	}
	seq := r.turnSeq
	timeout := time.Duration(r.cfg.TurnTimeoutSecs) * time.Second
	r.turnTimer = r.clock.AfterFunc(timeout, func() {
		r.post(func() { r.expireTurn(seq, actorID) })
	})
}

func (r *Room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
}

// expireTurn folds a player whose turn clock ran out. Stale sequences
// mean the player acted before the expiry was processed.
func (r *Room) expireTurn(seq uint64, actorID string) {
	if seq != r.turnSeq || r.table.CurrentActorID() != actorID {
		return
	}
	r.logger.Info("turn timeout, folding", "player", actorID)

	if msg, err := NewMessage(MessageTypeTimeout, TimeoutData{TableID: r.ID, PlayerID: actorID}); err == nil {
		r.broadcastMessage(msg)
	}

	res, err := r.table.HandleAction(actorID, game.Fold, 0)
	if err != nil {
		r.logger.Error("timeout fold rejected", "player", actorID, "err", err)
		return
	}
	r.afterTableChange(res)
}

func (r *Room) handleResult(res *game.HandResult) {
	r.logger.Info("hand complete", "hand", res.HandNumber, "winners", res.WinnerIDs)

	// History writes must not stall the table
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.recorder.Record(ctx, res); err != nil {
			r.logger.Error("failed to record hand", "hand", res.HandNumber, "err", err)
		}
	}()

	if msg, err := NewMessage(MessageTypeHandResult, res); err == nil {
		r.broadcastMessage(msg)
	}
	r.maybeScheduleHand()
}

// broadcast pushes a per-viewer snapshot to every subscriber
func (r *Room) broadcast() {
	for playerID, conn := range r.conns {
		r.sendState(conn, playerID)
	}
	for conn := range r.spectators {
		r.sendState(conn, "")
	}
}

func (r *Room) sendState(conn *Connection, playerID string) {
	msg, err := NewMessage(MessageTypeTableState, r.table.Snapshot(playerID))
	if err != nil {
		r.logger.Error("failed to encode snapshot", "err", err)
		return
	}
	_ = conn.SendMessage(msg)
}

func (r *Room) broadcastMessage(msg *Message) {
	for _, conn := range r.conns {
		_ = conn.SendMessage(msg)
	}
	for conn := range r.spectators {
		_ = conn.SendMessage(msg)
	}
}
