// internal/game/room_store.go
package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
	"github.com/sirupsen/logrus"
)

// StoreConfig holds what a RoomStore passes to the rooms it creates, plus eviction settings.
// A zero IdleTimeout or SweepInterval disables eviction.
type StoreConfig struct {
	Timing        Timing
	Hockey        HockeyConfig
	Journal       Journal // nil disables journaling
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Seed          int64 // 0 seeds from the clock
}

// RoomStore maps room codes to live rooms.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand // guarded by mu

	bank   *quizbank.Bank
	cfg    StoreConfig
	logger *logrus.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// JoinRequest is a join_lobby request. Options only matter to the first joiner, who creates
// the room.
type JoinRequest struct {
	RoomID     string
	PlayerID   uuid.UUID
	UserID     string
	PlayerName string
	GameType   models.GameType
	Options    models.RoomOptions
	Sink       Sink
}

func NewRoomStore(bank *quizbank.Bank, cfg StoreConfig, logger *logrus.Logger) *RoomStore {
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}
	if cfg.Hockey == (HockeyConfig{}) {
		cfg.Hockey = DefaultHockeyConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &RoomStore{
		rooms:  make(map[string]*Room),
		rng:    rand.New(rand.NewSource(seed)),
		bank:   bank,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	if cfg.IdleTimeout > 0 && cfg.SweepInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop()
	}
	return s
}

// Join seats the caller in the room named by req, creating the room if it does not exist.
// A room of another game type counts as full.
func (s *RoomStore) Join(ctx context.Context, req JoinRequest) (*Room, models.Player, error) {
	if !req.GameType.Valid() {
		return nil, models.Player{}, ErrInvalidGameType
	}
	id := models.NormalizeRoomID(req.RoomID)

	// A room evicted between lookup and join is replaced once.
	for attempt := 0; attempt < 2; attempt++ {
		room := s.getOrCreate(id, req)
		if room.Type != req.GameType {
			return nil, models.Player{}, ErrRoomFull
		}
		p, err := room.join(ctx, &models.Player{
			ID:     req.PlayerID,
			UserID: req.UserID,
			Name:   req.PlayerName,
		}, req.Sink)
		if errors.Is(err, ErrRoomClosed) {
			s.remove(id, room)
			continue
		}
		if err != nil {
			return nil, models.Player{}, err
		}
		return room, p, nil
	}
	return nil, models.Player{}, ErrRoomClosed
}

func (s *RoomStore) getOrCreate(id string, req JoinRequest) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[id]; ok {
		return room
	}

	var board []QuizCategory
	if req.GameType == models.GameQuiz {
		board = buildQuizBoard(s.bank, req.Options.Categories, s.rng)
	}
	room := newRoom(id, req.GameType, req.Options, board, roomDeps{
		timing:  s.cfg.Timing,
		hockey:  s.cfg.Hockey,
		journal: s.cfg.Journal,
		logger:  s.logger,
		rng:     rand.New(rand.NewSource(s.rng.Int63())),
	})
	s.rooms[id] = room
	s.logger.Infof("room %s created (%s)", id, req.GameType)
	return room
}

// remove deletes id only if it still maps to room.
func (s *RoomStore) remove(id string, room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[id] == room {
		delete(s.rooms, id)
	}
}

// Get returns the live room with the given code.
func (s *RoomStore) Get(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[models.NormalizeRoomID(id)]
	return r, ok
}

// Len returns the number of live rooms.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Categories lists the question bank categories.
func (s *RoomStore) Categories() []quizbank.CategoryInfo {
	return s.bank.Listing()
}

// Close stops eviction and closes every room.
func (s *RoomStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, room := range s.rooms {
		room.Close()
		delete(s.rooms, id)
	}
}

func (s *RoomStore) cleanupLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep closes rooms with no join or command for longer than the idle timeout.
func (s *RoomStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, room := range s.rooms {
		if now.Sub(room.IdleSince()) > s.cfg.IdleTimeout {
			room.Close()
			delete(s.rooms, id)
			s.logger.Infof("room %s evicted after %s idle", id, s.cfg.IdleTimeout)
		}
	}
}
