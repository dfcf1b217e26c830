package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const maxJoinCodeAttempts = 32

var errJoinCodeTaken = errors.New("join code taken")

// Store holds every game in memory. Each game has its own lock so that
// mutations are serialized per game while reads of other games proceed.
type Store struct {
	mu               sync.RWMutex
	games            map[string]*gameEntry
	codes            map[string]string
	nextID           atomic.Int64
	nextPlayerID     atomic.Int64
	nextQuestionID   atomic.Int64
	nextSubmissionID atomic.Int64
}

type gameEntry struct {
	mu   sync.RWMutex
	game *Game
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*gameEntry),
		codes: make(map[string]string),
	}
}

// CreateGame allocates a join code that no live game uses and inserts the
// game. persist runs before insertion and may return errJoinCodeTaken to
// request a different code.
func (s *Store) CreateGame(hostToken string, now time.Time, persist func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code := newJoinCode()
		if _, taken := s.codes[code]; taken {
			continue
		}
		game := &Game{
			JoinCode:             code,
			HostToken:            hostToken,
			Status:               statusSetup,
			CurrentQuestionIndex: 0,
			CreatedAt:            now,
			KickedPlayers:        make(map[int]struct{}),
		}
		if persist != nil {
			if err := persist(game); err != nil {
				if errors.Is(err, errJoinCodeTaken) {
					continue
				}
				return nil, err
			}
		}
		if game.DBID != 0 {
			game.ID = fmt.Sprintf("game-%d", game.DBID)
		} else {
			game.ID = fmt.Sprintf("game-%d", s.nextID.Add(1))
		}
		s.games[game.ID] = &gameEntry{game: game}
		s.codes[code] = game.ID
		return cloneGame(game), nil
	}
	return nil, errors.New("could not allocate join code")
}

func (s *Store) entry(id string) (*gameEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.games[id]
	return entry, ok
}

// ViewGame runs view under the game's read lock.
func (s *Store) ViewGame(id string, view func(game *Game) error) error {
	entry, ok := s.entry(id)
	if !ok {
		return errGameNotFound
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return view(entry.game)
}

// UpdateGame runs update under the game's write lock. update must leave the
// game untouched when it returns an error.
func (s *Store) UpdateGame(id string, update func(game *Game) error) error {
	entry, ok := s.entry(id)
	if !ok {
		return errGameNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return update(entry.game)
}

func (s *Store) GetGame(id string) (*Game, bool) {
	var snapshot *Game
	if err := s.ViewGame(id, func(game *Game) error {
		snapshot = cloneGame(game)
		return nil
	}); err != nil {
		return nil, false
	}
	return snapshot, true
}

func (s *Store) FindGameByJoinCode(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codes[normalizeJoinCode(code)]
	return id, ok
}

func (s *Store) RestoreGame(game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return errors.New("game already running")
	}
	if _, ok := s.codes[game.JoinCode]; ok {
		return errors.New("game already running")
	}
	if game.KickedPlayers == nil {
		game.KickedPlayers = make(map[int]struct{})
	}
	s.games[game.ID] = &gameEntry{game: game}
	s.codes[game.JoinCode] = game.ID
	raiseCounter(&s.nextID, int64(gameSortKey(game.ID)))
	for _, player := range game.Players {
		raiseCounter(&s.nextPlayerID, int64(player.ID))
	}
	for _, question := range game.Questions {
		raiseCounter(&s.nextQuestionID, int64(question.ID))
	}
	for _, submission := range game.Submissions {
		raiseCounter(&s.nextSubmissionID, int64(submission.ID))
	}
	return nil
}

func (s *Store) ListGameSummaries() []GameSummary {
	s.mu.RLock()
	entries := make([]*gameEntry, 0, len(s.games))
	for _, entry := range s.games {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	list := make([]GameSummary, 0, len(entries))
	for _, entry := range entries {
		entry.mu.RLock()
		list = append(list, summarize(entry.game))
		entry.mu.RUnlock()
	}
	sort.Slice(list, func(i, j int) bool {
		return gameSortKey(list[i].ID) < gameSortKey(list[j].ID)
	})
	return list
}

func (s *Store) newPlayerID(dbID uint) int {
	if dbID != 0 {
		raiseCounter(&s.nextPlayerID, int64(dbID))
		return int(dbID)
	}
	return int(s.nextPlayerID.Add(1))
}

func (s *Store) newQuestionID(dbID uint) int {
	if dbID != 0 {
		raiseCounter(&s.nextQuestionID, int64(dbID))
		return int(dbID)
	}
	return int(s.nextQuestionID.Add(1))
}

func (s *Store) newSubmissionID(dbID uint) int {
	if dbID != 0 {
		raiseCounter(&s.nextSubmissionID, int64(dbID))
		return int(dbID)
	}
	return int(s.nextSubmissionID.Add(1))
}

func raiseCounter(counter *atomic.Int64, floor int64) {
	for {
		current := counter.Load()
		if current >= floor || counter.CompareAndSwap(current, floor) {
			return
		}
	}
}

func gameSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func findPlayer(game *Game, playerID int) (*Player, int) {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return &game.Players[i], i
		}
	}
	return nil, -1
}

func currentQuestion(game *Game) *Question {
	for i := range game.Questions {
		if game.Questions[i].Index == game.CurrentQuestionIndex {
			return &game.Questions[i]
		}
	}
	return nil
}

func summarize(game *Game) GameSummary {
	return GameSummary{
		ID:                   game.ID,
		JoinCode:             game.JoinCode,
		Status:               game.Status,
		CurrentQuestionIndex: game.CurrentQuestionIndex,
		QuestionStartedAt:    game.QuestionStartedAt,
		CreatedAt:            game.CreatedAt,
	}
}

func cloneGame(game *Game) *Game {
	clone := *game
	clone.Questions = append([]Question(nil), game.Questions...)
	clone.Players = append([]Player(nil), game.Players...)
	clone.Submissions = append([]Submission(nil), game.Submissions...)
	clone.KickedPlayers = make(map[int]struct{}, len(game.KickedPlayers))
	for id := range game.KickedPlayers {
		clone.KickedPlayers[id] = struct{}{}
	}
	return &clone
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
