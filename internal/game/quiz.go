// internal/game/quiz.go
package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/majlis/internal/models"
	"github.com/jason-s-yu/majlis/internal/quizbank"
	"github.com/jason-s-yu/majlis/internal/textmatch"
)

const quizSize = 6

// quizRowPoints is the value of each question row, top to bottom.
var quizRowPoints = [quizSize]int{200, 200, 400, 400, 600, 600}

// QuizPhase is where the open question stands.
type QuizPhase string

const (
	QuizIdle      QuizPhase = "idle"
	QuizAnswering QuizPhase = "answering"
	QuizStealing  QuizPhase = "stealing"
)

// QuizCategory is one board column with up to quizSize questions.
type QuizCategory struct {
	Name      string
	Image     string
	Questions []quizbank.Question
}

// QuizQuestion is the open question as sent to clients. The answer is revealed only in the
// result event.
type QuizQuestion struct {
	Category int    `json:"cI"`
	Index    int    `json:"qI"`
	Points   int    `json:"p"`
	Prompt   string `json:"q"`
	Image    string `json:"img,omitempty"`
	Answer   string `json:"-"`
}

type quizState struct {
	categories  []QuizCategory
	answered    [quizSize][quizSize]bool
	activeIdx   int
	stealingIdx int
	phase       QuizPhase
	current     *QuizQuestion
	double      bool
	stealOpen   bool // the stealer may answer; false during the pause before the steal
	boardLocked bool // set between a result and the next turn
	over        bool
}

// buildQuizBoard picks up to quizSize categories, preferring the requested names in order and
// filling the rest at random from the bank, then draws up to quizSize shuffled questions each.
// A partial selection is kept and topped up; it is not thrown away in favour of a fully random
// board.
func buildQuizBoard(bank *quizbank.Bank, requested []string, rng *rand.Rand) []QuizCategory {
	var names []string
	seen := make(map[string]bool)
	for _, n := range requested {
		if len(names) == quizSize {
			break
		}
		if _, ok := bank.Lookup(n); ok && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	if len(names) < quizSize {
		rest := bank.Names()
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		for _, n := range rest {
			if len(names) == quizSize {
				break
			}
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	board := make([]QuizCategory, 0, len(names))
	for _, n := range names {
		cat, _ := bank.Lookup(n)
		qs := make([]quizbank.Question, len(cat.Questions))
		copy(qs, cat.Questions)
		rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		if len(qs) > quizSize {
			qs = qs[:quizSize]
		}
		board = append(board, QuizCategory{Name: cat.Name, Image: cat.Image, Questions: qs})
	}
	return board
}

// newQuizState marks every cell without a question as already answered.
func newQuizState(board []QuizCategory) quizState {
	s := quizState{categories: board, phase: QuizIdle, stealingIdx: -1}
	for c := 0; c < quizSize; c++ {
		for q := 0; q < quizSize; q++ {
			s.answered[c][q] = c >= len(board) || q >= len(board[c].Questions)
		}
	}
	return s
}

func (s *quizState) allAnswered() bool {
	for c := range s.answered {
		for q := range s.answered[c] {
			if !s.answered[c][q] {
				return false
			}
		}
	}
	return true
}

// quizBegin shows the opening board. A board without any question ends at once.
func (r *Room) quizBegin() {
	r.broadcastQuizBoard()
	if r.quiz.allAnswered() {
		r.quizFinish()
	}
}

func (r *Room) quizFinish() {
	r.quiz.over = true
	r.logger.Info("quiz match over")
	r.broadcast(Event{Type: EventQuizGameOver, Payload: GameOverPayload{
		Players:  r.playersCopy(),
		WinnerID: leader(r.players),
	}})
}

func (r *Room) quizPick(playerID uuid.UUID, cat, q int, double bool) {
	qs := &r.quiz
	if r.Type != models.GameQuiz || r.state != models.RoomPlaying || qs.over {
		return
	}
	if qs.phase != QuizIdle || qs.boardLocked {
		return
	}
	if cat < 0 || cat >= quizSize || q < 0 || q >= quizSize || qs.answered[cat][q] {
		return
	}
	active := r.players[qs.activeIdx]
	if active.ID != playerID {
		return
	}

	qs.answered[cat][q] = true
	qs.phase = QuizAnswering
	qs.stealOpen = false
	qs.double = double && !active.DoubleUsed
	if qs.double {
		active.DoubleUsed = true
	}
	column := qs.categories[cat]
	question := column.Questions[q]
	img := question.Img
	if img == "" {
		img = column.Image
	}
	qs.current = &QuizQuestion{
		Category: cat,
		Index:    q,
		Points:   quizRowPoints[q],
		Prompt:   question.Q,
		Image:    img,
		Answer:   question.A,
	}

	r.broadcastQuizBoard()
	r.broadcastOpenQuestion(qs.activeIdx)
	r.quizCountdown(quizAnswerSeconds, QuizAnswering)
}

func (r *Room) quizAnswer(playerID uuid.UUID, answer string) {
	qs := &r.quiz
	if r.Type != models.GameQuiz || qs.current == nil {
		return
	}
	switch qs.phase {
	case QuizAnswering:
		if r.players[qs.activeIdx].ID != playerID {
			return
		}
	case QuizStealing:
		if !qs.stealOpen || r.players[qs.stealingIdx].ID != playerID {
			return
		}
	default:
		return
	}

	r.cancel(timerQuizCountdown)
	ok := textmatch.IsAcceptable(answer, qs.current.Answer)
	if qs.phase == QuizAnswering {
		if ok {
			r.quizResolve(qs.activeIdx, true)
		} else {
			r.quizOpenSteal("wrong")
		}
		return
	}
	if ok {
		r.quizResolve(qs.stealingIdx, true)
	} else {
		r.quizResolve(-1, false)
	}
}

func (r *Room) quizCountdown(seconds int, phase QuizPhase) {
	r.countdown(timerQuizCountdown, seconds,
		func(remaining int) {
			r.broadcast(Event{Type: EventQuizTimer, Payload: CountdownPayload{Remaining: remaining}})
		},
		func() {
			if r.quiz.phase != phase {
				return
			}
			if phase == QuizAnswering {
				r.quizOpenSteal("timeout")
				return
			}
			r.quizResolve(-1, false)
		},
	)
}

// quizOpenSteal hands the question to the other seat after a short pause.
func (r *Room) quizOpenSteal(reason string) {
	qs := &r.quiz
	qs.phase = QuizStealing
	qs.stealingIdx = (qs.activeIdx + 1) % MaxPlayers
	qs.stealOpen = false
	r.broadcast(Event{Type: EventQuizSteal, Payload: QuizStealPayload{Reason: reason, StealingIdx: qs.stealingIdx}})

	r.after(timerQuizSteal, r.timing.StealPause, func() {
		if qs.phase != QuizStealing {
			return
		}
		qs.stealOpen = true
		r.broadcastOpenQuestion(qs.stealingIdx)
		r.quizCountdown(quizStealSeconds, QuizStealing)
	})
}

// quizResolve credits seat (or nobody when seat is -1), announces the result and schedules the
// next turn.
func (r *Room) quizResolve(seat int, ok bool) {
	qs := &r.quiz
	pts := 0
	if ok && seat >= 0 {
		pts = qs.current.Points
		if qs.double {
			pts *= 2
		}
		r.players[seat].Score += pts
	}
	r.broadcast(Event{Type: EventQuizResult, Payload: QuizResultPayload{
		OK:        ok,
		Answer:    qs.current.Answer,
		Points:    pts,
		PlayerIdx: seat,
		Players:   r.playersCopy(),
	}})

	qs.activeIdx = (qs.activeIdx + 1) % MaxPlayers
	qs.phase = QuizIdle
	qs.current = nil
	qs.double = false
	qs.stealingIdx = -1
	qs.stealOpen = false
	qs.boardLocked = true
	r.cancel(timerQuizSteal)

	r.after(timerQuizAdvance, r.timing.TurnAdvance, func() {
		qs.boardLocked = false
		if qs.allAnswered() {
			r.quizFinish()
			return
		}
		r.broadcastQuizBoard()
	})
}

func (r *Room) broadcastQuizBoard() {
	r.broadcast(Event{Type: EventQuizBoard, Payload: r.quiz.boardPayload(r.playersCopy())})
}

func (r *Room) broadcastOpenQuestion(seat int) {
	qs := &r.quiz
	r.broadcast(Event{Type: EventQuizOpenQuestion, Payload: QuizOpenPayload{
		Question:  *qs.current,
		ActiveIdx: seat,
		Phase:     qs.phase,
		Double:    qs.double,
	}})
}

func (s *quizState) boardPayload(players []models.Player) QuizBoardPayload {
	cats := make([]QuizCategoryView, len(s.categories))
	for i, c := range s.categories {
		cats[i] = QuizCategoryView{Name: c.Name, Image: c.Image}
	}
	return QuizBoardPayload{
		Categories: cats,
		Answered:   s.answered,
		ActiveIdx:  s.activeIdx,
		Phase:      s.phase,
		Players:    players,
	}
}
