// internal/game/timers.go
package game

import "time"

// timerKey names the purpose of a room timer. Arming a key replaces whatever was armed under it.
type timerKey string

const (
	timerLobbyCountdown timerKey = "lobby_countdown"
	timerStopCountdown  timerKey = "stop_countdown"
	timerStopGrace      timerKey = "stop_grace"
	timerStopNext       timerKey = "stop_next"
	timerHockeyTick     timerKey = "hockey_tick"
	timerHockeyRelaunch timerKey = "hockey_relaunch"
	timerQuizCountdown  timerKey = "quiz_countdown"
	timerQuizSteal      timerKey = "quiz_steal"
	timerQuizAdvance    timerKey = "quiz_advance"
)

// roomTimer is one armed timer. seq identifies the arming so a firing that was already queued
// when the timer got cancelled or re-armed is recognized as stale.
type roomTimer struct {
	seq      uint64
	periodic bool
	fn       func()
	stop     func()
}

// timerFired is posted to the room inbox by timer goroutines.
type timerFired struct {
	key timerKey
	seq uint64
}

// after runs fn on the room goroutine once d has elapsed.
func (r *Room) after(key timerKey, d time.Duration, fn func()) {
	r.cancel(key)
	r.timerSeq++
	seq := r.timerSeq
	t := time.AfterFunc(d, func() {
		r.post(timerFired{key: key, seq: seq})
	})
	r.timers[key] = &roomTimer{seq: seq, fn: fn, stop: func() { t.Stop() }}
}

// every runs fn on the room goroutine each d until the key is cancelled.
func (r *Room) every(key timerKey, d time.Duration, fn func()) {
	r.cancel(key)
	r.timerSeq++
	seq := r.timerSeq
	quit := make(chan struct{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-r.done:
				return
			case <-ticker.C:
				select {
				case r.inbox <- timerFired{key: key, seq: seq}:
				case <-quit:
					return
				case <-r.done:
					return
				}
			}
		}
	}()
	r.timers[key] = &roomTimer{seq: seq, periodic: true, fn: fn, stop: func() { close(quit) }}
}

// countdown calls onTick with from-1, from-2, ... 0, one Timing.Second apart, then onZero right
// after the zero tick.
func (r *Room) countdown(key timerKey, from int, onTick func(remaining int), onZero func()) {
	remaining := from
	r.every(key, r.timing.Second, func() {
		remaining--
		onTick(remaining)
		if remaining <= 0 {
			r.cancel(key)
			onZero()
		}
	})
}

func (r *Room) cancel(key timerKey) {
	if t, ok := r.timers[key]; ok {
		t.stop()
		delete(r.timers, key)
	}
}

func (r *Room) cancelAll() {
	for key := range r.timers {
		r.cancel(key)
	}
}

func (r *Room) armed(key timerKey) bool {
	_, ok := r.timers[key]
	return ok
}

// fire dispatches a timer firing, dropping it if the arming it belongs to is gone.
func (r *Room) fire(m timerFired) {
	t, ok := r.timers[m.key]
	if !ok || t.seq != m.seq {
		r.logger.Debugf("dropping stale %s timer (seq %d)", m.key, m.seq)
		return
	}
	if !t.periodic {
		delete(r.timers, m.key)
	}
	t.fn()
}
