package waitlist

import (
	"sync"
	"time"
)

// timerRegistry хранит взведенные таймеры дедлайнов по ID записи.
// Таймер снимается при любом финальном переходе записи и при остановке
// сервиса. Cancel безопасно вызывать для уже сработавшего или никогда
// не существовавшего таймера
type timerRegistry struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
	closed bool
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{
		timers: make(map[int64]*time.Timer),
	}
}

// Arm взводит таймер для записи. Callback сам удаляет себя из реестра
// перед выполнением, поэтому сработавший таймер в реестре не задерживается.
// После Shutdown новые таймеры не взводятся
func (r *timerRegistry) Arm(entryID int64, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	// Повторное предложение той же записи невозможно по условию статуса,
	// но старый таймер на всякий случай снимаем
	if old, ok := r.timers[entryID]; ok {
		old.Stop()
	}

	r.timers[entryID] = time.AfterFunc(d, func() {
		r.remove(entryID)
		fn()
	})
}

// Cancel снимает таймер записи, если он еще взведен
func (r *timerRegistry) Cancel(entryID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[entryID]; ok {
		t.Stop()
		delete(r.timers, entryID)
	}
}

// Shutdown снимает все таймеры без побочных эффектов и запрещает новые
func (r *timerRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

func (r *timerRegistry) remove(entryID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timers, entryID)
}
