package ledger

import (
	"sync"
	"time"

	"SafeShare/internal/model"

	"github.com/google/uuid"
)

// Ledger — ограниченный по ёмкости append-only журнал аудита.
// Записи упорядочены монотонным Seq; при переполнении молча вытесняются
// самые старые (само вытеснение не аудируется, иначе журнал рекурсивно
// растёт). Процессно-резидентный по замыслу: пережить рестарт не обязан.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	nextSeq  uint64
	entries  []model.AuditEntry // от старых к новым
}

// Filter — критерии выборки Query. Нулевые значения не фильтруют.
type Filter struct {
	Action  model.Action
	Risk    model.RiskLevel
	ActorID string
	Limit   int
}

// New создаёт журнал с заданной ёмкостью.
func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Ledger{capacity: capacity, entries: make([]model.AuditEntry, 0, capacity)}
}

// Append присваивает записи id, метку времени и порядковый номер и
// дописывает её в журнал. Амортизированно O(1), валидный вход не отклоняется.
func (l *Ledger) Append(e model.AuditEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextSeq++
	e.Seq = l.nextSeq

	l.entries = append(l.entries, e)
	if len(l.entries) > l.capacity {
		// сдвиг на месте, чтобы не держать ссылки на вытесненные записи
		n := copy(l.entries, l.entries[len(l.entries)-l.capacity:])
		l.entries = l.entries[:n]
	}
}

// Query возвращает записи от новых к старым, применяя фильтр.
func (l *Ledger) Query(f Filter) []model.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.AuditEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Risk != "" && e.Risk != f.Risk {
			continue
		}
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// HighRisk — проекция SecurityAlert: события с высоким риском,
// собственного жизненного цикла не имеет.
func (l *Ledger) HighRisk() []model.AuditEntry {
	return l.Query(Filter{Risk: model.RiskHigh})
}

// Len возвращает текущее число записей (никогда не больше ёмкости).
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// CountAction возвращает число записей с данным действием.
func (l *Ledger) CountAction(a model.Action) int {
	return len(l.Query(Filter{Action: a}))
}
