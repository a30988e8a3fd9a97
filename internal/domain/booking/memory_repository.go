package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository. It applies the same
// overlap policy as the Postgres query and serializes writers per room.
type MemoryRepository struct {
	mu        sync.Mutex
	bookings  map[int64]*Booking
	nextID    int64
	roomLocks map[int64]*sync.Mutex
	now       func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings:  make(map[int64]*Booking),
		roomLocks: make(map[int64]*sync.Mutex),
		now:       time.Now,
	}
}

// Seed stores bookings as they are, keeping their ids.
func (m *MemoryRepository) Seed(bookings ...Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range bookings {
		b := bookings[i]
		m.bookings[b.ID] = &b
		if b.ID > m.nextID {
			m.nextID = b.ID
		}
	}
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (m *MemoryRepository) FindOverlapping(_ context.Context, q OverlapQuery) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Booking, 0)
	for _, b := range m.bookings {
		if q.Matches(b) {
			result = append(result, *b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CheckIn.Equal(result[j].CheckIn) {
			return result[i].CheckIn.Before(result[j].CheckIn)
		}
		return result[i].CheckOut.Before(result[j].CheckOut)
	})
	return result, nil
}

func (m *MemoryRepository) Insert(_ context.Context, c *CandidateBooking) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	b := &Booking{
		ID:              m.nextID,
		UserID:          c.UserID,
		RoomID:          c.RoomID,
		NumberOfPersons: c.NumberOfPersons,
		CheckIn:         c.CheckIn,
		CheckOut:        c.CheckOut,
		TotalCost:       c.TotalCost,
		CreatedAt:       m.now().UTC(),
	}
	m.bookings[b.ID] = b

	out := *b
	return &out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	delete(m.bookings, id)
	return b, nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID int64, p Pagination) ([]Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Booking, 0)
	for _, b := range m.bookings {
		if b.UserID == userID {
			all = append(all, *b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CheckIn.After(all[j].CheckIn) })

	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := total
	if p.Limit > 0 && start+p.Limit < total {
		end = start + p.Limit
	}
	return all[start:end], total, nil
}

func (m *MemoryRepository) WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, repo Repository) error) error {
	lock := m.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	tx := &memoryTx{MemoryRepository: m}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (m *MemoryRepository) roomLock(roomID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		m.roomLocks[roomID] = lock
	}
	return lock
}

// memoryTx records undo actions for writes made under a room lock.
type memoryTx struct {
	*MemoryRepository
	rollbackActions []func()
}

func (t *memoryTx) Insert(ctx context.Context, c *CandidateBooking) (*Booking, error) {
	b, err := t.MemoryRepository.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	id := b.ID
	t.rollbackActions = append(t.rollbackActions, func() {
		delete(t.bookings, id)
	})
	return b, nil
}

func (t *memoryTx) Delete(ctx context.Context, id int64) (*Booking, error) {
	b, err := t.MemoryRepository.Delete(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	t.rollbackActions = append(t.rollbackActions, func() {
		t.bookings[b.ID] = b
	})
	return b, nil
}

// WithRoomLock inside a held lock just runs fn.
func (t *memoryTx) WithRoomLock(ctx context.Context, _ int64, fn func(ctx context.Context, repo Repository) error) error {
	return fn(ctx, t)
}

func (t *memoryTx) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.rollbackActions) - 1; i >= 0; i-- {
		t.rollbackActions[i]()
	}
}
