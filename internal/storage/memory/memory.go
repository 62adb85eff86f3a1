// Package memory keeps users, budgets and goals in process. It backs
// DATA_BACKEND=memory and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/goal"
	"github.com/finbuddy/backend/internal/money"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]account.User
	budgets map[string]budget.Budget
	goals   map[string]goal.Goal
	now     func() time.Time
	last    time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]account.User),
		budgets: make(map[string]budget.Budget),
		goals:   make(map[string]goal.Goal),
		now:     time.Now,
	}
}

// tick returns strictly increasing timestamps so created_at ordering is stable.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Users

func (s *Store) CreateUser(_ context.Context, u *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return account.ErrUsernameTaken
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.tick()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]account.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteUser cascades to the user's budgets and goals.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return account.ErrNotFound
	}
	delete(s.users, id)
	for bid, b := range s.budgets {
		if b.UserID == id {
			delete(s.budgets, bid)
		}
	}
	for gid, g := range s.goals {
		if g.UserID == id {
			delete(s.goals, gid)
		}
	}
	return nil
}

// Budgets

func (s *Store) ListBudgets(_ context.Context, userID string, f budget.Filter) ([]budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]budget.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if f.Month != nil && b.Month != *f.Month {
			continue
		}
		out = append(out, s.withBudgetOwner(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) BudgetByID(_ context.Context, id string) (*budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, budget.ErrNotFound
	}
	b = s.withBudgetOwner(b)
	return &b, nil
}

func (s *Store) InsertBudget(_ context.Context, b *budget.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[b.UserID]; !ok {
		return account.ErrNotFound
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.tick()
	*b = s.withBudgetOwner(*b)
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) UpdateBudget(_ context.Context, b *budget.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.budgets[b.ID]
	if !ok || current.UserID != b.UserID {
		return budget.ErrNotFound
	}
	b.CreatedAt = current.CreatedAt
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.budgets[id]
	if !ok || current.UserID != userID {
		return budget.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) withBudgetOwner(b budget.Budget) budget.Budget {
	b.Username = s.users[b.UserID].Username
	return b
}

// Goals

func (s *Store) ListGoals(_ context.Context, userID string) ([]goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]goal.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, s.withGoalOwner(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GoalByID(_ context.Context, id string) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, goal.ErrNotFound
	}
	g = s.withGoalOwner(g)
	return &g, nil
}

func (s *Store) InsertGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[g.UserID]; !ok {
		return account.ErrNotFound
	}
	g.ID = uuid.NewString()
	g.CreatedAt = s.tick()
	g.SavedAmount = money.NewAmount(decimal.Zero)
	*g = s.withGoalOwner(*g)
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, g *goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.goals[g.ID]
	if !ok || current.UserID != g.UserID {
		return goal.ErrNotFound
	}
	g.SavedAmount = current.SavedAmount
	g.CreatedAt = current.CreatedAt
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.goals[id]
	if !ok || current.UserID != userID {
		return goal.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) AddSavedAmount(_ context.Context, userID, id string, delta decimal.Decimal) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, goal.ErrNotFound
	}
	total := g.SavedAmount.Add(delta)
	if total.GreaterThanOrEqual(money.MaxAmount) {
		return nil, goal.ErrAmountTooLarge
	}
	g.SavedAmount = money.NewAmount(total)
	s.goals[id] = g
	g = s.withGoalOwner(g)
	return &g, nil
}

func (s *Store) withGoalOwner(g goal.Goal) goal.Goal {
	g.Username = s.users[g.UserID].Username
	return g
}
