// Package memstore is an in-memory implementation of repository.UnitOfWork
// and the repositories it hands out. Units of work are serialised and a
// failed unit of work restores the state it started from.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/domain"
	"github.com/payollar/payollar/pkg/domain/payout"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	ledgerrepo "github.com/payollar/payollar/pkg/repository/ledger"
	payoutrepo "github.com/payollar/payollar/pkg/repository/payout"
	userrepo "github.com/payollar/payollar/pkg/repository/user"
	"github.com/shopspring/decimal"
)

// Operation names accepted by Store.FailOn.
const (
	OpLedgerCreate     = "ledger.Create"
	OpPayoutMark       = "payout.MarkProcessed"
	OpDecrementCredits = "user.DecrementCredits"
	OpPayoutLoad       = "payout.GetProcessingForUpdate"
	OpUserGet          = "user.Get"
	OpBegin            = "begin"
)

type state struct {
	users   map[uuid.UUID]dto.UserRead
	payouts map[uuid.UUID]dto.PayoutRead
	ledger  []dto.CreditTransactionRead
}

func (s *state) clone() *state {
	c := &state{
		users:   make(map[uuid.UUID]dto.UserRead, len(s.users)),
		payouts: make(map[uuid.UUID]dto.PayoutRead, len(s.payouts)),
		ledger:  append([]dto.CreditTransactionRead(nil), s.ledger...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.payouts {
		c.payouts[k] = v
	}
	return c
}

// Store is the in-memory backing store.
type Store struct {
	mu      sync.Mutex
	data    *state
	failOn  map[string]error
	commits int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		data: &state{
			users:   map[uuid.UUID]dto.UserRead{},
			payouts: map[uuid.UUID]dto.PayoutRead{},
		},
		failOn: map[string]error{},
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

// Commits returns how many units of work committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// AddUser seeds a user.
func (s *Store) AddUser(u dto.UserRead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.data.users[u.ID] = u
}

// AddPayout seeds a payout request.
func (s *Store) AddPayout(p dto.PayoutRead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.data.payouts[p.ID] = p
}

// User returns a copy of the stored user.
func (s *Store) User(id uuid.UUID) (dto.UserRead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	return u, ok
}

// Payout returns a copy of the stored payout request.
func (s *Store) Payout(id uuid.UUID) (dto.PayoutRead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.payouts[id]
	return p, ok
}

// Ledger returns a copy of all ledger entries in insertion order.
func (s *Store) Ledger() []dto.CreditTransactionRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.CreditTransactionRead(nil), s.data.ledger...)
}

// Do implements repository.UnitOfWork.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failOn[OpBegin]; err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(&session{store: s, inTx: true}); err != nil {
		s.data = snapshot
		return err
	}
	s.commits++
	return nil
}

// GetRepository implements repository.UnitOfWork outside a transaction.
func (s *Store) GetRepository(repoType any) (any, error) {
	return (&session{store: s}).GetRepository(repoType)
}

type session struct {
	store *Store
	inTx  bool
}

// Do joins the running unit of work.
func (ss *session) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if !ss.inTx {
		return ss.store.Do(ctx, fn)
	}
	return fn(ss)
}

func (ss *session) GetRepository(repoType any) (any, error) {
	switch reflect.TypeOf(repoType) {
	case reflect.TypeOf((*userrepo.Repository)(nil)):
		return &userRepository{ss}, nil
	case reflect.TypeOf((*payoutrepo.Repository)(nil)):
		return &payoutRepository{ss}, nil
	case reflect.TypeOf((*ledgerrepo.Repository)(nil)):
		return &ledgerRepository{ss}, nil
	default:
		return nil, fmt.Errorf("unsupported repository type: %T", repoType)
	}
}

// with runs fn against the current state, taking the store lock unless the
// session already holds it.
func (ss *session) with(op string, fn func(d *state) error) error {
	if !ss.inTx {
		ss.store.mu.Lock()
		defer ss.store.mu.Unlock()
	}
	if err := ss.store.failOn[op]; err != nil {
		return err
	}
	return fn(ss.store.data)
}

type userRepository struct{ ss *session }

func (r *userRepository) Create(ctx context.Context, create *dto.UserCreate) error {
	return r.ss.with("user.Create", func(d *state) error {
		for _, u := range d.users {
			if u.Username == create.Username || u.Email == create.Email {
				return domain.ErrAlreadyExists
			}
		}
		id := create.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		now := time.Now().UTC()
		d.users[id] = dto.UserRead{
			ID:             id,
			Username:       create.Username,
			Email:          create.Email,
			HashedPassword: create.Password,
			Role:           create.Role,
			Credits:        decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return nil
	})
}

func (r *userRepository) get(op string, match func(dto.UserRead) bool) (*dto.UserRead, error) {
	var found *dto.UserRead
	err := r.ss.with(op, func(d *state) error {
		for _, u := range d.users {
			if match(u) {
				u := u
				found = &u
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.get(OpUserGet, func(u dto.UserRead) bool { return u.ID == id })
}

func (r *userRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.get("user.GetForUpdate", func(u dto.UserRead) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	return r.get("user.GetByEmail", func(u dto.UserRead) bool { return u.Email == email })
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*dto.UserRead, error) {
	return r.get("user.GetByUsername", func(u dto.UserRead) bool { return u.Username == username })
}

func (r *userRepository) DecrementCredits(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	applied := false
	err := r.ss.with(OpDecrementCredits, func(d *state) error {
		u, ok := d.users[id]
		if !ok || u.Credits.LessThan(amount) {
			return nil
		}
		u.Credits = u.Credits.Sub(amount)
		u.UpdatedAt = time.Now().UTC()
		d.users[id] = u
		applied = true
		return nil
	})
	return applied, err
}

type payoutRepository struct{ ss *session }

func (r *payoutRepository) Get(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error) {
	var found *dto.PayoutRead
	err := r.ss.with("payout.Get", func(d *state) error {
		if p, ok := d.payouts[id]; ok {
			found = &p
		}
		return nil
	})
	return found, err
}

func (r *payoutRepository) GetProcessingForUpdate(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error) {
	var found *dto.PayoutRead
	err := r.ss.with(OpPayoutLoad, func(d *state) error {
		if p, ok := d.payouts[id]; ok && payout.Status(p.Status).Eligible() {
			found = &p
		}
		return nil
	})
	return found, err
}

func (r *payoutRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processed dto.PayoutProcessed) (bool, error) {
	applied := false
	err := r.ss.with(OpPayoutMark, func(d *state) error {
		p, ok := d.payouts[id]
		if !ok || !payout.Status(p.Status).Eligible() {
			return nil
		}
		at := processed.ProcessedAt
		by := processed.ProcessedBy
		p.Status = string(payout.StatusProcessed)
		p.ProcessedAt = &at
		p.ProcessedBy = &by
		d.payouts[id] = p
		applied = true
		return nil
	})
	return applied, err
}

func (r *payoutRepository) ListByStatus(ctx context.Context, status string) ([]*dto.PayoutRead, error) {
	var result []*dto.PayoutRead
	err := r.ss.with("payout.ListByStatus", func(d *state) error {
		for _, p := range d.payouts {
			if p.Status == status {
				p := p
				result = append(result, &p)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, err
}

type ledgerRepository struct{ ss *session }

func (r *ledgerRepository) Create(ctx context.Context, create dto.CreditTransactionCreate) error {
	return r.ss.with(OpLedgerCreate, func(d *state) error {
		for _, e := range d.ledger {
			if e.ID == create.ID {
				return domain.ErrAlreadyExists
			}
		}
		if create.ID == uuid.Nil {
			return errors.New("ledger entry id is required")
		}
		d.ledger = append(d.ledger, dto.CreditTransactionRead{
			ID:        create.ID,
			UserID:    create.UserID,
			Amount:    create.Amount,
			Type:      create.Type,
			CreatedAt: create.CreatedAt,
		})
		return nil
	})
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CreditTransactionRead, error) {
	var result []*dto.CreditTransactionRead
	err := r.ss.with("ledger.ListByUser", func(d *state) error {
		for i := len(d.ledger) - 1; i >= 0; i-- {
			if d.ledger[i].UserID == userID {
				e := d.ledger[i]
				result = append(result, &e)
			}
		}
		return nil
	})
	return result, err
}

var (
	_ repository.UnitOfWork = (*Store)(nil)
	_ repository.UnitOfWork = (*session)(nil)
	_ userrepo.Repository   = (*userRepository)(nil)
	_ payoutrepo.Repository = (*payoutRepository)(nil)
	_ ledgerrepo.Repository = (*ledgerRepository)(nil)
)
