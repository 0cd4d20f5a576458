package services

import (
	"context"
	"errors"
	"fmt"
	"loadboard-service/internal/domain"
	"loadboard-service/internal/platform/obs"
	"loadboard-service/internal/ports"
	"loadboard-service/internal/seed"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoadOrder selects how ListLoads orders its result.
type LoadOrder int

const (
	// OrderPosted is the stored order: most recently posted first.
	OrderPosted LoadOrder = iota
	// OrderPickupDesc sorts by pickup date, latest first. Ties keep posted order.
	OrderPickupDesc
)

// errUnchanged lets a mutation report success without a Save.
var errUnchanged = errors.New("state unchanged")

// LoadStore owns the authoritative AppState and keeps it in sync with a
// StateGateway.
//
// Every mutation is optimistic: the new state becomes visible to readers
// before Save returns, and is replaced by the pre-mutation state if Save
// fails. Mutations are serialized across their Save round trip, so each
// one builds on the latest optimistic state rather than a stale snapshot.
type LoadStore struct {
	gateway  ports.StateGateway
	notifier ports.Notifier
	now      func() time.Time
	newID    func() string
	defaults func() domain.AppState

	writeMu sync.Mutex

	mu    sync.RWMutex
	state domain.AppState
}

type Option func(*LoadStore)

func WithNotifier(n ports.Notifier) Option { return func(s *LoadStore) { s.notifier = n } }

func WithClock(now func() time.Time) Option { return func(s *LoadStore) { s.now = now } }

func WithIDGenerator(newID func() string) Option { return func(s *LoadStore) { s.newID = newID } }

// WithDefaultState sets the state seeded when the gateway has none.
func WithDefaultState(defaults func() domain.AppState) Option {
	return func(s *LoadStore) { s.defaults = defaults }
}

// OpenLoadStore loads the AppState from gw, seeding defaults when the store
// is empty, malformed or unreadable (see LoadOrSeed).
func OpenLoadStore(ctx context.Context, gw ports.StateGateway, opts ...Option) (*LoadStore, error) {
	if gw == nil {
		return nil, errors.New("open load store: gateway is nil")
	}

	s := &LoadStore{
		gateway:  gw,
		now:      time.Now,
		newID:    uuid.NewString,
		defaults: seed.Default,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = LoadOrSeed(ctx, gw, s.defaults())
	return s, nil
}

// LoadOrSeed reads the stored AppState. An empty or malformed store is
// replaced by defaults, which are persisted back. Any other read failure
// also yields defaults, but nothing is written so a transient outage cannot
// clobber good remote data.
func LoadOrSeed(ctx context.Context, gw ports.StateGateway, defaults domain.AppState) domain.AppState {
	state, err := gw.Load(ctx)
	switch {
	case err == nil:
		return state
	case errors.Is(err, domain.ErrNoState), errors.Is(err, domain.ErrMalformedState):
		log.Printf("app state unavailable, seeding defaults: reason=%v", err)
		if err := gw.Save(ctx, defaults); err != nil {
			log.Printf("persist seeded app state failed: %v", err)
		}
		return defaults
	default:
		log.Printf("load app state failed, using defaults in memory: %v", err)
		return defaults
	}
}

// Snapshot returns a deep copy of the current (possibly optimistic) state.
func (s *LoadStore) Snapshot() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *LoadStore) set(state domain.AppState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// ListLoads returns copies of all loads in the requested order.
func (s *LoadStore) ListLoads(order LoadOrder) []domain.Load {
	loads := s.Snapshot().Loads
	if order == OrderPickupDesc {
		slices.SortStableFunc(loads, func(a, b domain.Load) int {
			return strings.Compare(b.PickupDate, a.PickupDate)
		})
	}
	return loads
}

func (s *LoadStore) GetLoad(id string) (domain.Load, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.FindLoad(id)
	if i < 0 {
		return domain.Load{}, fmt.Errorf("get load %q: %w", id, domain.ErrNotFound)
	}
	return s.state.Loads[i].Clone(), nil
}

func (s *LoadStore) CarrierEmails() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.CarrierEmails)
}

// mutate is the one transaction every mutator goes through: compute the
// next state from a private copy of the current one, publish it, persist
// it, and restore the previous state if persisting fails. An error from fn
// leaves state untouched and skips the gateway entirely.
func (s *LoadStore) mutate(
	ctx context.Context,
	op string,
	fn func(state domain.AppState) (domain.AppState, error),
) (err error) {
	defer obs.Time(ctx, "store."+op)(&err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.Snapshot()
	next, err := fn(prev.Clone())
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	s.set(next)

	if err := s.gateway.Save(ctx, next); err != nil {
		s.set(prev)
		return &domain.PersistenceError{Op: op, Err: err}
	}

	return nil
}

// PostLoad validates details and prepends a new load with a fresh id and no
// bids. Subscribers are notified only after the load has been persisted.
func (s *LoadStore) PostLoad(ctx context.Context, details domain.LoadDetails) (domain.Load, error) {
	d, err := domain.NormalizeDetails(details)
	if err != nil {
		return domain.Load{}, fmt.Errorf("post load: %w", err)
	}

	var (
		created     domain.Load
		subscribers []string
	)
	err = s.mutate(ctx, "PostLoad", func(state domain.AppState) (domain.AppState, error) {
		id := s.newID()
		for state.FindLoad(id) >= 0 {
			id = s.newID()
		}

		created = domain.Load{ID: id, LoadDetails: d, Bids: []domain.Bid{}}
		state.Loads = append([]domain.Load{created.Clone()}, state.Loads...)
		subscribers = slices.Clone(state.CarrierEmails)
		return state, nil
	})
	if err != nil {
		return domain.Load{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewLoad(ctx, created.Clone(), subscribers); err != nil {
			log.Printf("req_id=%s notify new load failed: load_id=%s err=%v", obs.RequestID(ctx), created.ID, err)
		}
	}

	return created, nil
}

// UpdateLoad replaces every detail of the load with updated.ID. The id and
// bids are kept; updated.Bids is ignored.
func (s *LoadStore) UpdateLoad(ctx context.Context, updated domain.Load) (domain.Load, error) {
	d, err := domain.NormalizeDetails(updated.LoadDetails)
	if err != nil {
		return domain.Load{}, fmt.Errorf("update load: %w", err)
	}

	var result domain.Load
	err = s.mutate(ctx, "UpdateLoad", func(state domain.AppState) (domain.AppState, error) {
		i := state.FindLoad(updated.ID)
		if i < 0 {
			return state, fmt.Errorf("update load %q: %w", updated.ID, domain.ErrNotFound)
		}

		state.Loads[i].LoadDetails = d
		result = state.Loads[i].Clone()
		return state, nil
	})
	if err != nil {
		return domain.Load{}, err
	}

	return result, nil
}

// RemoveLoad deletes the load with id. Removing an absent id succeeds and
// changes nothing.
func (s *LoadStore) RemoveLoad(ctx context.Context, id string) error {
	return s.mutate(ctx, "RemoveLoad", func(state domain.AppState) (domain.AppState, error) {
		i := state.FindLoad(id)
		if i < 0 {
			return state, errUnchanged
		}

		state.Loads = slices.Delete(state.Loads, i, i+1)
		return state, nil
	})
}

// AddBid appends a bid to the load with loadID. Bids are append-only.
func (s *LoadStore) AddBid(ctx context.Context, loadID string, in domain.BidInput) (domain.Bid, error) {
	in.CarrierName = strings.TrimSpace(in.CarrierName)
	in.CarrierEmail = strings.TrimSpace(in.CarrierEmail)
	if err := domain.ValidateBid(in); err != nil {
		return domain.Bid{}, fmt.Errorf("add bid: %w", err)
	}

	var bid domain.Bid
	err := s.mutate(ctx, "AddBid", func(state domain.AppState) (domain.AppState, error) {
		i := state.FindLoad(loadID)
		if i < 0 {
			return state, fmt.Errorf("add bid: load %q: %w", loadID, domain.ErrNotFound)
		}

		id := s.newID()
		for hasBid(state.Loads[i].Bids, id) {
			id = s.newID()
		}

		bid = domain.Bid{
			ID:           id,
			CarrierName:  in.CarrierName,
			Amount:       in.Amount,
			Timestamp:    s.now().UTC(),
			CarrierEmail: in.CarrierEmail,
			TransitDays:  in.TransitDays,
		}
		state.Loads[i].Bids = append(state.Loads[i].Bids, bid)
		return state, nil
	})
	if err != nil {
		return domain.Bid{}, err
	}

	return bid, nil
}

func hasBid(bids []domain.Bid, id string) bool {
	return slices.ContainsFunc(bids, func(b domain.Bid) bool { return b.ID == id })
}

// SubscribeCarrierEmail adds email to the subscriber list exactly as typed.
// Duplicates are detected case-insensitively.
func (s *LoadStore) SubscribeCarrierEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !domain.ValidEmail(email) {
		return fmt.Errorf("subscribe: %w", &domain.ValidationError{
			Field:  "email",
			Reason: fmt.Sprintf("%q is not a valid email address", email),
		})
	}

	return s.mutate(ctx, "SubscribeCarrierEmail", func(state domain.AppState) (domain.AppState, error) {
		if state.HasCarrierEmail(email) {
			return state, fmt.Errorf("subscribe %q: %w", email, domain.ErrDuplicate)
		}

		state.CarrierEmails = append(state.CarrierEmails, email)
		return state, nil
	})
}
