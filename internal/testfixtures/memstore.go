package testfixtures

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	blockedRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/blockedslot"
	catalogRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/catalog"
	loyaltyRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/loyalty"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
)

// ErrInjected returned by an operation armed with Store.FailOn
var ErrInjected = errors.New("testfixtures: injected failure")

type state struct {
	locations    map[int64]domain.Location
	services     map[int64]domain.Service
	reservations map[int64]domain.Reservation
	blocked      map[int64]domain.BlockedSlot
	payments     []domain.Payment
	events       map[string]struct{}
	profiles     map[profileKey]domain.LoyaltyProfile
	history      []domain.LoyaltyHistory
	nextID       int64
}

func newState() *state {
	return &state{
		locations:    make(map[int64]domain.Location),
		services:     make(map[int64]domain.Service),
		reservations: make(map[int64]domain.Reservation),
		blocked:      make(map[int64]domain.BlockedSlot),
		events:       make(map[string]struct{}),
		profiles:     make(map[profileKey]domain.LoyaltyProfile),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.locations {
		c.locations[k] = v
	}
	for k, v := range st.services {
		c.services[k] = v
	}
	for k, v := range st.reservations {
		c.reservations[k] = copyReservation(v)
	}
	for k, v := range st.blocked {
		c.blocked[k] = v
	}
	c.payments = append(c.payments, st.payments...)
	for k := range st.events {
		c.events[k] = struct{}{}
	}
	for k, v := range st.profiles {
		c.profiles[k] = v
	}
	c.history = append(c.history, st.history...)
	c.nextID = st.nextID
	return c
}

func copyReservation(r domain.Reservation) domain.Reservation {
	r.Services = append([]domain.ReservationService(nil), r.Services...)
	return r
}

// Store in-memory stand-in for the Postgres schema. It enforces the same constraints
// (interval exclusion, unique payment ids, non-negative counters) and, through TxManager,
// gives all-or-nothing transactions serialized by one lock.
type Store struct {
	mu   sync.Mutex
	st   *state
	txMu sync.Mutex

	failOn map[string]error
	now    func() time.Time
}

// SetNow overrides the timestamp source of created rows
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func NewStore() *Store {
	return &Store{
		st:     newState(),
		failOn: make(map[string]error),
		now:    time.Now,
	}
}

// FailOn makes the named operation (e.g. "AddHistory", "CreatePayment") return err until cleared with nil
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *Store) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// AddLocation seeds a location
func (s *Store) AddLocation(l domain.Location) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.locations[l.ID] = l
	return s
}

// AddService seeds a catalog service
func (s *Store) AddService(svc domain.Service) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.services[svc.ID] = svc
	return s
}

// AddProfile seeds a loyalty profile
func (s *Store) AddProfile(p domain.LoyaltyProfile) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	if p.Tier == "" {
		p.Tier = domain.TierBronze
	}
	s.st.profiles[profileKey{p.OrganizationID, p.UserID}] = p
	return s
}

// Payments every stored payment of reservationID
func (s *Store) Payments(reservationID int64) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.st.payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out
}

// History every audit entry of userID in organizationID, oldest first
func (s *Store) History(organizationID, userID int64) []domain.LoyaltyHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LoyaltyHistory
	for _, h := range s.st.history {
		if h.UserID == userID && h.OrganizationID == organizationID {
			out = append(out, h)
		}
	}
	return out
}

// Profile current profile of userID in organizationID
func (s *Store) Profile(organizationID, userID int64) (domain.LoyaltyProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[profileKey{organizationID, userID}]
	return p, ok
}

// Reservation current row of id
func (s *Store) Reservation(id int64) (domain.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reservations[id]
	return copyReservation(r), ok
}

// Repository views over the same state

func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }
func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{s: s} }
func (s *Store) PaymentsRepo() *PaymentRepo { return &PaymentRepo{s: s} }
func (s *Store) Loyalty() *LoyaltyRepo { return &LoyaltyRepo{s: s} }
func (s *Store) BlockedSlots() *BlockedSlotRepo { return &BlockedSlotRepo{s: s} }
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// ---------------------------------------------------------------- catalog

type CatalogRepo struct{ s *Store }

func (r *CatalogRepo) GetLocation(_ context.Context, organizationID, locationID int64) (*domain.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.st.locations[locationID]
	if !ok || l.OrganizationID != organizationID {
		return nil, catalogRepo.ErrLocationNotFound
	}
	return &l, nil
}

func (r *CatalogRepo) GetServices(_ context.Context, organizationID int64, ids []int64) ([]*domain.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := r.s.st.services[id]
		if !ok || svc.OrganizationID != organizationID || !svc.IsActive {
			continue
		}
		out = append(out, &svc)
	}
	return out, nil
}

// ---------------------------------------------------------------- reservations

type ReservationRepo struct{ s *Store }

func (r *ReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("CreateReservation"); err != nil {
		return nil, err
	}

	for _, other := range r.s.st.reservations {
		if other.LocationID != res.LocationID || !other.OccupiesCalendar() || !sameDay(other.Date, res.Date) {
			continue
		}
		if other.Interval().Overlaps(res.Interval()) {
			return nil, reservationRepo.ErrSlotNotAvailable
		}
	}

	created := copyReservation(*res)
	created.ID = r.s.id()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	for i := range created.Services {
		created.Services[i].ReservationID = created.ID
	}
	r.s.st.reservations[created.ID] = created

	out := copyReservation(created)
	return &out, nil
}

func (r *ReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.st.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	out := copyReservation(res)
	return &out, nil
}

func (r *ReservationRepo) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Reservation, 0)
	for _, res := range r.s.st.reservations {
		if res.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.LocationID != nil && res.LocationID != *filter.LocationID {
			continue
		}
		if filter.Date != nil && !sameDay(res.Date, *filter.Date) {
			continue
		}
		if filter.UserID != nil && res.UserID != *filter.UserID {
			continue
		}
		if !filter.IncludeCancelled && res.Status == domain.StatusCancelled {
			continue
		}
		c := copyReservation(res)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !sameDay(out[i].Date, out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime.Minutes() != out[j].StartTime.Minutes() {
			return out[i].StartTime.Minutes() < out[j].StartTime.Minutes()
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ReservationRepo) UpdateStatus(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdateStatus"); err != nil {
		return err
	}
	cur, ok := r.s.st.reservations[res.ID]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	cur.Status = res.Status
	cur.CancellationReason = res.CancellationReason
	cur.CancelledAt = res.CancelledAt
	cur.CompletedAt = res.CompletedAt
	cur.UpdatedAt = r.s.now()
	r.s.st.reservations[res.ID] = cur
	return nil
}

func (r *ReservationRepo) UpdatePayment(_ context.Context, res *domain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdatePayment"); err != nil {
		return err
	}
	cur, ok := r.s.st.reservations[res.ID]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.InvoiceNumber != nil {
		for id, other := range r.s.st.reservations {
			if id != res.ID && other.OrganizationID == cur.OrganizationID &&
				other.InvoiceNumber != nil && *other.InvoiceNumber == *res.InvoiceNumber {
				return reservationRepo.ErrDuplicateInvoice
			}
		}
	}
	cur.Status = res.Status
	cur.PaymentStatus = res.PaymentStatus
	cur.PaymentAmount = res.PaymentAmount
	cur.DiscountAmount = res.DiscountAmount
	cur.PaymentMethod = res.PaymentMethod
	cur.PaymentDate = res.PaymentDate
	cur.InvoiceNumber = res.InvoiceNumber
	cur.PaymentNotes = res.PaymentNotes
	cur.UpdatedAt = r.s.now()
	r.s.st.reservations[res.ID] = cur
	return nil
}

func (r *ReservationRepo) CountInvoices(_ context.Context, organizationID int64, prefix string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, res := range r.s.st.reservations {
		if res.OrganizationID == organizationID && res.InvoiceNumber != nil && strings.HasPrefix(*res.InvoiceNumber, prefix) {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------- payments

type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(_ context.Context, p *domain.Payment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("CreatePayment"); err != nil {
		return false, err
	}
	for _, existing := range r.s.st.payments {
		if existing.Provider == p.Provider && existing.ExternalID == p.ExternalID {
			return false, nil
		}
	}
	p.ID = r.s.id()
	p.CreatedAt = r.s.now()
	r.s.st.payments = append(r.s.st.payments, *p)
	return true, nil
}

func (r *PaymentRepo) Exists(_ context.Context, provider domain.Provider, externalID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.payments {
		if existing.Provider == provider && existing.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *PaymentRepo) MarkEventProcessed(_ context.Context, ev *domain.NormalizedPaymentEvent) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := string(ev.Provider) + "|" + ev.ExternalID + "|" + string(ev.Outcome)
	if _, ok := r.s.st.events[key]; ok {
		return false, nil
	}
	r.s.st.events[key] = struct{}{}
	return true, nil
}

func (r *PaymentRepo) ListByReservation(_ context.Context, reservationID int64) ([]*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Payment, 0)
	for _, p := range r.s.st.payments {
		if p.ReservationID == reservationID {
			c := p
			out = append(out, &c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------- loyalty

type LoyaltyRepo struct{ s *Store }

type profileKey struct{ organizationID, userID int64 }

func (r *LoyaltyRepo) GetByUserID(_ context.Context, userID, organizationID int64) (*domain.LoyaltyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.profiles[profileKey{organizationID, userID}]
	if !ok {
		return nil, loyaltyRepo.ErrProfileNotFound
	}
	return &p, nil
}

func (r *LoyaltyRepo) CreateIfAbsent(_ context.Context, userID, organizationID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := profileKey{organizationID, userID}
	if _, ok := r.s.st.profiles[key]; ok {
		return false, nil
	}
	now := r.s.now()
	r.s.st.profiles[key] = domain.LoyaltyProfile{
		ID:             r.s.id(),
		UserID:         userID,
		OrganizationID: organizationID,
		Tier:           domain.TierBronze,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return true, nil
}

func (r *LoyaltyRepo) IncrementCounter(_ context.Context, userID, organizationID int64, kind domain.RedemptionKind) (*domain.LoyaltyProfile, error) {
	return r.update(profileKey{organizationID, userID}, func(p *domain.LoyaltyProfile) error {
		if kind == domain.RedemptionPackage {
			p.PackagesCount++
		} else {
			p.IndividualServicesCount++
		}
		return nil
	}, loyaltyRepo.ErrProfileNotFound)
}

func (r *LoyaltyRepo) DecrementIfAtLeast(_ context.Context, userID, organizationID int64, kind domain.RedemptionKind, threshold int) (*domain.LoyaltyProfile, error) {
	return r.update(profileKey{organizationID, userID}, func(p *domain.LoyaltyProfile) error {
		counter := &p.IndividualServicesCount
		if kind == domain.RedemptionPackage {
			counter = &p.PackagesCount
		}
		if *counter < threshold {
			return loyaltyRepo.ErrInsufficientBalance
		}
		*counter -= threshold
		return nil
	}, loyaltyRepo.ErrInsufficientBalance)
}

func (r *LoyaltyRepo) UpdateSpending(_ context.Context, userID, organizationID, totalSpent int64) (*domain.LoyaltyProfile, error) {
	return r.update(profileKey{organizationID, userID}, func(p *domain.LoyaltyProfile) error {
		p.TotalSpent = max(totalSpent, 0)
		p.Points = domain.PointsFor(p.TotalSpent)
		p.Tier = domain.TierFor(p.Points)
		return nil
	}, loyaltyRepo.ErrProfileNotFound)
}

func (r *LoyaltyRepo) update(key profileKey, fn func(p *domain.LoyaltyProfile) error, notFound error) (*domain.LoyaltyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.profiles[key]
	if !ok {
		return nil, notFound
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	p.UpdatedAt = r.s.now()
	r.s.st.profiles[key] = p
	return &p, nil
}

func (r *LoyaltyRepo) AddHistory(_ context.Context, h *domain.LoyaltyHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("AddHistory"); err != nil {
		return err
	}
	h.ID = r.s.id()
	h.CreatedAt = r.s.now()
	r.s.st.history = append(r.s.st.history, *h)
	return nil
}

func (r *LoyaltyRepo) ListHistory(_ context.Context, userID, organizationID int64, limit int) ([]*domain.LoyaltyHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.LoyaltyHistory, 0)
	for i := len(r.s.st.history) - 1; i >= 0 && len(out) < limit; i-- {
		if h := r.s.st.history[i]; h.UserID == userID && h.OrganizationID == organizationID {
			out = append(out, &h)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------- blocked slots

type BlockedSlotRepo struct{ s *Store }

func (r *BlockedSlotRepo) Create(_ context.Context, b *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created := *b
	created.ID = r.s.id()
	created.CreatedAt = r.s.now()
	r.s.st.blocked[created.ID] = created
	return &created, nil
}

func (r *BlockedSlotRepo) ListByLocationAndDate(_ context.Context, organizationID, locationID int64, date time.Time) ([]*domain.BlockedSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.BlockedSlot, 0)
	for _, b := range r.s.st.blocked {
		if b.OrganizationID == organizationID && b.LocationID == locationID && sameDay(b.Date, date) {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BlockedSlotRepo) Delete(_ context.Context, organizationID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.blocked[id]
	if !ok || b.OrganizationID != organizationID {
		return blockedRepo.ErrBlockedSlotNotFound
	}
	delete(r.s.st.blocked, id)
	return nil
}

// ---------------------------------------------------------------- transactions

type txKey struct{}

// TxManager serializes top-level transactions with one lock and restores the
// snapshot taken at begin when the closure fails. Nested calls join the outer one.
type TxManager struct {
	s *Store

	mu      sync.Mutex
	commits int
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// Commits number of committed top-level transactions
func (m *TxManager) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.st.clone()
	m.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.st = snapshot
		m.s.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(domain.DateFormat) == b.Format(domain.DateFormat)
}
