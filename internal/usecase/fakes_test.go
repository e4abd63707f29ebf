package usecase

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore backs every fake repository. Transactions run one at a time and
// restore a snapshot when fn fails, which is how the pgx implementation
// behaves for the row locks these services take.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.Session
	rooms    map[uuid.UUID]entity.Room
	bookings map[uuid.UUID]entity.Booking
	coupons  map[uuid.UUID]entity.Coupon
	payments map[uuid.UUID]entity.Payment
	reviews  map[uuid.UUID]entity.Review
	outbox   []entity.OutboxMessage

	// failSettle makes the next n Settle calls fail with a transient error
	failSettle int
}

type snapshot struct {
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.Session
	rooms    map[uuid.UUID]entity.Room
	bookings map[uuid.UUID]entity.Booking
	coupons  map[uuid.UUID]entity.Coupon
	payments map[uuid.UUID]entity.Payment
	reviews  map[uuid.UUID]entity.Review
	outbox   []entity.OutboxMessage
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		sessions: map[uuid.UUID]entity.Session{},
		rooms:    map[uuid.UUID]entity.Room{},
		bookings: map[uuid.UUID]entity.Booking{},
		coupons:  map[uuid.UUID]entity.Coupon{},
		payments: map[uuid.UUID]entity.Payment{},
		reviews:  map[uuid.UUID]entity.Review{},
	}
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:    maps.Clone(s.users),
		sessions: maps.Clone(s.sessions),
		rooms:    maps.Clone(s.rooms),
		bookings: maps.Clone(s.bookings),
		coupons:  maps.Clone(s.coupons),
		payments: maps.Clone(s.payments),
		reviews:  maps.Clone(s.reviews),
		outbox:   slices.Clone(s.outbox),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.sessions = snap.sessions
	s.rooms = snap.rooms
	s.bookings = snap.bookings
	s.coupons = snap.coupons
	s.payments = snap.payments
	s.reviews = snap.reviews
	s.outbox = snap.outbox
}

func (s *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		User:    &memUsers{s},
		Session: &memSessions{s},
		Room:    &memRooms{s},
		Booking: &memBookings{s},
		Coupon:  &memCoupons{s},
		Payment: &memPayments{s},
		Review:  &memReviews{s},
		Outbox:  &memOutbox{s},
	}
	repo.Tx = &memTx{store: s, repo: repo}
	return repo
}

// Test helpers

func (s *memStore) addRoom(r entity.Room) entity.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return r
}

func (s *memStore) addBooking(b entity.Booking) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
	return b
}

func (s *memStore) addCoupon(c entity.Coupon) entity.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.ID] = c
	return c
}

func (s *memStore) addPayment(p entity.Payment) entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	return p
}

func (s *memStore) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) coupon(id uuid.UUID) entity.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupons[id]
}

func (s *memStore) payment(id uuid.UUID) entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[id]
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) outboxEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]string, 0, len(s.outbox))
	for _, m := range s.outbox {
		events = append(events, m.EventType)
	}
	return events
}

type memTx struct {
	store *memStore
	repo  *repository.Repository
}

func (t *memTx) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()

	inner := *t.repo
	inner.Tx = joined{repo: &inner}
	if err := fn(&inner); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type joined struct {
	repo *repository.Repository
}

func (j joined) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return fn(j.repo)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ==================== users ====================

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			u := u // per-iteration copy (pre-Go 1.22 loop semantics)
			all = append(all, &u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (r *memUsers) CountAll(ctx context.Context) (int64, error) {
	all, _ := r.FindAll(ctx, 0, 0)
	return int64(len(all)), nil
}

func (r *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	r.s.users[id] = u
	return nil
}

// ==================== sessions ====================

type memSessions struct{ s *memStore }

func (r *memSessions) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = *session
	return nil
}

func (r *memSessions) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return nil, nil
	}
	return &sess, nil
}

func (r *memSessions) Revoke(ctx context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	sess.RevokedAt = &now
	r.s.sessions[token] = sess
	return nil
}

func (r *memSessions) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for token, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
			r.s.sessions[token] = sess
		}
	}
	return nil
}

func (r *memSessions) CleanExpiredSessions(ctx context.Context) error {
	return nil
}

// ==================== rooms ====================

type memRooms struct{ s *memStore }

func (r *memRooms) Create(ctx context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rooms {
		if existing.RoomNumber == room.RoomNumber && existing.DeletedAt == nil {
			return repository.ErrDuplicate
		}
	}
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *memRooms) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok || room.DeletedAt != nil {
		return nil, nil
	}
	return &room, nil
}

// LockByID relies on memTx serializing transactions.
func (r *memRooms) LockByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return r.FindByID(ctx, id)
}

func (r *memRooms) filtered(filter repository.RoomFilter) []*entity.Room {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Room
	for _, room := range r.s.rooms {
		switch {
		case room.DeletedAt != nil:
		case filter.Type != nil && room.Type != *filter.Type:
		case filter.Status != nil && room.Status != *filter.Status:
		case room.Capacity < filter.MinCapacity:
		default:
			room := room // per-iteration copy (pre-Go 1.22 loop semantics)
			all = append(all, &room)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RoomNumber < all[j].RoomNumber })
	return all
}

func (r *memRooms) FindAll(ctx context.Context, filter repository.RoomFilter) ([]*entity.Room, error) {
	return page(r.filtered(filter), filter.Limit, filter.Offset), nil
}

func (r *memRooms) Count(ctx context.Context, filter repository.RoomFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

func (r *memRooms) Update(ctx context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.rooms[room.ID] = *room
	return nil
}

func (r *memRooms) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}
	room.Status = status
	r.s.rooms[id] = room
	return nil
}

// ==================== bookings ====================

type memBookings struct{ s *memStore }

func (r *memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookings) where(keep func(entity.Booking) bool) []*entity.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if keep(b) {
			b := b // per-iteration copy (pre-Go 1.22 loop semantics)
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memBookings) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	all := r.where(func(b entity.Booking) bool { return b.UserID == userID })
	return page(all, limit, offset), nil
}

func (r *memBookings) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.where(func(b entity.Booking) bool { return b.UserID == userID }))), nil
}

func (r *memBookings) FindAll(ctx context.Context, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	all := r.where(func(b entity.Booking) bool { return status == nil || b.Status == *status })
	return page(all, limit, offset), nil
}

func (r *memBookings) CountAll(ctx context.Context, status *entity.BookingStatus) (int64, error) {
	return int64(len(r.where(func(b entity.Booking) bool { return status == nil || b.Status == *status }))), nil
}

func (r *memBookings) FindConflicts(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Booking, error) {
	return r.where(func(b entity.Booking) bool {
		return b.RoomID == roomID &&
			b.Status.Blocks() &&
			!b.CheckIn.After(checkOut) &&
			!b.CheckOut.Before(checkIn)
	}), nil
}

func (r *memBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = at
	r.s.bookings[id] = b
	return nil
}

func (r *memBookings) UpdateServices(ctx context.Context, id uuid.UUID, services entity.PremiumServices, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.PremiumServices = services
	b.UpdatedAt = at
	r.s.bookings[id] = b
	return nil
}

// ==================== coupons ====================

type memCoupons struct{ s *memStore }

func (r *memCoupons) Create(ctx context.Context, coupon *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.coupons {
		if c.Code == coupon.Code {
			return repository.ErrDuplicate
		}
	}
	r.s.coupons[coupon.ID] = *coupon
	return nil
}

func (r *memCoupons) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok || c.DeletedAt != nil {
		return nil, nil
	}
	return &c, nil
}

func (r *memCoupons) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	code = entity.NormalizeCouponCode(code)
	for _, c := range r.s.coupons {
		if c.Code == code && c.DeletedAt == nil {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCoupons) FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Coupon
	for _, c := range r.s.coupons {
		if c.DeletedAt == nil {
			c := c // per-iteration copy (pre-Go 1.22 loop semantics)
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (r *memCoupons) Count(ctx context.Context) (int64, error) {
	all, _ := r.FindAll(ctx, 0, 0)
	return int64(len(all)), nil
}

func (r *memCoupons) Update(ctx context.Context, coupon *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coupons[coupon.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.coupons[coupon.ID] = *coupon
	return nil
}

func (r *memCoupons) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = false
	r.s.coupons[id] = c
	return nil
}

func (r *memCoupons) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok || c.Exhausted() {
		return false, nil
	}
	c.UsedCount++
	r.s.coupons[id] = c
	return true, nil
}

// ==================== payments ====================

type memPayments struct{ s *memStore }

func (r *memPayments) Create(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memPayments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPayments) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.BookingID == bookingID {
			p := p // per-iteration copy (pre-Go 1.22 loop semantics)
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPayments) Settle(ctx context.Context, id uuid.UUID, st entity.Settlement) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSettle > 0 {
		r.s.failSettle--
		return false, errTransient
	}
	p, ok := r.s.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return false, nil
	}
	code := st.ResponseCode
	p.Status = st.Status
	p.TransactionID = st.TransactionID
	p.BankCode = st.BankCode
	p.CardType = st.CardType
	p.ResponseCode = &code
	p.UpdatedAt = st.At
	if st.Status == entity.PaymentStatusSuccess {
		at := st.At
		p.PaidAt = &at
	}
	r.s.payments[id] = p
	return true, nil
}

// ==================== reviews ====================

type memReviews struct{ s *memStore }

func (r *memReviews) Create(ctx context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *memReviews) where(keep func(entity.Review) bool) []*entity.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if keep(rv) {
			rv := rv // per-iteration copy (pre-Go 1.22 loop semantics)
			out = append(out, &rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memReviews) FindApprovedByRoomID(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return page(r.where(func(rv entity.Review) bool { return rv.RoomID == roomID && rv.Approved }), limit, offset), nil
}

func (r *memReviews) CountApprovedByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	return int64(len(r.where(func(rv entity.Review) bool { return rv.RoomID == roomID && rv.Approved }))), nil
}

func (r *memReviews) FindPending(ctx context.Context, limit, offset int) ([]*entity.Review, error) {
	return page(r.where(func(rv entity.Review) bool { return !rv.Approved }), limit, offset), nil
}

func (r *memReviews) CountPending(ctx context.Context) (int64, error) {
	return int64(len(r.where(func(rv entity.Review) bool { return !rv.Approved }))), nil
}

func (r *memReviews) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	found := r.where(func(rv entity.Review) bool { return rv.BookingID != nil && *rv.BookingID == bookingID })
	return len(found) > 0, nil
}

func (r *memReviews) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	rv.Approved = true
	rv.UpdatedAt = at
	r.s.reviews[id] = rv
	return nil
}

func (r *memReviews) Respond(ctx context.Context, id uuid.UUID, response string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	rv.AdminResponse = &response
	rv.RespondedAt = &at
	r.s.reviews[id] = rv
	return nil
}

func (r *memReviews) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

// ==================== outbox ====================

type memOutbox struct{ s *memStore }

func (r *memOutbox) Create(ctx context.Context, msg *entity.OutboxMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, *msg)
	return nil
}

func (r *memOutbox) FetchPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	return nil, nil
}

func (r *memOutbox) FetchRetryable(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	return nil, nil
}

func (r *memOutbox) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (r *memOutbox) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return nil
}

func (r *memOutbox) DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
