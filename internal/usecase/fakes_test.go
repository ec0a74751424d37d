package usecase

import (
	"context"
	"fmt"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/data/repository"
	"matatubook/pkg/mpesa"
	"matatubook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. sqlmock-style mocking does not fit pgx, so the
// service tests run against these instead.

type fakeTripRepo struct {
	trips map[uuid.UUID]*entity.Trip
}

func (f *fakeTripRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Trip, error) {
	return f.trips[id], nil
}

func (f *fakeTripRepo) Search(_ context.Context, routeID uuid.UUID, date time.Time, minSeats int) ([]*entity.Trip, error) {
	var out []*entity.Trip
	for _, trip := range f.trips {
		if trip.RouteID == routeID && trip.Status == entity.TripStatusScheduled && trip.AvailableSeats >= minSeats {
			out = append(out, trip)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) AdjustAvailableSeats(_ context.Context, tripID uuid.UUID, delta int) error {
	trip, ok := f.trips[tripID]
	if !ok {
		return fmt.Errorf("trip not found")
	}
	next := trip.AvailableSeats + delta
	if next < 0 || next > trip.TotalSeats {
		return fmt.Errorf("seat adjustment out of range")
	}
	trip.AvailableSeats = next
	return nil
}

func (f *fakeTripRepo) UpdateStatus(_ context.Context, tripID uuid.UUID, status entity.TripStatus) error {
	if trip, ok := f.trips[tripID]; ok {
		trip.Status = status
	}
	return nil
}

func (f *fakeTripRepo) CompletePastTrips(_ context.Context, before time.Time) (int64, error) {
	cutoff := time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, time.Local)
	var n int64
	for _, trip := range f.trips {
		if trip.Status == entity.TripStatusInTransit && trip.DepartureDate.Before(cutoff) {
			trip.Status = entity.TripStatusCompleted
			n++
		}
	}
	return n, nil
}

type fakeSeatRepo struct {
	seats map[uuid.UUID]*entity.Seat
}

func (f *fakeSeatRepo) FindByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, seat := range f.seats {
		if seat.VehicleID == vehicleID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByIDs(_ context.Context, vehicleID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, id := range seatIDs {
		if seat, ok := f.seats[id]; ok && seat.VehicleID == vehicleID {
			out = append(out, seat)
		}
	}
	return out, nil
}

type fakeSeatBookingRepo struct {
	seatBookings []*entity.SeatBooking
	seats        map[uuid.UUID]*entity.Seat
}

func (f *fakeSeatBookingRepo) CreateBatch(_ context.Context, seatBookings []*entity.SeatBooking) error {
	f.seatBookings = append(f.seatBookings, seatBookings...)
	return nil
}

func (f *fakeSeatBookingRepo) FindOccupiedSeatIDs(_ context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, sb := range f.seatBookings {
		if sb.TripID == tripID && (sb.Status == entity.SeatStatusHeld || sb.Status == entity.SeatStatusBooked) {
			out = append(out, sb.SeatID)
		}
	}
	return out, nil
}

func (f *fakeSeatBookingRepo) FindOccupiedSeatNumbers(_ context.Context, tripID uuid.UUID) ([]string, error) {
	ids, _ := f.FindOccupiedSeatIDs(context.Background(), tripID)
	var out []string
	for _, id := range ids {
		if seat, ok := f.seats[id]; ok {
			out = append(out, seat.SeatNumber)
		}
	}
	return out, nil
}

func (f *fakeSeatBookingRepo) FindSeatNumbersByBookingID(_ context.Context, bookingID uuid.UUID) ([]string, error) {
	var out []string
	for _, sb := range f.seatBookings {
		if sb.BookingID != nil && *sb.BookingID == bookingID &&
			(sb.Status == entity.SeatStatusHeld || sb.Status == entity.SeatStatusBooked) {
			if seat, ok := f.seats[sb.SeatID]; ok {
				out = append(out, seat.SeatNumber)
			}
		}
	}
	return out, nil
}

func (f *fakeSeatBookingRepo) UpdateStatusByBookingID(_ context.Context, bookingID uuid.UUID, status entity.SeatBookingStatus) error {
	for _, sb := range f.seatBookings {
		if sb.BookingID != nil && *sb.BookingID == bookingID {
			sb.Status = status
		}
	}
	return nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking
	trips    map[uuid.UUID]*entity.Trip
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByCustomerID(_ context.Context, customerID uuid.UUID, status entity.BookingStatus) (int64, error) {
	bookings, _ := f.FindByCustomerID(context.Background(), customerID, status, 0, 0)
	return int64(len(bookings)), nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) FindExpiredPending(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status == entity.BookingStatusPending && now.After(b.ExpiresAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindConfirmedByDepartureDate(_ context.Context, date time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		trip, ok := f.trips[b.TripID]
		if !ok {
			continue
		}
		ty, tm, td := trip.DepartureDate.Date()
		dy, dm, dd := date.Date()
		if ty == dy && tm == dm && td == dd {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkNoShows(_ context.Context, departedBefore time.Time) (int64, error) {
	var marked int64
	for _, b := range f.bookings {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		trip, ok := f.trips[b.TripID]
		if !ok {
			continue
		}
		departed := trip.Status == entity.TripStatusInTransit || trip.Status == entity.TripStatusCompleted
		if departed && trip.ActualDeparture != nil && trip.ActualDeparture.Before(departedBefore) {
			b.Status = entity.BookingStatusNoShow
			marked++
		}
	}
	return marked, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentRepo) FindByCheckoutRequestID(_ context.Context, checkoutRequestID string) (*entity.Payment, error) {
	for _, p := range f.payments {
		if p.CheckoutRequestID != nil && *p.CheckoutRequestID == checkoutRequestID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindLatestByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	var latest *entity.Payment
	for _, p := range f.payments {
		if p.BookingID != bookingID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest, nil
}

func (f *fakePaymentRepo) Update(_ context.Context, payment *entity.Payment) error {
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindProcessingSince(_ context.Context, cutoff time.Time) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.Status == entity.PaymentStatusProcessing && p.CreatedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRefundRepo struct {
	refunds []*entity.Refund
}

func (f *fakeRefundRepo) Create(_ context.Context, refund *entity.Refund) error {
	f.refunds = append(f.refunds, refund)
	return nil
}

type fakePromotionRepo struct {
	promotions map[string]*entity.Promotion
	usageCount map[string]int
}

func (f *fakePromotionRepo) FindByCode(_ context.Context, code string) (*entity.Promotion, error) {
	return f.promotions[code], nil
}

func (f *fakePromotionRepo) IncrementUsage(_ context.Context, code string) error {
	if f.usageCount == nil {
		f.usageCount = map[string]int{}
	}
	f.usageCount[code]++
	if p, ok := f.promotions[code]; ok {
		p.TimesUsed++
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	n, _ := f.FindByUserID(context.Background(), userID, 0, 0)
	return len(n), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*entity.Notification
	var deleted int64
	for _, n := range f.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

type fakeSMSLogRepo struct {
	logs []*entity.SMSLog
}

func (f *fakeSMSLogRepo) Create(_ context.Context, smsLog *entity.SMSLog) error {
	f.logs = append(f.logs, smsLog)
	return nil
}

type fakeRouteRepo struct {
	routes map[uuid.UUID]*entity.Route
}

func (f *fakeRouteRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Route, error) {
	return f.routes[id], nil
}

func (f *fakeRouteRepo) FindActive(_ context.Context, limit int) ([]*entity.Route, error) {
	var out []*entity.Route
	for _, r := range f.routes {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) FindByEndpoints(_ context.Context, origin, destination string) (*entity.Route, error) {
	for _, r := range f.routes {
		if r.Origin == origin && r.Destination == destination && r.IsActive {
			return r, nil
		}
	}
	return nil, nil
}

type fakeSaccoRepo struct {
	saccos map[uuid.UUID]*entity.Sacco
}

func (f *fakeSaccoRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Sacco, error) {
	return f.saccos[id], nil
}

func (f *fakeSaccoRepo) FindAllActive(_ context.Context) ([]*entity.Sacco, error) {
	var out []*entity.Sacco
	for _, s := range f.saccos {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*entity.Vehicle
}

func (f *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	return f.vehicles[id], nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	for _, u := range f.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.sessions[session.Token.String()] = session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	if s, ok := f.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(_ context.Context) error {
	for token, s := range f.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(f.sessions, token)
		}
	}
	return nil
}

// Gateway fakes

type fakeSTKGateway struct {
	pushes       []string // phone numbers pushed to
	pushErr      error
	checkoutID   string
	queryResults map[string]*mpesa.STKQueryResult
	queryErr     error
}

func (f *fakeSTKGateway) STKPush(_ context.Context, phone string, amount float64, reference, description string) (*mpesa.STKPushResult, error) {
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	f.pushes = append(f.pushes, phone)
	id := f.checkoutID
	if id == "" {
		id = "ws_CO_test"
	}
	return &mpesa.STKPushResult{CheckoutRequestID: id, Description: "Success"}, nil
}

func (f *fakeSTKGateway) QueryStatus(_ context.Context, checkoutRequestID string) (*mpesa.STKQueryResult, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if result, ok := f.queryResults[checkoutRequestID]; ok {
		return result, nil
	}
	return nil, fmt.Errorf("transaction is being processed")
}

type fakeSMSSender struct {
	messages []string
	sendErr  error
}

func (f *fakeSMSSender) Send(_ context.Context, phone, message string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.messages = append(f.messages, message)
	return `{"SMSMessageData":{"Message":"Sent to 1/1"}}`, nil
}

// testEnv wires the services against the fakes with a seeded trip.
type testEnv struct {
	repo     *repository.Repository
	trips    *fakeTripRepo
	seats    *fakeSeatRepo
	seatBkgs *fakeSeatBookingRepo
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	refunds  *fakeRefundRepo
	promos   *fakePromotionRepo
	notifs   *fakeNotificationRepo
	smsLogs  *fakeSMSLogRepo
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	stk      *fakeSTKGateway
	sms      *fakeSMSSender

	trip       *entity.Trip
	seatIDs    []uuid.UUID
	customerID uuid.UUID
}

func newTestEnv(departIn time.Duration) *testEnv {
	saccoID := uuid.New()
	routeID := uuid.New()
	vehicleID := uuid.New()

	at := time.Now().Add(departIn)
	trip := &entity.Trip{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		SaccoID:        saccoID,
		RouteID:        routeID,
		VehicleID:      vehicleID,
		DepartureDate:  time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.Local),
		DepartureTime:  time.Date(0, 1, 1, at.Hour(), at.Minute(), 0, 0, time.Local),
		Status:         entity.TripStatusScheduled,
		Fare:           1000,
		AvailableSeats: 14,
		TotalSeats:     14,
	}

	seats := map[uuid.UUID]*entity.Seat{}
	var seatIDs []uuid.UUID
	for i := 0; i < 6; i++ {
		seat := &entity.Seat{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			VehicleID:  vehicleID,
			SeatNumber: fmt.Sprintf("%dA", i+1),
			SeatRow:    i + 1,
			SeatColumn: "A",
		}
		seats[seat.ID] = seat
		seatIDs = append(seatIDs, seat.ID)
	}

	tripMap := map[uuid.UUID]*entity.Trip{trip.ID: trip}

	env := &testEnv{
		trips:    &fakeTripRepo{trips: tripMap},
		seats:    &fakeSeatRepo{seats: seats},
		seatBkgs: &fakeSeatBookingRepo{seats: seats},
		bookings: &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}, trips: tripMap},
		payments: &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}},
		refunds:  &fakeRefundRepo{},
		promos:   &fakePromotionRepo{promotions: map[string]*entity.Promotion{}},
		notifs:   &fakeNotificationRepo{},
		smsLogs:  &fakeSMSLogRepo{},
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		sessions: &fakeSessionRepo{sessions: map[string]*entity.Session{}},
		stk:      &fakeSTKGateway{},
		sms:      &fakeSMSSender{},

		trip:       trip,
		seatIDs:    seatIDs,
		customerID: uuid.New(),
	}

	env.repo = &repository.Repository{
		User:         env.users,
		Session:      env.sessions,
		Trip:         env.trips,
		Seat:         env.seats,
		SeatBooking:  env.seatBkgs,
		Booking:      env.bookings,
		Payment:      env.payments,
		Refund:       env.refunds,
		Promotion:    env.promos,
		Notification: env.notifs,
		SMSLog:       env.smsLogs,
		Route: &fakeRouteRepo{routes: map[uuid.UUID]*entity.Route{routeID: {
			Base:        entity.Base{ID: routeID},
			Name:        "Nairobi - Mombasa",
			Origin:      "Nairobi",
			Destination: "Mombasa",
			BaseFare:    1000,
			IsActive:    true,
		}}},
		Sacco: &fakeSaccoRepo{saccos: map[uuid.UUID]*entity.Sacco{saccoID: {
			Base:     entity.Base{ID: saccoID},
			Name:     "Super Metro",
			IsActive: true,
		}}},
		Vehicle: &fakeVehicleRepo{vehicles: map[uuid.UUID]*entity.Vehicle{vehicleID: {
			Base:        entity.Base{ID: vehicleID},
			SaccoID:     saccoID,
			VehicleType: entity.Vehicle14Seater,
			Capacity:    14,
			Status:      entity.VehicleStatusActive,
		}}},
	}

	return env
}

func (e *testEnv) bookingService() BookingService {
	log := zap.NewNop()
	return NewBookingService(e.repo, newNotifier(e.repo, e.sms, log), log)
}

func (e *testEnv) paymentService() PaymentService {
	log := zap.NewNop()
	return NewPaymentService(e.repo, e.stk, newNotifier(e.repo, e.sms, log), log)
}

func (e *testEnv) authService(cfg *utils.Config) AuthService {
	if cfg == nil {
		cfg = &utils.Config{}
	}
	return NewAuthService(e.repo, cfg, zap.NewNop())
}
