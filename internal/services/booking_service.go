package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/config"
	"github.com/rent-marketplace/backend/internal/events"
	"github.com/rent-marketplace/backend/internal/metrics"
	"github.com/rent-marketplace/backend/internal/models"
	"github.com/rent-marketplace/backend/internal/rbac"
	"github.com/rent-marketplace/backend/internal/repositories"
)

// BookingService owns the per-property booking/escrow state machine. Every
// mutation re-derives the caller's role against the current owner and renter,
// validates the transition against the table in models, and commits through a
// guarded repository update. A failed operation changes nothing.
type BookingService struct {
	pool         *pgxpool.Pool
	propertyRepo *repositories.PropertyRepo
	bookingRepo  *repositories.BookingRepo
	escrowRepo   *repositories.EscrowRepo
	auditRepo    *repositories.AuditRepo
	withdrawRepo *repositories.WithdrawRepo
	walletRepo   *repositories.WalletRepo
	publisher    events.Publisher
	cfg          *config.Config
	log          *zap.Logger

	// now is injected so the cancellation boundary can be pinned in tests.
	now func() time.Time
}

func NewBookingService(
	pool *pgxpool.Pool,
	propertyRepo *repositories.PropertyRepo,
	bookingRepo *repositories.BookingRepo,
	escrowRepo *repositories.EscrowRepo,
	auditRepo *repositories.AuditRepo,
	withdrawRepo *repositories.WithdrawRepo,
	walletRepo *repositories.WalletRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:         pool,
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		escrowRepo:   escrowRepo,
		auditRepo:    auditRepo,
		withdrawRepo: withdrawRepo,
		walletRepo:   walletRepo,
		publisher:    publisher,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// emit records a committed transition: audit row, pub/sub event, counter.
func (s *BookingService) emit(ctx context.Context, actor *string, actorType, eventType string, propertyID int64, meta map[string]any) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:      actor,
		ActorType:  actorType,
		Action:     eventType,
		PropertyID: &propertyID,
		Meta:       meta,
	})

	payload := map[string]any{"property_id": propertyID}
	for k, v := range meta {
		payload[k] = v
	}
	_ = s.publisher.Publish(ctx, events.ChannelBooking, events.Event{
		Type:    eventType,
		Payload: payload,
	})

	metrics.BookingTransitions.WithLabelValues(eventType).Inc()
}

func (s *BookingService) refuse(op, reason string, err error) error {
	metrics.RejectedOperations.WithLabelValues(op, reason).Inc()
	return err
}

// load fetches the booking row joined with its property, mapping a missing
// id to NotFound.
func (s *BookingService) load(ctx context.Context, propertyID int64) (*models.BookingWithProperty, error) {
	b, err := s.bookingRepo.GetWithProperty(ctx, propertyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", propertyID, models.ErrNotFound)
	}
	return b, err
}

func (s *BookingService) authorize(op string, b *models.BookingWithProperty, caller, permission string) error {
	if caller == "" {
		return s.refuse(op, "unauthorized", models.ErrUnauthorized)
	}
	role := rbac.RoleFor(caller, b.Owner, b.Renter)
	if !rbac.HasPermission(role, permission) {
		return s.refuse(op, "unauthorized", fmt.Errorf("%s as %s: %w", op, role, models.ErrUnauthorized))
	}
	return nil
}

// SafeMint tokenizes a new rental unit for owner. The booking record starts
// in none with the unit open for booking; toggleStatus closes the market.
func (s *BookingService) SafeMint(ctx context.Context, owner, metadataURI string) (*models.Property, error) {
	if owner == "" {
		return nil, models.ErrUnauthorized
	}

	p := &models.Property{
		Owner:          owner,
		MetadataURI:    metadataURI,
		BookingAllowed: true,
	}
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.emit(ctx, &owner, "user", events.EventPropertyMinted, p.ID, map[string]any{
		"owner":        owner,
		"metadata_uri": metadataURI,
	})
	return p, nil
}

// CreateBooking moves none -> booked for a non-owner caller.
func (s *BookingService) CreateBooking(ctx context.Context, caller string, propertyID, startDate, endDate int64) error {
	const op = "create_booking"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, caller, rbac.PermCreateBooking); err != nil {
		return err
	}
	if startDate <= 0 || endDate <= startDate {
		return s.refuse(op, "range", fmt.Errorf("start %d end %d: %w", startDate, endDate, models.ErrInvalidRange))
	}
	if !b.BookingAllowed || b.Reserved {
		return s.refuse(op, "state", fmt.Errorf("property %d is not open for booking: %w", propertyID, models.ErrInvalidState))
	}
	if !models.IsValidTransition(b.State, models.BookingStateBooked) {
		return s.refuse(op, "state", fmt.Errorf("%s -> booked: %w", b.State, models.ErrInvalidState))
	}

	ok, err := s.bookingRepo.MarkBooked(ctx, propertyID, caller, startDate, endDate)
	if err != nil {
		return err
	}
	if !ok {
		return s.refuse(op, "state", models.ErrInvalidState)
	}

	s.emit(ctx, &caller, "user", events.EventBookingCreated, propertyID, map[string]any{
		"state":      models.BookingStateBooked,
		"renter":     caller,
		"start_date": startDate,
		"end_date":   endDate,
	})
	return nil
}

// ConfirmBooking moves booked -> confirmed at the owner's price and opens the
// escrow row awaiting the deposit.
func (s *BookingService) ConfirmBooking(ctx context.Context, caller string, propertyID, priceNano int64) (*models.EscrowEntry, error) {
	const op = "confirm_booking"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(op, b, caller, rbac.PermConfirmBooking); err != nil {
		return nil, err
	}
	if priceNano <= 0 {
		return nil, s.refuse(op, "price", fmt.Errorf("price %d: %w", priceNano, models.ErrInvalidPrice))
	}
	if !models.IsValidTransition(b.State, models.BookingStateConfirmed) {
		return nil, s.refuse(op, "state", fmt.Errorf("%s -> confirmed: %w", b.State, models.ErrInvalidState))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.bookingRepo.MarkConfirmed(ctx, tx, propertyID, priceNano)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.refuse(op, "state", models.ErrInvalidState)
	}

	escrow := &models.EscrowEntry{
		PropertyID:     propertyID,
		ExpectedNano:   priceNano,
		DepositAddress: s.cfg.TONHotWalletAddress,
		DepositMemo:    fmt.Sprintf("booking:%d", propertyID),
		Status:         models.EscrowStatusAwaiting,
	}
	if err := s.escrowRepo.CreateAwaiting(ctx, tx, escrow); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.emit(ctx, &caller, "user", events.EventBookingConfirmed, propertyID, map[string]any{
		"state":      models.BookingStateConfirmed,
		"price_nano": priceNano,
	})
	return escrow, nil
}

// PayBooking moves confirmed -> paid and funds the escrow, in one
// transaction. The amount must equal the confirmed price exactly; the payer
// must be the booking's renter.
func (s *BookingService) PayBooking(ctx context.Context, payer string, propertyID, amountNano int64, txRef string) error {
	const op = "pay_booking"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, payer, rbac.PermPayBooking); err != nil {
		return err
	}
	if err := b.AcceptPayment(amountNano); err != nil {
		if errors.Is(err, models.ErrInvalidPayment) {
			return s.refuse(op, "payment", err)
		}
		return s.refuse(op, "state", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ok, err := s.bookingRepo.MarkPaid(ctx, tx, propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return s.refuse(op, "state", models.ErrInvalidState)
	}
	ok, err = s.escrowRepo.MarkFunded(ctx, tx, propertyID, txRef, payer)
	if err != nil {
		return err
	}
	if !ok {
		return s.refuse(op, "state", fmt.Errorf("escrow is not awaiting: %w", models.ErrInvalidState))
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.emit(ctx, &payer, "user", events.EventBookingPaid, propertyID, map[string]any{
		"state":       models.BookingStatePaid,
		"amount_nano": amountNano,
		"tx_ref":      txRef,
	})
	return nil
}

// RejectBooking tears a pending booking down (booked/confirmed -> none) or
// frees a reservation (reserved -> none). Paid bookings cannot be rejected.
func (s *BookingService) RejectBooking(ctx context.Context, caller string, propertyID int64) error {
	const op = "reject_booking"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, caller, rbac.PermRejectBooking); err != nil {
		return err
	}
	if !models.IsValidTransition(b.State, models.BookingStateNone) {
		return s.refuse(op, "state", fmt.Errorf("%s -> none: %w", b.State, models.ErrInvalidState))
	}

	if err := s.teardown(ctx, b); err != nil {
		return err
	}

	s.emit(ctx, &caller, "user", events.EventBookingRejected, propertyID, map[string]any{
		"state":     models.BookingStateNone,
		"old_state": b.State,
		"renter":    b.Renter,
	})
	return nil
}

// CancelBooking lets the renter withdraw while the cancellation window is
// still open. The window closes at exactly startDate minus the configured
// lead time.
func (s *BookingService) CancelBooking(ctx context.Context, caller string, propertyID int64) error {
	const op = "cancel_booking"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, caller, rbac.PermCancelBooking); err != nil {
		return err
	}
	if !models.IsValidTransition(b.State, models.BookingStateNone) || b.State == models.BookingStateReserved {
		return s.refuse(op, "state", fmt.Errorf("%s -> none: %w", b.State, models.ErrInvalidState))
	}
	if !models.CancellationOpen(s.now(), b.StartDate, s.cfg.CancellationWindow) {
		return s.refuse(op, "window", fmt.Errorf("cancellation window closed: %w", models.ErrWindowClosed))
	}

	if err := s.teardown(ctx, b); err != nil {
		return err
	}

	s.emit(ctx, &caller, "user", events.EventBookingCancelled, propertyID, map[string]any{
		"state":     models.BookingStateNone,
		"old_state": b.State,
		"renter":    caller,
	})
	return nil
}

// teardown clears the booking row back to none and closes any awaiting
// escrow in one transaction. Callers have already validated the transition.
func (s *BookingService) teardown(ctx context.Context, b *models.BookingWithProperty) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ok, err := s.bookingRepo.Clear(ctx, tx, b.PropertyID, []string{b.State})
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrInvalidState
	}
	// No funds were held in booked/confirmed; refunded is bookkeeping only.
	if _, err := s.escrowRepo.MarkRefunded(ctx, tx, b.PropertyID); err != nil {
		return err
	}
	if b.State == models.BookingStateReserved {
		if err := s.propertyRepo.SetReserved(ctx, tx, b.PropertyID, false); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ReserveProperty pulls the unit out of the public market. An owner
// reservation always wins over an unpaid booking: the displaced renter is
// cleared and a rejection event is emitted before the reservation event. A
// paid booking blocks the reservation; so does an existing one.
func (s *BookingService) ReserveProperty(ctx context.Context, caller string, propertyID, startDate, endDate int64) error {
	const op = "reserve_property"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, caller, rbac.PermReserveProperty); err != nil {
		return err
	}
	if startDate <= 0 || endDate <= startDate {
		return s.refuse(op, "range", fmt.Errorf("start %d end %d: %w", startDate, endDate, models.ErrInvalidRange))
	}
	oldState := b.State
	displacedRenter, err := b.Displace(startDate, endDate)
	if err != nil {
		return s.refuse(op, "state", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.bookingRepo.MarkReserved(ctx, tx, propertyID, startDate, endDate)
	if err != nil {
		return err
	}
	if !ok {
		return s.refuse(op, "state", models.ErrInvalidState)
	}
	if _, err := s.escrowRepo.MarkRefunded(ctx, tx, propertyID); err != nil {
		return err
	}
	if err := s.propertyRepo.SetReserved(ctx, tx, propertyID, true); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if displacedRenter != "" {
		s.emit(ctx, &caller, "user", events.EventBookingRejected, propertyID, map[string]any{
			"state":     models.BookingStateReserved,
			"old_state": oldState,
			"renter":    displacedRenter,
			"reason":    "displaced_by_reservation",
		})
	}
	s.emit(ctx, &caller, "user", events.EventPropertyReserved, propertyID, map[string]any{
		"state":      models.BookingStateReserved,
		"start_date": startDate,
		"end_date":   endDate,
	})
	return nil
}

// ToggleStatus flips the market visibility flag. It never touches an
// in-flight booking.
func (s *BookingService) ToggleStatus(ctx context.Context, caller string, propertyID int64) (bool, error) {
	const op = "toggle_status"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return false, err
	}
	if err := s.authorize(op, b, caller, rbac.PermToggleStatus); err != nil {
		return false, err
	}

	allowed := !b.BookingAllowed
	if err := s.propertyRepo.SetBookingAllowed(ctx, propertyID, allowed); err != nil {
		return false, err
	}

	s.emit(ctx, &caller, "user", events.EventBookingStatusToggled, propertyID, map[string]any{
		"booking_allowed": allowed,
	})
	return allowed, nil
}

// SetWithdrawWallet registers the owner's settlement target. The address must
// match the caller's verified connected wallet.
func (s *BookingService) SetWithdrawWallet(ctx context.Context, callerID uuid.UUID, caller string, propertyID int64, walletAddress string) error {
	const op = "set_withdraw_wallet"

	b, err := s.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.authorize(op, b, caller, rbac.PermSetWithdrawWallet); err != nil {
		return err
	}

	userWallet, err := s.walletRepo.GetActiveWallet(ctx, callerID)
	if err != nil {
		return fmt.Errorf("no verified wallet connected: %w", models.ErrUnauthorized)
	}
	if !userWallet.Verified {
		return fmt.Errorf("connected wallet is not verified: %w", models.ErrUnauthorized)
	}
	if walletAddress != userWallet.Address && walletAddress != userWallet.AddressFriendly {
		return s.refuse(op, "unauthorized",
			fmt.Errorf("withdraw address must match the connected wallet %s: %w", userWallet.AddressFriendly, models.ErrUnauthorized))
	}

	return s.withdrawRepo.Upsert(ctx, &models.WithdrawWallet{
		PropertyID:    propertyID,
		OwnerAddress:  caller,
		WalletAddress: userWallet.AddressFriendly,
	})
}

// --- queries ---

func (s *BookingService) GetProperty(ctx context.Context, propertyID int64) (*models.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", propertyID, models.ErrNotFound)
	}
	return p, err
}

func (s *BookingService) ListProperties(ctx context.Context, f repositories.PropertyFilter) ([]models.Property, error) {
	return s.propertyRepo.List(ctx, f)
}

func (s *BookingService) GetBooking(ctx context.Context, propertyID int64) (*models.BookingWithProperty, error) {
	return s.load(ctx, propertyID)
}

func (s *BookingService) GetPaymentInfo(ctx context.Context, propertyID int64) (*models.EscrowEntry, error) {
	e, err := s.escrowRepo.GetByPropertyID(ctx, propertyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no escrow for property %d: %w", propertyID, models.ErrNotFound)
	}
	return e, err
}

func (s *BookingService) GetPropertyEvents(ctx context.Context, propertyID int64) ([]models.AuditLog, error) {
	return s.auditRepo.GetByProperty(ctx, propertyID, 100, 0)
}

// --- worker entry points ---

// ExpireStaleBookings rejects unpaid bookings whose start date has passed.
// The worker acts on the owner's behalf as a system actor.
func (s *BookingService) ExpireStaleBookings(ctx context.Context, limit int) (int, error) {
	stale, err := s.bookingRepo.ListExpired(ctx, s.now().Unix(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		bw, err := s.load(ctx, b.PropertyID)
		if err != nil {
			s.log.Warn("expire: load failed", zap.Int64("property_id", b.PropertyID), zap.Error(err))
			continue
		}
		if bw.State != models.BookingStateBooked && bw.State != models.BookingStateConfirmed {
			continue
		}
		if err := s.teardown(ctx, bw); err != nil {
			s.log.Warn("expire: teardown failed", zap.Int64("property_id", b.PropertyID), zap.Error(err))
			continue
		}
		s.emit(ctx, nil, "system", events.EventBookingRejected, b.PropertyID, map[string]any{
			"state":     models.BookingStateNone,
			"old_state": bw.State,
			"renter":    bw.Renter,
			"reason":    "expired",
		})
		expired++
	}
	return expired, nil
}

// SettleCompleted releases funded escrow for paid bookings whose stay has
// ended, then returns the unit to the market. Settlement needs a registered
// withdraw wallet; properties without one are skipped and retried next sweep.
func (s *BookingService) SettleCompleted(ctx context.Context, limit int) (int, error) {
	due, err := s.bookingRepo.ListSettleable(ctx, s.now().Unix(), limit)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, b := range due {
		wallet, err := s.withdrawRepo.GetByProperty(ctx, b.PropertyID)
		if err != nil {
			s.log.Warn("settle: no withdraw wallet registered",
				zap.Int64("property_id", b.PropertyID), zap.Error(err))
			continue
		}

		if err := s.settleOne(ctx, b.PropertyID); err != nil {
			s.log.Warn("settle failed", zap.Int64("property_id", b.PropertyID), zap.Error(err))
			continue
		}

		s.emit(ctx, nil, "system", events.EventEscrowReleased, b.PropertyID, map[string]any{
			"state":           models.BookingStateNone,
			"amount_nano":     b.PriceNano,
			"withdraw_wallet": wallet.WalletAddress,
		})
		metrics.EscrowSettlements.Inc()
		settled++
	}
	return settled, nil
}

func (s *BookingService) settleOne(ctx context.Context, propertyID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ok, err := s.escrowRepo.MarkReleased(ctx, tx, propertyID, "pending_send")
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrInvalidState
	}
	ok, err = s.bookingRepo.ResetSettled(ctx, tx, propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrInvalidState
	}
	return tx.Commit(ctx)
}
