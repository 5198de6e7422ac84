package commands

import (
	"context"
	"log/slog"
	"time"

	"food-rescue-api/internal/domain/offer"
	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/pkg/clock"
	"food-rescue-api/internal/pkg/errs"
	"food-rescue-api/internal/pkg/metrics"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest          = errs.New("invalid request")
	ErrOfferNotFound           = errs.New("offer not found")
	ErrSoldOut                 = errs.New("offer sold out")
	ErrAlreadyReserved         = errs.New("user already holds a reservation for this offer")
	ErrInvalidOrUsedCode       = errs.New("invalid or used pickup code")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrForbidden               = errs.New("reservation belongs to another user")
	ErrInvalidState            = errs.New("reservation is not in a state that allows this operation")
	ErrCodeGenerationFailed    = errs.New("pickup code generation failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReserveRequest struct {
	OfferID string
	UserID  string
}

type ReservationResult struct {
	ID          uuid.UUID
	OfferID     uuid.UUID
	UserID      string
	PickupCode  string
	Status      reservation.Status
	PickedUpAt  *time.Time
	ShopName    string
	PickupStart *time.Time
	PickupEnd   *time.Time
}

type ReservationCommands interface {
	Reserve(ctx context.Context, req ReserveRequest) (*ReservationResult, error)
	PickupByCode(ctx context.Context, code string) error
	MarkPaid(ctx context.Context, reservationID string, callerID string) (*ReservationResult, error)
	Cancel(ctx context.Context, reservationID string, callerID string) (*ReservationResult, error)
}

// Options are the inventory policies that differ between deployments.
type Options struct {
	RestockOnCancel  bool
	OneActivePerUser bool
}

type reservationUseCaseImpl struct {
	uow     shared.UnitOfWork
	factory *reservation.Factory
	codes   reservation.CodeGenerator
	clock   clock.Clock
	metrics *metrics.ReservationMetrics
	opts    Options
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	clk clock.Clock,
	m *metrics.ReservationMetrics,
	opts Options,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:     uow,
		factory: factory,
		codes:   factory.Codes,
		clock:   clk,
		metrics: m,
		opts:    opts,
	}
}

func (uc *reservationUseCaseImpl) Reserve(ctx context.Context, req ReserveRequest) (result *ReservationResult, err error) {
	defer uc.observe(metrics.OpReserve, time.Now(), &err)

	offerID, perr := uuid.Parse(req.OfferID)
	if perr != nil {
		return nil, errs.Mark(perr, ErrInvalidRequest)
	}
	userID, perr := reservation.NewUserID(req.UserID)
	if perr != nil {
		return nil, errs.Mark(perr, ErrInvalidRequest)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().OfferByID(ctx, offerID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if derr := uc.ensureNoActive(ctx, tx, offerID, userID); derr != nil {
			return derr
		}

		taken, derr := tx.Offers().DecrementAvailable(ctx, offerID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if !taken {
			return ErrSoldOut
		}

		// The decrement row-locks the offer; re-reading now sees any reservation a
		// concurrent caller committed while this one waited on that lock.
		if derr := uc.ensureNoActive(ctx, tx, offerID, userID); derr != nil {
			return derr
		}

		res, derr := uc.factory.CreateReservation(offerID, userID)
		if derr != nil {
			return errs.Mark(derr, ErrCodeGenerationFailed)
		}
		if derr = tx.Reservations().Create(ctx, res); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		o := snapshotToOffer(snap)
		result = &ReservationResult{
			ID:          res.ID(),
			OfferID:     res.OfferID(),
			UserID:      res.UserID().String(),
			PickupCode:  res.PickupCode().String(),
			Status:      res.Status(),
			ShopName:    o.Shop().Name,
			PickupStart: o.PickupStart(),
			PickupEnd:   o.PickupEnd(),
		}
		return nil
	})
	if err != nil {
		uc.logFailure(ctx, "reserve", err, slog.String("offer_id", offerID.String()), slog.String("user_id", userID.String()))
		return nil, err
	}

	slog.InfoContext(ctx, "reservation created",
		slog.String("reservation_id", result.ID.String()),
		slog.String("offer_id", offerID.String()))
	return result, nil
}

func (uc *reservationUseCaseImpl) ensureNoActive(ctx context.Context, tx shared.Tx, offerID uuid.UUID, userID reservation.UserID) error {
	if !uc.opts.OneActivePerUser {
		return nil
	}
	held, err := tx.Reads().HasActiveReservation(ctx, offerID, userID.String())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if held {
		return ErrAlreadyReserved
	}
	return nil
}

func (uc *reservationUseCaseImpl) PickupByCode(ctx context.Context, rawCode string) (err error) {
	defer uc.observe(metrics.OpPickup, time.Now(), &err)

	code, perr := uc.codes.Normalize(rawCode)
	if perr != nil {
		return errs.Mark(perr, ErrInvalidOrUsedCode)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		candidates, derr := tx.Reads().ReservedByCode(ctx, code.String())
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if len(candidates) == 0 {
			return ErrInvalidOrUsedCode
		}
		if len(candidates) > 1 {
			slog.WarnContext(ctx, "pickup code shared by several reserved reservations",
				slog.Int("count", len(candidates)),
				slog.String("chosen_id", candidates[0].ID.String()))
		}

		_, ok, derr := tx.Reservations().Transition(ctx, candidates[0].ID,
			reservation.StatusReserved, reservation.StatusPickedUp, uc.clock.Now())
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if !ok {
			return ErrInvalidOrUsedCode
		}
		return nil
	})
	if err != nil {
		uc.logFailure(ctx, "pickup", err)
	}
	return err
}

func (uc *reservationUseCaseImpl) MarkPaid(ctx context.Context, reservationID string, callerID string) (result *ReservationResult, err error) {
	defer uc.observe(metrics.OpPay, time.Now(), &err)
	return uc.transitionOwned(ctx, reservationID, callerID, reservation.StatusPaid)
}

func (uc *reservationUseCaseImpl) Cancel(ctx context.Context, reservationID string, callerID string) (result *ReservationResult, err error) {
	defer uc.observe(metrics.OpCancel, time.Now(), &err)
	return uc.transitionOwned(ctx, reservationID, callerID, reservation.StatusCanceled)
}

// transitionOwned checks existence, then ownership, then state, and finally applies
// the conditional update. Ownership comes first so a stranger never learns the status.
func (uc *reservationUseCaseImpl) transitionOwned(
	ctx context.Context,
	rawID, rawCaller string,
	to reservation.Status,
) (*ReservationResult, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}
	caller, err := reservation.NewUserID(rawCaller)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	var result *ReservationResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().ReservationByID(ctx, id)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		current, derr := snapshotToDomain(snap)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if derr = current.EnsureOwnedBy(caller); derr != nil {
			return errs.Mark(derr, ErrForbidden)
		}
		if derr = current.EnsureCanTransitionTo(to); derr != nil {
			return errs.Mark(derr, ErrInvalidState)
		}

		updated, ok, derr := tx.Reservations().Transition(ctx, id, reservation.StatusReserved, to, uc.clock.Now())
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if !ok {
			return ErrInvalidState
		}

		if to == reservation.StatusCanceled && uc.opts.RestockOnCancel {
			if derr = tx.Offers().IncrementAvailable(ctx, updated.OfferID); derr != nil {
				return errs.Mark(derr, ErrDatabaseOperationFailed)
			}
		}

		result = snapshotToResult(updated)
		return nil
	})
	if err != nil {
		uc.logFailure(ctx, to.String(), err, slog.String("reservation_id", id.String()))
		return nil, err
	}
	return result, nil
}

func (uc *reservationUseCaseImpl) observe(op string, started time.Time, err *error) {
	uc.metrics.Observe(op, Outcome(*err), time.Since(started))
}

// Business rejections are expected traffic; only store failures are logged as errors.
func (uc *reservationUseCaseImpl) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	if !errs.Is(err, ErrDatabaseOperationFailed) && !errs.Is(err, ErrCodeGenerationFailed) {
		return
	}
	args := append([]any{slog.String("operation", op), slog.String("error", err.Error())}, attrs...)
	slog.ErrorContext(ctx, "reservation operation failed", args...)
}

// Outcome names the result of an engine call for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.Is(err, ErrInvalidRequest):
		return "bad_request"
	case errs.Is(err, ErrOfferNotFound):
		return "offer_not_found"
	case errs.Is(err, ErrSoldOut):
		return "sold_out"
	case errs.Is(err, ErrAlreadyReserved):
		return "already_reserved"
	case errs.Is(err, ErrInvalidOrUsedCode):
		return "invalid_or_used"
	case errs.Is(err, ErrReservationNotFound):
		return "not_found"
	case errs.Is(err, ErrForbidden):
		return "forbidden"
	case errs.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

func snapshotToDomain(s *shared.ReservationSnapshot) (*reservation.Reservation, error) {
	userID, err := reservation.NewUserID(s.UserID)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		s.ID, s.OfferID, userID,
		reservation.ReconstructPickupCode(s.PickupCode),
		s.Status, s.PickedUpAt, s.CreatedAt, s.UpdatedAt,
	), nil
}

// The offer is read before the decrement, so its quantity is display-only.
func snapshotToOffer(s *shared.OfferSnapshot) *offer.Offer {
	return offer.Reconstruct(s.ID, s.ShopID, s.QtyAvailable, s.PickupStart, s.PickupEnd,
		offer.Shop{Name: s.ShopName, Address: s.ShopAddress})
}

func snapshotToResult(s *shared.ReservationSnapshot) *ReservationResult {
	return &ReservationResult{
		ID:         s.ID,
		OfferID:    s.OfferID,
		UserID:     s.UserID,
		PickupCode: s.PickupCode,
		Status:     s.Status,
		PickedUpAt: s.PickedUpAt,
	}
}
