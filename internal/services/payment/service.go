// Package payment runs the deposit flow: capture at the provider, record the
// ledger entry, credit the balance and log the payment events.
package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/gateways"
	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/services/wallet"
)

const (
	defaultLockTTL  = 30 * time.Second
	defaultPageSize = 20
	maxPageSize     = 100
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type service struct {
	store    repositories.Store
	gateways map[string]gateways.Gateway
	locker   Locker
	wallets  WalletCache
	limits   Limits
	log      *slog.Logger
}

// NewService creates the payment service. Providers without a gateway
// answer ErrUnsupportedProvider.
func NewService(
	store repositories.Store,
	gws []gateways.Gateway,
	locker Locker,
	wallets WalletCache,
	limits Limits,
	log *slog.Logger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if locker == nil {
		panic("locker is required")
	}
	if wallets == nil {
		panic("wallet cache is required")
	}
	if limits.LockTTL == 0 {
		limits.LockTTL = defaultLockTTL
	}

	byProvider := make(map[string]gateways.Gateway, len(gws))
	for _, gw := range gws {
		byProvider[gw.Provider()] = gw
	}

	return &service{
		store:    store,
		gateways: byProvider,
		locker:   locker,
		wallets:  wallets,
		limits:   limits,
		log:      log,
	}
}

func (s *service) Capture(ctx context.Context, provider string, userID uint, reference string) (*Result, error) {
	const op = "payment.Capture"

	reference = strings.TrimSpace(reference)
	if !referencePattern.MatchString(reference) {
		return nil, domainerrors.ErrInvalidOrderID
	}
	gw, ok := s.gateways[provider]
	if !ok {
		return nil, domainerrors.ErrUnsupportedProvider
	}

	log := s.log.With(
		sl.Op(op),
		slog.String("provider", provider),
		slog.String("reference", reference),
		slog.Uint64("user_id", uint64(userID)),
	)

	unlock, err := s.lock(ctx, provider, reference, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	existing, err := s.store.Transactions().FindByReference(ctx, provider, reference)
	switch {
	case err == nil:
		if existing.UserID != userID {
			log.Warn("capture attempted for an order owned by another user", slog.Uint64("owner_id", uint64(existing.UserID)))
			return nil, domainerrors.ErrOrderOwnedByAnotherUser
		}
		return s.resume(ctx, existing, log)
	case !errors.Is(err, repositories.ErrTransactionNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	capture, err := gw.Capture(ctx, reference)
	if err != nil {
		log.Error("provider capture failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !capture.Completed() {
		log.Warn("capture not completed", slog.String("status", capture.Status))
		return nil, domainerrors.ErrCaptureNotCompleted.WithMessage("payment capture status is %s", capture.Status)
	}

	tx := &models.Transaction{
		UserID:     userID,
		Type:       models.TransactionTypeDeposit,
		Provider:   provider,
		Reference:  reference,
		CaptureID:  capture.CaptureID,
		Amount:     capture.Amount,
		Currency:   strings.ToUpper(capture.Currency),
		Status:     models.TransactionStatusCaptured,
		PayerEmail: capture.PayerEmail,
		Metadata:   models.JSON(capture.Raw),
	}
	if err := s.store.Transactions().Create(ctx, tx); err != nil {
		log.Error("captured payment could not be recorded",
			sl.Err(err),
			slog.String("capture_id", capture.CaptureID),
			slog.String("amount", capture.Amount.StringFixed(2)),
			slog.String("currency", capture.Currency),
		)
		// the id from BeforeCreate never reached the database
		tx.TransactionID = ""
		return nil, fmt.Errorf("%s: %w", op, reconciliationError(tx, err))
	}

	res, err := s.credit(ctx, tx, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// resume answers a capture request for a reference already in the ledger.
func (s *service) resume(ctx context.Context, tx *models.Transaction, log *slog.Logger) (*Result, error) {
	switch tx.Status {
	case models.TransactionStatusCompleted:
		res := resultFrom(tx, s.balance(ctx, tx.UserID, log))
		res.Replayed = true
		log.Info("capture replayed", slog.String("transaction_id", tx.TransactionID))
		return res, nil
	case models.TransactionStatusReconciliationRequired:
		return nil, reconciliationError(tx, errors.New(tx.ErrorNote))
	default:
		// captured but never credited, e.g. the process died mid-request
		log.Warn("resuming credit for captured deposit", slog.String("transaction_id", tx.TransactionID))
		return s.credit(ctx, tx, log)
	}
}

// credit applies the deposit and completes the ledger entry in one database
// transaction. On failure the entry is flagged for reconciliation.
func (s *service) credit(ctx context.Context, tx *models.Transaction, log *slog.Logger) (*Result, error) {
	log = log.With(slog.String("transaction_id", tx.TransactionID))

	var credited *models.Wallet
	err := s.store.ExecuteInTransaction(ctx, func(repos repositories.Store) error {
		if err := s.limits.check(tx.Amount); err != nil {
			return err
		}
		w, err := wallet.ApplyCredit(ctx, repos.Wallets(), tx.UserID, tx.Amount, tx.Currency)
		if err != nil {
			return err
		}
		credited = w
		return repos.Transactions().UpdateStatus(ctx, tx.TransactionID, models.TransactionStatusCompleted, "")
	})
	if err != nil {
		note := err.Error()
		if uerr := s.store.Transactions().UpdateStatus(ctx, tx.TransactionID, models.TransactionStatusReconciliationRequired, note); uerr != nil {
			log.Error("failed to flag transaction for reconciliation", sl.Err(uerr))
		}
		s.recordEvent(ctx, tx, models.EventBalanceUpdateFailed, models.JSON{"error": note}, log)
		log.Error("balance update failed after capture",
			sl.Err(err),
			slog.String("capture_id", tx.CaptureID),
			slog.String("amount", tx.Amount.StringFixed(2)),
			slog.String("currency", tx.Currency),
		)
		tx.Status = models.TransactionStatusReconciliationRequired
		tx.ErrorNote = note
		return nil, reconciliationError(tx, err)
	}

	tx.Status = models.TransactionStatusCompleted
	tx.ErrorNote = ""

	s.recordEvent(ctx, tx, models.EventCaptureCompleted, models.JSON{
		"capture_id": tx.CaptureID,
		"amount":     tx.Amount.StringFixed(2),
		"currency":   tx.Currency,
	}, log)
	s.recordEvent(ctx, tx, models.EventBalanceCredited, models.JSON{
		"amount":  tx.Amount.StringFixed(2),
		"balance": credited.Balance.StringFixed(2),
	}, log)

	s.wallets.Invalidate(ctx, tx.UserID)

	log.Info("deposit credited",
		slog.String("amount", tx.Amount.StringFixed(2)),
		slog.String("balance", credited.Balance.StringFixed(2)),
	)
	return resultFrom(tx, &credited.Balance), nil
}

func (s *service) RetryReconciliation(ctx context.Context, transactionID string) (*Result, error) {
	const op = "payment.RetryReconciliation"
	log := s.log.With(sl.Op(op), slog.String("transaction_id", transactionID))

	tx, err := s.store.Transactions().GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("provider", tx.Provider), slog.String("reference", tx.Reference))

	unlock, err := s.lock(ctx, tx.Provider, tx.Reference, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	// re-read under the lock
	tx, err = s.store.Transactions().GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if tx.Status == models.TransactionStatusCompleted {
		return nil, domainerrors.ErrNotReconcilable
	}

	s.recordEvent(ctx, tx, models.EventReconciliationRetried, models.JSON{
		"previous_status": tx.Status,
		"previous_error":  tx.ErrorNote,
	}, log)

	res, err := s.credit(ctx, tx, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s *service) ListReconciliations(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	const op = "payment.ListReconciliations"

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	txs, total, err := s.store.Transactions().ListByStatus(ctx, models.TransactionStatusReconciliationRequired, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return txs, total, nil
}

// lock takes the capture lock for provider/reference and returns its release.
func (s *service) lock(ctx context.Context, provider, reference string, log *slog.Logger) (func(), error) {
	key := lockKey(provider, reference)

	token, ok, err := s.locker.Lock(ctx, key, s.limits.LockTTL)
	if err != nil {
		// nothing is captured yet
		log.Error("capture lock unavailable", sl.Err(err))
		return nil, domainerrors.ErrCaptureUnavailable
	}
	if !ok {
		log.Warn("capture already in progress")
		return nil, domainerrors.ErrCaptureInProgress
	}

	return func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			log.Warn("failed to release capture lock", sl.Err(err))
		}
	}, nil
}

func (s *service) balance(ctx context.Context, userID uint, log *slog.Logger) *decimal.Decimal {
	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		log.Warn("balance lookup failed", sl.Err(err))
		return nil
	}
	return &w.Balance
}

// recordEvent appends to the payment event log. Failures are logged only.
func (s *service) recordEvent(ctx context.Context, tx *models.Transaction, eventType string, payload models.JSON, log *slog.Logger) {
	event := &models.PaymentEvent{
		TransactionID: tx.TransactionID,
		UserID:        tx.UserID,
		Type:          eventType,
		Payload:       payload,
	}
	if err := s.store.Events().Create(ctx, event); err != nil {
		log.Warn("failed to record payment event", sl.Err(err), slog.String("event", eventType))
	}
}

func lockKey(provider, reference string) string {
	return fmt.Sprintf("lock:capture:%s:%s", provider, reference)
}
