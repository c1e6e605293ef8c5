package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/onecard-rewards/pkg/models"
	"github.com/chris/onecard-rewards/pkg/storage"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Allocator distributes the rewards of one completed transaction across its beneficiaries.
type Allocator struct {
	store  storage.RewardStore
	atomic storage.AtomicWriter
	opts   Options
}

// NewAllocator creates an Allocator. When store also implements
// storage.AtomicWriter every allocation is committed as a single batch.
func NewAllocator(store storage.RewardStore, opts Options) *Allocator {
	a := &Allocator{store: store, opts: opts.withDefaults()}
	if w, ok := store.(storage.AtomicWriter); ok {
		a.atomic = w
	}
	return a
}

// Atomic reports whether allocations are committed all-or-nothing.
func (a *Allocator) Atomic() bool {
	return a.atomic != nil
}

// Allocate credits every resolvable beneficiary of req and escrows the
// recipient reward when the recipient has no account yet.
//
// Missing accounts are skipped and never fail the call. On a store failure in
// non-atomic mode the returned result holds the outcomes that were committed
// before the failure, with Partial set, alongside the error.
func (a *Allocator) Allocate(ctx context.Context, req *models.AllocationRequest) (*models.AllocationResult, error) {
	req, err := ValidateRequest(req)
	if err != nil {
		a.opts.Metrics.Allocation("invalid")
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "rewards.Allocate", trace.WithAttributes(
		attribute.String("transaction.id", req.TransactionID),
		attribute.String("beneficiary.class", string(req.BeneficiaryClass)),
		attribute.Bool("store.atomic", a.Atomic()),
	))
	defer span.End()

	logger := a.opts.Logger.With("transaction_id", req.TransactionID, "beneficiary_class", string(req.BeneficiaryClass))

	var result *models.AllocationResult
	if a.atomic != nil {
		result, err = a.allocateAtomic(ctx, logger, req)
	} else {
		result, err = a.allocateSequential(ctx, logger, req)
	}

	switch {
	case err == nil:
		a.opts.Metrics.Allocation("success")
		a.record(result.Outcomes)
		span.SetAttributes(attribute.Int("outcomes", len(result.Outcomes)))
		logger.InfoContext(ctx, "allocation completed", "outcomes", len(result.Outcomes), "atomic", result.Atomic)
	case errors.Is(err, storage.ErrDuplicateTransaction):
		a.opts.Metrics.Allocation("duplicate")
		logger.WarnContext(ctx, "duplicate transaction rejected")
	default:
		if result != nil && result.Partial {
			a.opts.Metrics.Allocation("partial")
			a.record(result.Outcomes)
		} else {
			a.opts.Metrics.Allocation("error")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "allocation failed", "error", err)
	}
	return result, err
}

func (a *Allocator) allocateAtomic(ctx context.Context, logger *slog.Logger, req *models.AllocationRequest) (*models.AllocationResult, error) {
	for attempt := 0; ; attempt++ {
		p, err := a.plan(ctx, logger, req)
		if err != nil {
			return nil, err
		}

		batch := p.batch(a.opts.RejectDuplicates)
		if batch.Empty() && !batch.RecordTransaction {
			return &models.AllocationResult{TransactionID: req.TransactionID, Outcomes: p.outcomes, Atomic: true}, nil
		}

		err = a.atomic.CommitBatch(ctx, batch)
		if err == nil {
			return &models.AllocationResult{TransactionID: req.TransactionID, Outcomes: p.outcomes, Atomic: true}, nil
		}
		if errors.Is(err, storage.ErrVersionConflict) && attempt < a.opts.MaxConflictRetries {
			logger.DebugContext(ctx, "version conflict, replanning", "attempt", attempt+1)
			continue
		}
		if errors.Is(err, storage.ErrDuplicateTransaction) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit allocation: %w", err)
	}
}

// allocateSequential writes each account and the escrow entry one by one.
// Only a conflict on the first write is retried; after that a failure leaves
// the earlier writes in place and the result is marked Partial.
// A recorded transaction id is released again when the attempt fails before
// any write, so the caller can retry it.
func (a *Allocator) allocateSequential(ctx context.Context, logger *slog.Logger, req *models.AllocationRequest) (*models.AllocationResult, error) {
	if a.opts.RejectDuplicates {
		if err := a.store.RecordTransaction(ctx, req.TransactionID); err != nil {
			if errors.Is(err, storage.ErrDuplicateTransaction) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
	}

	result, err := a.writeSequential(ctx, logger, req)
	if err != nil && result == nil && a.opts.RejectDuplicates {
		if relErr := a.store.ReleaseTransaction(ctx, req.TransactionID); relErr != nil {
			logger.ErrorContext(ctx, "failed to release transaction after failed allocation", "error", relErr)
		}
	}
	return result, err
}

func (a *Allocator) writeSequential(ctx context.Context, logger *slog.Logger, req *models.AllocationRequest) (*models.AllocationResult, error) {
	for attempt := 0; ; attempt++ {
		p, err := a.plan(ctx, logger, req)
		if err != nil {
			return nil, err
		}

		var done []int
		err = a.apply(ctx, p, &done)
		if err == nil {
			return &models.AllocationResult{TransactionID: req.TransactionID, Outcomes: p.outcomes}, nil
		}
		if len(done) == 0 {
			if errors.Is(err, storage.ErrVersionConflict) && attempt < a.opts.MaxConflictRetries {
				logger.DebugContext(ctx, "version conflict, replanning", "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("failed to write allocation: %w", err)
		}
		return &models.AllocationResult{
			TransactionID: req.TransactionID,
			Outcomes:      p.committed(done),
			Partial:       true,
		}, fmt.Errorf("allocation partially applied: %w", err)
	}
}

func (a *Allocator) apply(ctx context.Context, p *plan, done *[]int) error {
	for _, step := range p.steps {
		account := *step.account
		if err := a.store.PutAccount(ctx, &account, step.expected); err != nil {
			return err
		}
		*done = append(*done, step.outcomes...)
	}
	if p.pending != nil {
		reward := *p.pending.reward
		if err := a.store.PutPending(ctx, &reward, p.pending.expected); err != nil {
			return err
		}
		*done = append(*done, p.pending.outcome)
	}
	return nil
}

// plan reads the current state of every beneficiary and computes the writes.
func (a *Allocator) plan(ctx context.Context, logger *slog.Logger, req *models.AllocationRequest) (*plan, error) {
	p := newPlan(req.TransactionID)
	now := a.opts.Now().UTC()

	switch req.BeneficiaryClass {
	case models.CUSTOMER:
		if err := a.creditCustomer(ctx, logger, p, req, now); err != nil {
			return nil, err
		}
	case models.VENDOR:
		if req.VendorProfit.IsPositive() {
			if err := a.creditAccount(ctx, logger, p, models.VENDOR, req.VendorID, req.VendorProfit, decimal.Zero, now); err != nil {
				return nil, err
			}
		}
		// A vendor-channel sale also rewards the purchasing customer.
		if err := a.creditCustomer(ctx, logger, p, req, now); err != nil {
			return nil, err
		}
	case models.ADMIN:
		if req.CustomerCashback.IsPositive() || req.AdminBonus.IsPositive() {
			if err := a.creditAccount(ctx, logger, p, models.ADMIN, req.AdminID, req.CustomerCashback, req.AdminBonus, now); err != nil {
				return nil, err
			}
		}
	}

	if req.RecipientReward.IsPositive() {
		if err := a.rewardRecipient(ctx, logger, p, req, now); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (a *Allocator) creditCustomer(ctx context.Context, logger *slog.Logger, p *plan, req *models.AllocationRequest, now time.Time) error {
	if !req.CustomerCashback.IsPositive() {
		return nil
	}
	return a.creditAccount(ctx, logger, p, models.CUSTOMER, req.CustomerID, req.CustomerCashback, decimal.Zero, now)
}

func (a *Allocator) creditAccount(ctx context.Context, logger *slog.Logger, p *plan, kind models.BeneficiaryType, id string, amount, adminBonus decimal.Decimal, now time.Time) error {
	if id == "" {
		logger.InfoContext(ctx, "skipping beneficiary", "beneficiary", string(kind), "reason", "no identifier")
		return nil
	}
	account, err := a.account(ctx, p, kind, id)
	if errors.Is(err, storage.ErrAccountNotFound) {
		logger.InfoContext(ctx, "skipping beneficiary", "beneficiary", string(kind), "id", id, "reason", "account not found")
		return nil
	}
	if err != nil {
		return err
	}

	bonus := ResolveMultiplier(kind, account, amount, adminBonus)
	if bonus.Fallback {
		logger.WarnContext(ctx, "unrecognised tier, using base rate", "beneficiary", string(kind), "id", id, "tier", string(account.Tier))
	}
	outcome := p.credit(kind, kind, account, bonus, bonus.Apply(amount), now)
	logger.DebugContext(ctx, "beneficiary credited", "beneficiary", string(kind), "id", id,
		"amount", outcome.Amount.String(), "new_balance", outcome.NewBalance.String())
	return nil
}

// rewardRecipient credits the customer account registered under the recipient
// phone, or escrows the reward until that phone registers.
func (a *Allocator) rewardRecipient(ctx context.Context, logger *slog.Logger, p *plan, req *models.AllocationRequest, now time.Time) error {
	amount := req.RecipientReward
	phone := req.RecipientPhone

	account, err := a.account(ctx, p, models.CUSTOMER, phone)
	switch {
	case err == nil:
		outcome := p.credit(models.CUSTOMER, models.RECIPIENT, account, baseRate(), amount, now)
		logger.DebugContext(ctx, "recipient credited", "phone", phone, "amount", amount.String(), "new_balance", outcome.NewBalance.String())
		return nil
	case !errors.Is(err, storage.ErrAccountNotFound):
		return err
	}

	existing, err := a.store.GetPending(ctx, phone)
	if err != nil && !errors.Is(err, storage.ErrPendingNotFound) {
		return fmt.Errorf("failed to read pending reward: %w", err)
	}
	outcome := p.escrow(existing, phone, amount, now)
	logger.InfoContext(ctx, "recipient not registered, reward escrowed", "phone", phone,
		"amount", amount.String(), "pending_total", outcome.NewBalance.String())
	return nil
}

// account returns the in-plan copy of an account or reads it from the store.
func (a *Allocator) account(ctx context.Context, p *plan, kind models.BeneficiaryType, id string) (*models.BeneficiaryAccount, error) {
	if acct := p.lookup(kind, id); acct != nil {
		return acct, nil
	}
	acct, err := a.store.GetAccount(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read %s account: %w", kind, err)
	}
	return acct, nil
}

func (a *Allocator) record(outcomes []models.Outcome) {
	for _, o := range outcomes {
		if o.Status == models.PENDING_REGISTRATION {
			a.opts.Metrics.Escrowed(o.Amount)
			continue
		}
		a.opts.Metrics.Credited(string(o.Type), o.Amount)
	}
}
