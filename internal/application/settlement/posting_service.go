package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostCommand asks for the ledger entry of one settled order
type PostCommand struct {
	TenantID uuid.UUID
	OrderID  uuid.UUID
	ActorID  *uuid.UUID
	// OnlyPending skips orders whose posting is not PENDING. Automatic
	// triggers set it so a recorded failure waits for a manual retry.
	OnlyPending bool
}

// PostingService creates the journal entry of a settled order. Posting is
// idempotent per order: the order row lock, the unique source key of journal
// entries and the POSTED status all guard against a second entry.
type PostingService struct {
	txScope TransactionScope
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	retryMaxElapsed time.Duration
}

// PostingOption configures a PostingService
type PostingOption func(*PostingService)

// WithPostingMetrics sets the metrics sink
func WithPostingMetrics(m Metrics) PostingOption {
	return func(s *PostingService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRetryBudget bounds how long PostNow retries transient failures
func WithRetryBudget(d time.Duration) PostingOption {
	return func(s *PostingService) {
		if d > 0 {
			s.retryMaxElapsed = d
		}
	}
}

// WithPostingClock overrides the time source
func WithPostingClock(now func() time.Time) PostingOption {
	return func(s *PostingService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPostingService creates a PostingService
func NewPostingService(txScope TransactionScope, logger *zap.Logger, opts ...PostingOption) *PostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PostingService{
		txScope:         txScope,
		logger:          logger,
		metrics:         nopMetrics{},
		now:             time.Now,
		retryMaxElapsed: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostOrder posts the journal entry of a PAID order in one transaction.
//
// On success the result reports POSTED. Configuration and consistency
// failures are recorded on the order as FAILED in a separate transaction and
// returned together with a non-nil result. Other errors are returned with a
// nil result and leave the order untouched so the caller can retry.
func (s *PostingService) PostOrder(ctx context.Context, cmd PostCommand) (*PostingResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "settlement.post_order",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, cmd.TenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, cmd.OrderID.String()),
	)
	defer span.End()
	started := s.now()

	var result *PostingResult
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		r, err := s.post(ctx, repos, cmd)
		result = r
		return err
	})
	if err == nil {
		s.metrics.RecordPosting(ctx, result.Status, s.now().Sub(started))
		telemetry.SetAttributes(span,
			telemetry.SpanAttrPostingStatus, result.Status,
			telemetry.SpanAttrDocumentNumber, result.DocumentNumber,
		)
		return result, nil
	}
	telemetry.RecordError(span, err)

	switch shared.CategoryOf(err) {
	case shared.CategoryConfiguration, shared.CategoryConsistency:
		failed, recErr := s.recordFailure(ctx, cmd, err)
		if recErr != nil {
			s.logger.Error("failed to record posting failure",
				zap.String("order_id", cmd.OrderID.String()),
				zap.Error(recErr),
			)
			return nil, errors.Join(err, recErr)
		}
		s.metrics.RecordPosting(ctx, string(pos.PostingStatusFailed), s.now().Sub(started))
		return failed, err
	case shared.CategoryValidation:
		return nil, err
	default:
		s.metrics.RecordPosting(ctx, string(pos.PostingStatusPending), s.now().Sub(started))
		return nil, fmt.Errorf("post order %s: %w", cmd.OrderID, err)
	}
}

func (s *PostingService) post(ctx context.Context, repos Repositories, cmd PostCommand) (*PostingResult, error) {
	order, err := repos.Orders().FindByIDForUpdate(ctx, cmd.TenantID, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != pos.OrderStatusPaid {
		return nil, pos.ErrOrderNotPaid.WithMessage(fmt.Sprintf("Order %s is %s and cannot be posted", order.OrderNumber, order.Status))
	}
	if order.IsPosted() {
		entry, err := repos.Journals().FindBySource(ctx, cmd.TenantID, ledger.SourceTypePOSOrder, order.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		r := postingResultFromEntry(order, entry, nil)
		return &r, nil
	}
	if cmd.OnlyPending && order.PostingStatus != pos.PostingStatusPending {
		r := postingResultFromOrder(order)
		return &r, nil
	}

	// An entry without a POSTED order means an earlier attempt committed the
	// entry but not the order flag; link it instead of posting twice.
	existing, err := repos.Journals().FindBySource(ctx, cmd.TenantID, ledger.SourceTypePOSOrder, order.ID)
	switch {
	case err == nil:
		if err := order.MarkPosted(existing.ID, s.now()); err != nil {
			return nil, err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return nil, err
		}
		r := postingResultFromEntry(order, existing, nil)
		return &r, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	payment, err := repos.Payments().FindByOrderID(ctx, cmd.TenantID, order.ID)
	if err != nil {
		return nil, err
	}
	method, err := repos.PaymentMethods().FindByID(ctx, cmd.TenantID, payment.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	cfg, err := repos.Configs().FindByTenant(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, 0, len(order.Lines))
	for _, l := range order.Lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	mappings, err := repos.Mappings().FindForSubjects(ctx, cmd.TenantID, itemIDs, payment.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	defaults := defaultsFromConfig(cfg)
	accounts, err := repos.Accounts().FindByIDs(ctx, cmd.TenantID, ledger.CandidateAccountIDs(mappings, defaults))
	if err != nil {
		return nil, err
	}
	movements, err := repos.Movements().FindBySource(ctx, cmd.TenantID, inventory.SourceTypePOSOrder, order.ID)
	if err != nil {
		return nil, err
	}

	draft, err := ledger.NewEntryBuilder(ledger.NewAccountResolver(mappings, defaults, accounts)).Build(ledger.PostingInput{
		OrderNumber:       order.OrderNumber,
		PaymentMethodID:   payment.PaymentMethodID,
		PaymentMethodName: method.Name,
		Lines:             saleLines(order, movements),
		Discount:          order.DiscountAmount,
		Tax:               order.TaxAmount,
		AmountReceived:    payment.Amount,
	})
	if err != nil {
		return nil, err
	}

	postingDate := payment.PaidAt
	period, err := repos.Periods().FindOpenByDate(ctx, cmd.TenantID, postingDate)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ledger.ErrNoOpenPeriod.WithMessage(fmt.Sprintf("No open accounting period for %s", postingDate.Format(time.DateOnly)))
		}
		return nil, err
	}
	series, err := repos.Series().FindForUpdate(ctx, cmd.TenantID, ledger.DocumentTypeJournal)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ledger.ErrNoNumberingSeries.WithMessage(fmt.Sprintf("No numbering series for document type %s", ledger.DocumentTypeJournal))
		}
		return nil, err
	}
	number := series.Next()

	entry, err := ledger.NewJournalEntry(cmd.TenantID, ledger.EntryHeader{
		DocumentNumber: number,
		DocumentDate:   ledger.DateOf(postingDate),
		PostingDate:    postingDate,
		Period:         period,
		Description:    fmt.Sprintf("POS order %s settlement", order.OrderNumber),
		SourceType:     ledger.SourceTypePOSOrder,
		SourceID:       order.ID,
	}, draft)
	if err != nil {
		if errors.Is(err, ledger.ErrUnbalancedEntry) {
			s.logger.Error("unbalanced journal entry rejected",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.String("total_debit", draft.TotalDebit.String()),
				zap.String("total_credit", draft.TotalCredit.String()),
			)
		}
		return nil, err
	}

	now := s.now()
	if err := entry.MarkPosted(cmd.ActorID, now); err != nil {
		return nil, err
	}
	if err := repos.Series().Save(ctx, series); err != nil {
		return nil, err
	}
	if err := repos.Journals().Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := order.MarkPosted(entry.ID, now); err != nil {
		return nil, err
	}
	if err := repos.Orders().Save(ctx, order); err != nil {
		return nil, err
	}
	if err := repos.SaveEvents(ctx, entry.GetDomainEvents()...); err != nil {
		return nil, err
	}
	entry.ClearDomainEvents()

	s.logger.Info("order posted to ledger",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("document_number", entry.DocumentNumber),
		zap.String("total_debit", entry.TotalDebit.String()),
	)
	r := postingResultFromEntry(order, entry, draft.UsedDefaults())
	return &r, nil
}

// recordFailure marks the order FAILED in its own transaction, since the
// posting transaction has already been rolled back.
func (s *PostingService) recordFailure(ctx context.Context, cmd PostCommand, cause error) (*PostingResult, error) {
	var result *PostingResult
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, cmd.TenantID, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.IsPosted() {
			r := postingResultFromOrder(order)
			result = &r
			return nil
		}
		if err := order.MarkPostingFailed(cause.Error()); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		r := postingResultFromOrder(order)
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("order_id", cmd.OrderID.String()),
		zap.String("category", string(shared.CategoryOf(cause))),
		zap.Error(cause),
	}
	if shared.CategoryOf(cause) == shared.CategoryConsistency {
		s.logger.Error("ledger posting failed on an internal invariant", fields...)
	} else {
		s.logger.Warn("ledger posting requires manual intervention", fields...)
	}
	return result, nil
}

// PostNow is the manual posting command. Transient failures are retried with
// exponential backoff within the configured budget; the order is posted even
// when an earlier attempt was recorded as FAILED.
func (s *PostingService) PostNow(ctx context.Context, tenantID, orderID uuid.UUID, actorID *uuid.UUID) (*PostingResult, error) {
	cmd := PostCommand{TenantID: tenantID, OrderID: orderID, ActorID: actorID}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.MaxElapsedTime = s.retryMaxElapsed

	var (
		result  *PostingResult
		attempt int
	)
	operation := func() error {
		attempt++
		r, err := s.PostOrder(ctx, cmd)
		if err == nil {
			result = r
			return nil
		}
		if !shared.IsRetryable(err) {
			result = r
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("retrying ledger posting",
			zap.String("order_id", orderID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return result, err
	}
	return result, nil
}

func defaultsFromConfig(cfg *pos.PosConfig) ledger.Defaults {
	defaults := ledger.Defaults{}
	if cfg == nil {
		return defaults
	}
	set := func(role ledger.AccountRole, id *uuid.UUID) {
		if id != nil {
			defaults[role] = *id
		}
	}
	set(ledger.RoleCash, cfg.DefaultCashAccountID)
	set(ledger.RoleSales, cfg.DefaultSalesAccountID)
	set(ledger.RoleTax, cfg.DefaultTaxAccountID)
	set(ledger.RoleDiscount, cfg.DefaultDiscountAccountID)
	set(ledger.RoleCOGS, cfg.DefaultCOGSAccountID)
	set(ledger.RoleInventory, cfg.DefaultInventoryAccountID)
	return defaults
}

// saleLines joins order lines with the cost of the components they consumed
func saleLines(order *pos.Order, movements []inventory.InventoryMovement) []ledger.SaleLine {
	costs := make(map[uuid.UUID]decimal.Decimal, len(order.Lines))
	for _, m := range movements {
		if m.OrderLineID == nil {
			continue
		}
		costs[*m.OrderLineID] = costs[*m.OrderLineID].Add(m.CostValue())
	}
	lines := make([]ledger.SaleLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, ledger.SaleLine{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Total:    l.Total(),
			Cost:     costs[l.ID],
		})
	}
	return lines
}
