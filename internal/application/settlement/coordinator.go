package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Coordinator settles POS orders. Steps up to and including stock depletion
// and the outbox write run in one transaction with the order row locked; the
// ledger posting runs after commit.
type Coordinator struct {
	txScope    TransactionScope
	dispatcher *PostingDispatcher
	logger     *zap.Logger
	metrics    Metrics
	now        func() time.Time

	inlinePosting bool
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithDispatcher enables the inline posting attempt after commit
func WithDispatcher(d *PostingDispatcher) CoordinatorOption {
	return func(c *Coordinator) {
		c.dispatcher = d
		c.inlinePosting = d != nil
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates a Coordinator. Without a dispatcher every posting is
// left to the outbox processor.
func NewCoordinator(txScope TransactionScope, logger *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		txScope: txScope,
		logger:  logger,
		metrics: nopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// settled carries what the transaction produced to the post-commit phase
type settled struct {
	order      *pos.Order
	payment    *pos.Payment
	settlement *pos.Settlement
	warnings   []inventory.StockWarning
	autoPost   bool
}

// Settle converts an open order into a paid one.
//
// Validation, configuration and infrastructure errors roll back everything:
// no payment, no depletion, no outbox row. Once the transaction commits the
// settlement stands; posting problems are reported in the result.
func (c *Coordinator) Settle(ctx context.Context, tenantID, orderID uuid.UUID, actorID *uuid.UUID, req SettleRequest) (*SettlementResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "settlement.settle",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, req.PaymentMethodID.String()),
	)
	defer span.End()
	started := c.now()

	var out *settled
	err := c.txScope.Execute(ctx, func(repos Repositories) error {
		s, err := c.settle(ctx, repos, tenantID, orderID, actorID, req)
		out = s
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		outcome := OutcomeFailed
		if shared.CategoryOf(err) == shared.CategoryValidation {
			outcome = OutcomeRejected
		}
		c.metrics.RecordSettlement(ctx, outcome, c.now().Sub(started))
		if shared.CategoryOf(err) == shared.CategoryInfrastructure {
			c.logger.Error("settlement rolled back",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
			return nil, fmt.Errorf("settle order %s: %w", orderID, err)
		}
		return nil, err
	}
	c.metrics.RecordSettlement(ctx, OutcomeSettled, c.now().Sub(started))

	for _, w := range out.warnings {
		c.metrics.RecordStockWarning(ctx, string(w.Kind))
		c.logger.Warn("stock anomaly after settlement",
			zap.String("order_id", out.order.ID.String()),
			zap.String("order_number", out.order.OrderNumber),
			zap.String("kind", string(w.Kind)),
			zap.String("component_item_id", w.ComponentItemID.String()),
			zap.String("location_id", w.LocationID.String()),
			zap.String("quantity_on_hand", w.QuantityOnHand.String()),
		)
	}

	result := &SettlementResult{
		PaymentID:     out.payment.ID,
		OrderID:       out.order.ID,
		OrderNumber:   out.order.OrderNumber,
		Status:        string(out.order.Status),
		Subtotal:      out.settlement.Subtotal,
		Discount:      out.settlement.Discount,
		Tax:           out.settlement.Tax,
		TotalAmount:   out.settlement.GrandTotal,
		AmountPaid:    out.settlement.AmountTendered,
		Change:        out.settlement.Change,
		PaidAt:        out.payment.PaidAt,
		Posting:       postingResultFromOrder(out.order),
		StockWarnings: toStockWarningDTOs(out.warnings),
	}

	if out.autoPost && c.inlinePosting {
		result.Posting = c.dispatcher.Dispatch(ctx, PostCommand{
			TenantID:    tenantID,
			OrderID:     out.order.ID,
			ActorID:     actorID,
			OnlyPending: true,
		})
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, out.order.OrderNumber,
		telemetry.SpanAttrPostingStatus, result.Posting.Status,
	)

	c.logger.Info("order settled",
		zap.String("order_id", out.order.ID.String()),
		zap.String("order_number", out.order.OrderNumber),
		zap.String("payment_id", out.payment.ID.String()),
		zap.String("grand_total", out.settlement.GrandTotal.String()),
		zap.String("posting_status", result.Posting.Status),
		zap.Int("stock_warnings", len(out.warnings)),
	)
	return result, nil
}

func (c *Coordinator) settle(ctx context.Context, repos Repositories, tenantID, orderID uuid.UUID, actorID *uuid.UUID, req SettleRequest) (*settled, error) {
	order, err := repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.IsSettleable() {
		return nil, pos.ErrAlreadySettled.WithMessage(fmt.Sprintf("Order %s is %s and cannot be settled", order.OrderNumber, order.Status))
	}

	method, err := repos.PaymentMethods().FindByID(ctx, tenantID, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if err := method.EnsureUsable(); err != nil {
		return nil, err
	}

	cfg, err := repos.Configs().FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	calculator := pos.NewSettlementCalculator(cfg.EffectiveTaxRate())
	discount, err := c.resolveDiscount(ctx, repos, tenantID, calculator.Subtotal(order.Lines), req)
	if err != nil {
		return nil, err
	}
	settlement, err := calculator.Calculate(order.Lines, discount, req.AmountTendered)
	if err != nil {
		return nil, err
	}

	paidAt := c.now()
	payment := pos.NewPayment(order, method, settlement, paidAt, actorID)
	if err := repos.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := order.Settle(settlement, payment.ID, paidAt, cfg.AutoPostToGL); err != nil {
		return nil, err
	}
	if err := repos.Orders().Save(ctx, order); err != nil {
		return nil, err
	}
	if err := releaseTable(ctx, repos, order); err != nil {
		return nil, err
	}

	depletion, err := c.deplete(ctx, repos, order)
	if err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, 0, len(order.GetDomainEvents())+len(depletion.Events))
	events = append(events, order.GetDomainEvents()...)
	events = append(events, depletion.Events...)
	if err := repos.SaveEvents(ctx, events...); err != nil {
		return nil, err
	}
	order.ClearDomainEvents()

	return &settled{
		order:      order,
		payment:    payment,
		settlement: settlement,
		warnings:   depletion.Warnings,
		autoPost:   cfg.AutoPostToGL,
	}, nil
}

func (c *Coordinator) resolveDiscount(ctx context.Context, repos Repositories, tenantID uuid.UUID, subtotal decimal.Decimal, req SettleRequest) (decimal.Decimal, error) {
	if req.DiscountID != nil {
		d, err := repos.Discounts().FindByID(ctx, tenantID, *req.DiscountID)
		if err != nil {
			return decimal.Zero, err
		}
		return d.AmountFor(subtotal)
	}
	if req.DiscountAmount != nil {
		return *req.DiscountAmount, nil
	}
	return decimal.Zero, nil
}

func (c *Coordinator) deplete(ctx context.Context, repos Repositories, order *pos.Order) (*inventory.DepletionResult, error) {
	itemIDs := make([]uuid.UUID, 0, len(order.Lines))
	sold := make([]inventory.SoldLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		itemIDs = append(itemIDs, l.ItemID)
		sold = append(sold, inventory.SoldLine{LineID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}
	recipes, err := repos.Recipes().FindByItemIDs(ctx, order.TenantID, itemIDs)
	if err != nil {
		return nil, err
	}
	plan := inventory.PlanDepletion(sold, recipes)
	resolver := inventory.NewDepletionResolver(repos.Stocks(), repos.Movements())
	return resolver.Deplete(ctx, order.TenantID, inventory.Source{OrderID: order.ID, OrderNumber: order.OrderNumber}, plan)
}

func releaseTable(ctx context.Context, repos Repositories, order *pos.Order) error {
	if order.TableID == nil {
		return nil
	}
	table, err := repos.Tables().FindByIDForUpdate(ctx, order.TenantID, *order.TableID)
	if err != nil {
		// table_id carries no foreign key; a removed table has nothing to release
		if errors.Is(err, pos.ErrTableNotFound) {
			return nil
		}
		return err
	}
	if table.CurrentOrderID != nil && *table.CurrentOrderID != order.ID {
		// the table already serves another order
		return nil
	}
	table.Release()
	return repos.Tables().Save(ctx, table)
}

// Cancel cancels an order that has not been paid and releases its table
func (c *Coordinator) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelRequest) (*CancelResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "settlement.cancel",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
	)
	defer span.End()

	var result *CancelResult
	err := c.txScope.Execute(ctx, func(repos Repositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		if err := releaseTable(ctx, repos, order); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, order.GetDomainEvents()...); err != nil {
			return err
		}
		order.ClearDomainEvents()

		result = &CancelResult{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			CancelledAt: *order.CancelledAt,
			Reason:      order.CancelReason,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	c.logger.Info("order cancelled",
		zap.String("order_id", result.OrderID.String()),
		zap.String("order_number", result.OrderNumber),
		zap.String("reason", result.Reason),
	)
	return result, nil
}
