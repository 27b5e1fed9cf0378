package models

import (
	"time"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the POS order aggregate.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber     string          `gorm:"type:varchar(50);not null;index"`
	TableID         *uuid.UUID      `gorm:"type:uuid"`
	Status          pos.OrderStatus `gorm:"type:varchar(20);not null;default:OPEN;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentReceived bool            `gorm:"not null;default:false"`
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string            `gorm:"type:varchar(500)"`
	PostingStatus   pos.PostingStatus `gorm:"type:varchar(20);not null;default:UNPOSTED;index"`
	JournalEntryID  *uuid.UUID        `gorm:"type:uuid"`
	PostingError    string            `gorm:"type:text"`
	PostedAt        *time.Time
	Lines           []OrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderModel) TableName() string {
	return "pos_orders"
}

func (m *OrderModel) ToDomain() *pos.Order {
	o := &pos.Order{
		TenantAggregateRoot: m.TenantAggregateModel.toDomain(),
		OrderNumber:         m.OrderNumber,
		TableID:             m.TableID,
		Status:              m.Status,
		Subtotal:            m.Subtotal,
		DiscountAmount:      m.DiscountAmount,
		TaxAmount:           m.TaxAmount,
		GrandTotal:          m.GrandTotal,
		PaymentReceived:     m.PaymentReceived,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		CancelReason:        m.CancelReason,
		PostingStatus:       m.PostingStatus,
		JournalEntryID:      m.JournalEntryID,
		PostingError:        m.PostingError,
		PostedAt:            m.PostedAt,
		Lines:               make([]pos.OrderLine, len(m.Lines)),
	}
	for i := range m.Lines {
		o.Lines[i] = m.Lines[i].ToDomain()
	}
	return o
}

// OrderModelFromDomain maps the order header and its lines.
func OrderModelFromDomain(o *pos.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:     o.OrderNumber,
		TableID:         o.TableID,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		TaxAmount:       o.TaxAmount,
		GrandTotal:      o.GrandTotal,
		PaymentReceived: o.PaymentReceived,
		PaidAt:          o.PaidAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		PostingStatus:   o.PostingStatus,
		JournalEntryID:  o.JournalEntryID,
		PostingError:    o.PostingError,
		PostedAt:        o.PostedAt,
		Lines:           make([]OrderLineModel, len(o.Lines)),
	}
	m.TenantAggregateModel.fromDomain(o.TenantAggregateRoot)
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModelFromDomain(o.TenantID, i, l)
	}
	return m
}

// OrderLineModel stores a sold line. Modifiers are kept as a JSON array.
type OrderLineModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null"`
	OrderID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Position    int                `gorm:"not null;default:0"`
	ItemID      uuid.UUID          `gorm:"type:uuid;not null"`
	ItemName    string             `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PriceAtSale decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Modifiers   []pos.LineModifier `gorm:"type:jsonb;serializer:json"`
}

func (OrderLineModel) TableName() string {
	return "pos_order_lines"
}

func (m *OrderLineModel) ToDomain() pos.OrderLine {
	return pos.OrderLine{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ItemID:      m.ItemID,
		ItemName:    m.ItemName,
		Quantity:    m.Quantity,
		PriceAtSale: m.PriceAtSale,
		Modifiers:   m.Modifiers,
	}
}

// OrderLineModelFromDomain keeps the entry order of lines in Position.
func OrderLineModelFromDomain(tenantID uuid.UUID, position int, l pos.OrderLine) OrderLineModel {
	return OrderLineModel{
		ID:          l.ID,
		TenantID:    tenantID,
		OrderID:     l.OrderID,
		Position:    position,
		ItemID:      l.ItemID,
		ItemName:    l.ItemName,
		Quantity:    l.Quantity,
		PriceAtSale: l.PriceAtSale,
		Modifiers:   l.Modifiers,
	}
}

// PaymentModel is the immutable payment row. order_id is unique so an order
// can be settled at most once.
type PaymentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountTendered  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Change          decimal.Decimal `gorm:"column:change_amount;type:decimal(18,4);not null"`
	PaidAt          time.Time       `gorm:"not null"`
	ReceivedBy      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (PaymentModel) TableName() string {
	return "pos_payments"
}

func (m *PaymentModel) ToDomain() *pos.Payment {
	return &pos.Payment{
		ID:              m.ID,
		TenantID:        m.TenantID,
		OrderID:         m.OrderID,
		PaymentMethodID: m.PaymentMethodID,
		Amount:          m.Amount,
		AmountTendered:  m.AmountTendered,
		Change:          m.Change,
		PaidAt:          m.PaidAt,
		ReceivedBy:      m.ReceivedBy,
		CreatedAt:       m.CreatedAt,
	}
}

func PaymentModelFromDomain(p *pos.Payment) *PaymentModel {
	return &PaymentModel{
		ID:              p.ID,
		TenantID:        p.TenantID,
		OrderID:         p.OrderID,
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount,
		AmountTendered:  p.AmountTendered,
		Change:          p.Change,
		PaidAt:          p.PaidAt,
		ReceivedBy:      p.ReceivedBy,
		CreatedAt:       p.CreatedAt,
	}
}

type PaymentMethodModel struct {
	TenantModel
	Code   string                `gorm:"type:varchar(50);not null"`
	Name   string                `gorm:"type:varchar(100);not null"`
	Type   pos.PaymentMethodType `gorm:"type:varchar(20);not null"`
	Active bool                  `gorm:"not null"`
}

func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

func (m *PaymentMethodModel) ToDomain() *pos.PaymentMethod {
	return &pos.PaymentMethod{
		TenantEntity: m.TenantModel.toDomain(),
		Code:         m.Code,
		Name:         m.Name,
		Type:         m.Type,
		Active:       m.Active,
	}
}

func PaymentMethodModelFromDomain(pm *pos.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{Code: pm.Code, Name: pm.Name, Type: pm.Type, Active: pm.Active}
	m.TenantModel.fromDomain(pm.TenantEntity)
	return m
}

type DiningTableModel struct {
	TenantModel
	Number         string          `gorm:"type:varchar(20);not null"`
	Status         pos.TableStatus `gorm:"type:varchar(20);not null;default:AVAILABLE"`
	CurrentOrderID *uuid.UUID      `gorm:"type:uuid"`
}

func (DiningTableModel) TableName() string {
	return "dining_tables"
}

func (m *DiningTableModel) ToDomain() *pos.DiningTable {
	return &pos.DiningTable{
		TenantEntity:   m.TenantModel.toDomain(),
		Number:         m.Number,
		Status:         m.Status,
		CurrentOrderID: m.CurrentOrderID,
	}
}

func DiningTableModelFromDomain(t *pos.DiningTable) *DiningTableModel {
	m := &DiningTableModel{Number: t.Number, Status: t.Status, CurrentOrderID: t.CurrentOrderID}
	m.TenantModel.fromDomain(t.TenantEntity)
	return m
}

type DiscountModel struct {
	TenantModel
	Code   string           `gorm:"type:varchar(50);not null"`
	Name   string           `gorm:"type:varchar(100);not null"`
	Type   pos.DiscountType `gorm:"type:varchar(20);not null"`
	Value  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Active bool             `gorm:"not null"`
}

func (DiscountModel) TableName() string {
	return "pos_discounts"
}

func (m *DiscountModel) ToDomain() *pos.Discount {
	return &pos.Discount{
		TenantEntity: m.TenantModel.toDomain(),
		Code:         m.Code,
		Name:         m.Name,
		Type:         m.Type,
		Value:        m.Value,
		Active:       m.Active,
	}
}

func DiscountModelFromDomain(d *pos.Discount) *DiscountModel {
	m := &DiscountModel{Code: d.Code, Name: d.Name, Type: d.Type, Value: d.Value, Active: d.Active}
	m.TenantModel.fromDomain(d.TenantEntity)
	return m
}

// PosConfigModel is keyed by tenant; a tenant has at most one row.
type PosConfigModel struct {
	TenantID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AutoPostToGL              bool            `gorm:"column:auto_post_to_gl;not null;default:false"`
	TaxRate                   decimal.Decimal `gorm:"type:decimal(9,6);not null"`
	DefaultCashAccountID      *uuid.UUID      `gorm:"type:uuid"`
	DefaultSalesAccountID     *uuid.UUID      `gorm:"type:uuid"`
	DefaultTaxAccountID       *uuid.UUID      `gorm:"type:uuid"`
	DefaultDiscountAccountID  *uuid.UUID      `gorm:"type:uuid"`
	DefaultCOGSAccountID      *uuid.UUID      `gorm:"column:default_cogs_account_id;type:uuid"`
	DefaultInventoryAccountID *uuid.UUID      `gorm:"type:uuid"`
	UpdatedAt                 time.Time       `gorm:"not null"`
}

func (PosConfigModel) TableName() string {
	return "pos_configs"
}

func (m *PosConfigModel) ToDomain() *pos.PosConfig {
	return &pos.PosConfig{
		TenantID:                  m.TenantID,
		AutoPostToGL:              m.AutoPostToGL,
		TaxRate:                   m.TaxRate,
		DefaultCashAccountID:      m.DefaultCashAccountID,
		DefaultSalesAccountID:     m.DefaultSalesAccountID,
		DefaultTaxAccountID:       m.DefaultTaxAccountID,
		DefaultDiscountAccountID:  m.DefaultDiscountAccountID,
		DefaultCOGSAccountID:      m.DefaultCOGSAccountID,
		DefaultInventoryAccountID: m.DefaultInventoryAccountID,
	}
}

func PosConfigModelFromDomain(c *pos.PosConfig) *PosConfigModel {
	return &PosConfigModel{
		TenantID:                  c.TenantID,
		AutoPostToGL:              c.AutoPostToGL,
		TaxRate:                   c.TaxRate,
		DefaultCashAccountID:      c.DefaultCashAccountID,
		DefaultSalesAccountID:     c.DefaultSalesAccountID,
		DefaultTaxAccountID:       c.DefaultTaxAccountID,
		DefaultDiscountAccountID:  c.DefaultDiscountAccountID,
		DefaultCOGSAccountID:      c.DefaultCOGSAccountID,
		DefaultInventoryAccountID: c.DefaultInventoryAccountID,
		UpdatedAt:                 time.Now(),
	}
}
