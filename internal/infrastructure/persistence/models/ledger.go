package models

import (
	"time"

	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerAccountModel struct {
	TenantModel
	Code   string `gorm:"type:varchar(30);not null"`
	Name   string `gorm:"type:varchar(200);not null"`
	Active bool   `gorm:"not null"`
}

func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

func (m *LedgerAccountModel) ToDomain() ledger.LedgerAccount {
	return ledger.LedgerAccount{
		TenantEntity: m.TenantModel.toDomain(),
		Code:         m.Code,
		Name:         m.Name,
		Active:       m.Active,
	}
}

func LedgerAccountModelFromDomain(a *ledger.LedgerAccount) *LedgerAccountModel {
	m := &LedgerAccountModel{Code: a.Code, Name: a.Name, Active: a.Active}
	m.TenantModel.fromDomain(a.TenantEntity)
	return m
}

// AccountMappingModel stores one (subject, role) → account assignment. A
// domain AccountMapping is the set of rows sharing a subject.
type AccountMappingModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_mapping_subject,priority:1"`
	SubjectType ledger.SubjectType `gorm:"type:varchar(20);not null;index:idx_mapping_subject,priority:2"`
	SubjectID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_mapping_subject,priority:3"`
	Role        ledger.AccountRole `gorm:"type:varchar(20);not null"`
	AccountID   uuid.UUID          `gorm:"type:uuid;not null"`
}

func (AccountMappingModel) TableName() string {
	return "account_mappings"
}

// AccountMappingModelsFromDomain flattens a mapping into one row per role.
func AccountMappingModelsFromDomain(am *ledger.AccountMapping) []AccountMappingModel {
	rows := make([]AccountMappingModel, 0, len(am.Accounts))
	for role, accountID := range am.Accounts {
		rows = append(rows, AccountMappingModel{
			ID:          uuid.New(),
			TenantID:    am.TenantID,
			SubjectType: am.SubjectType,
			SubjectID:   am.SubjectID,
			Role:        role,
			AccountID:   accountID,
		})
	}
	return rows
}

// GroupAccountMappings folds mapping rows back into one AccountMapping per subject.
func GroupAccountMappings(rows []AccountMappingModel) []ledger.AccountMapping {
	type key struct {
		t  ledger.SubjectType
		id uuid.UUID
	}
	index := make(map[key]int)
	var out []ledger.AccountMapping
	for _, r := range rows {
		k := key{r.SubjectType, r.SubjectID}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, ledger.AccountMapping{
				ID:          r.ID,
				TenantID:    r.TenantID,
				SubjectType: r.SubjectType,
				SubjectID:   r.SubjectID,
				Accounts:    make(map[ledger.AccountRole]uuid.UUID),
			})
		}
		out[i].Accounts[r.Role] = r.AccountID
	}
	return out
}

type AccountingPeriodModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Code      string              `gorm:"type:varchar(20);not null"`
	StartDate time.Time           `gorm:"type:date;not null"`
	EndDate   time.Time           `gorm:"type:date;not null"`
	Status    ledger.PeriodStatus `gorm:"type:varchar(10);not null"`
}

func (AccountingPeriodModel) TableName() string {
	return "accounting_periods"
}

func (m *AccountingPeriodModel) ToDomain() *ledger.AccountingPeriod {
	return &ledger.AccountingPeriod{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Code:      m.Code,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    m.Status,
	}
}

func AccountingPeriodModelFromDomain(p *ledger.AccountingPeriod) *AccountingPeriodModel {
	return &AccountingPeriodModel{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Code:      p.Code,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
	}
}

type NumberingSeriesModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_series_tenant_doc,priority:1"`
	DocumentType string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_series_tenant_doc,priority:2"`
	Prefix       string    `gorm:"type:varchar(20);not null"`
	NextNumber   int64     `gorm:"not null;default:1"`
	Padding      int       `gorm:"not null;default:6"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (NumberingSeriesModel) TableName() string {
	return "numbering_series"
}

func (m *NumberingSeriesModel) ToDomain() *ledger.NumberingSeries {
	return &ledger.NumberingSeries{
		ID:           m.ID,
		TenantID:     m.TenantID,
		DocumentType: m.DocumentType,
		Prefix:       m.Prefix,
		NextNumber:   m.NextNumber,
		Padding:      m.Padding,
		UpdatedAt:    m.UpdatedAt,
	}
}

func NumberingSeriesModelFromDomain(s *ledger.NumberingSeries) *NumberingSeriesModel {
	return &NumberingSeriesModel{
		ID:           s.ID,
		TenantID:     s.TenantID,
		DocumentType: s.DocumentType,
		Prefix:       s.Prefix,
		NextNumber:   s.NextNumber,
		Padding:      s.Padding,
		UpdatedAt:    s.UpdatedAt,
	}
}

// JournalEntryModel is unique per source document, which makes a second
// posting for the same order fail at the database. Source ids are UUIDs, so
// the index leaves the tenant out; the SQL migration scopes it by tenant.
type JournalEntryModel struct {
	TenantAggregateModel
	DocumentType   string          `gorm:"type:varchar(10);not null"`
	DocumentNumber string          `gorm:"type:varchar(50);not null"`
	DocumentDate   time.Time       `gorm:"type:date;not null"`
	PostingDate    time.Time       `gorm:"type:date;not null"`
	PeriodID       uuid.UUID       `gorm:"type:uuid;not null"`
	Description    string          `gorm:"type:varchar(500)"`
	SourceType     string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_journal_source,priority:1"`
	SourceID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_journal_source,priority:2"`
	TotalDebit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCredit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Posted         bool            `gorm:"not null;default:false"`
	PostedBy       *uuid.UUID      `gorm:"type:uuid"`
	PostedAt       *time.Time
	Lines          []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	e := &ledger.JournalEntry{
		TenantAggregateRoot: m.TenantAggregateModel.toDomain(),
		DocumentType:        m.DocumentType,
		DocumentNumber:      m.DocumentNumber,
		DocumentDate:        m.DocumentDate,
		PostingDate:         m.PostingDate,
		PeriodID:            m.PeriodID,
		Description:         m.Description,
		SourceType:          m.SourceType,
		SourceID:            m.SourceID,
		TotalDebit:          m.TotalDebit,
		TotalCredit:         m.TotalCredit,
		Posted:              m.Posted,
		PostedBy:            m.PostedBy,
		PostedAt:            m.PostedAt,
		Lines:               make([]ledger.JournalLine, len(m.Lines)),
	}
	for i := range m.Lines {
		e.Lines[i] = m.Lines[i].ToDomain()
	}
	return e
}

func JournalEntryModelFromDomain(e *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{
		DocumentType:   e.DocumentType,
		DocumentNumber: e.DocumentNumber,
		DocumentDate:   e.DocumentDate,
		PostingDate:    e.PostingDate,
		PeriodID:       e.PeriodID,
		Description:    e.Description,
		SourceType:     e.SourceType,
		SourceID:       e.SourceID,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		Posted:         e.Posted,
		PostedBy:       e.PostedBy,
		PostedAt:       e.PostedAt,
		Lines:          make([]JournalLineModel, len(e.Lines)),
	}
	m.TenantAggregateModel.fromDomain(e.TenantAggregateRoot)
	for i, l := range e.Lines {
		m.Lines[i] = JournalLineModelFromDomain(e.TenantID, l)
	}
	return m
}

type JournalLineModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null"`
	EntryID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	LineNumber  int                `gorm:"not null"`
	AccountID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Role        ledger.AccountRole `gorm:"type:varchar(20);not null"`
	Debit       decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Credit      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Description string             `gorm:"type:varchar(500)"`
}

func (JournalLineModel) TableName() string {
	return "journal_lines"
}

func (m *JournalLineModel) ToDomain() ledger.JournalLine {
	return ledger.JournalLine{
		ID:          m.ID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		Role:        m.Role,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
	}
}

func JournalLineModelFromDomain(tenantID uuid.UUID, l ledger.JournalLine) JournalLineModel {
	return JournalLineModel{
		ID:          l.ID,
		TenantID:    tenantID,
		EntryID:     l.EntryID,
		LineNumber:  l.LineNumber,
		AccountID:   l.AccountID,
		Role:        l.Role,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}
