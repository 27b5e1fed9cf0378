package ledger

import (
	"github.com/google/uuid"
)

// SubjectType is what an account mapping is attached to
type SubjectType string

const (
	SubjectItem          SubjectType = "ITEM"
	SubjectPaymentMethod SubjectType = "PAYMENT_METHOD"
)

// AccountMapping assigns accounts to a sellable item or a payment method.
// Any role may be left unset.
type AccountMapping struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	SubjectType SubjectType
	SubjectID   uuid.UUID
	Accounts    map[AccountRole]uuid.UUID
}

// AccountFor returns the mapped account of a role
func (m *AccountMapping) AccountFor(role AccountRole) (uuid.UUID, bool) {
	if m == nil || m.Accounts == nil {
		return uuid.Nil, false
	}
	id, ok := m.Accounts[role]
	return id, ok && id != uuid.Nil
}

// ResolutionKind tags how an account was found
type ResolutionKind string

const (
	KindUnresolved   ResolutionKind = "UNRESOLVED"
	KindResolved     ResolutionKind = "RESOLVED"
	KindUsingDefault ResolutionKind = "USING_DEFAULT"
)

// Resolution is Resolved(id) | UsingDefault(id) | Unresolved
type Resolution struct {
	Kind      ResolutionKind
	AccountID uuid.UUID
}

func Resolved(id uuid.UUID) Resolution     { return Resolution{Kind: KindResolved, AccountID: id} }
func UsingDefault(id uuid.UUID) Resolution { return Resolution{Kind: KindUsingDefault, AccountID: id} }
func Unresolved() Resolution               { return Resolution{Kind: KindUnresolved} }

// Account returns the account and whether one was found
func (r Resolution) Account() (uuid.UUID, bool) {
	if r.Kind == KindResolved || r.Kind == KindUsingDefault {
		return r.AccountID, true
	}
	return uuid.Nil, false
}

// Defaults are the business-scope fallback accounts per role
type Defaults map[AccountRole]uuid.UUID

// AccountResolver resolves accounts with the precedence
// subject mapping → business-scope default → unresolved.
// Mappings and defaults pointing at unknown or inactive accounts are ignored.
type AccountResolver struct {
	items    map[uuid.UUID]*AccountMapping
	methods  map[uuid.UUID]*AccountMapping
	defaults Defaults
	active   map[uuid.UUID]bool
}

// NewAccountResolver builds a resolver over preloaded directory data
func NewAccountResolver(mappings []AccountMapping, defaults Defaults, accounts []LedgerAccount) *AccountResolver {
	r := &AccountResolver{
		items:    make(map[uuid.UUID]*AccountMapping),
		methods:  make(map[uuid.UUID]*AccountMapping),
		defaults: defaults,
		active:   make(map[uuid.UUID]bool, len(accounts)),
	}
	for i := range mappings {
		m := &mappings[i]
		switch m.SubjectType {
		case SubjectItem:
			r.items[m.SubjectID] = m
		case SubjectPaymentMethod:
			r.methods[m.SubjectID] = m
		}
	}
	for _, a := range accounts {
		if a.Active {
			r.active[a.ID] = true
		}
	}
	return r
}

// ResolveItem resolves a role for a sold item
func (r *AccountResolver) ResolveItem(itemID uuid.UUID, role AccountRole) Resolution {
	return r.resolve(r.items[itemID], role)
}

// ResolvePaymentMethod resolves a role for a payment method
func (r *AccountResolver) ResolvePaymentMethod(methodID uuid.UUID, role AccountRole) Resolution {
	return r.resolve(r.methods[methodID], role)
}

func (r *AccountResolver) resolve(m *AccountMapping, role AccountRole) Resolution {
	if id, ok := m.AccountFor(role); ok && r.active[id] {
		return Resolved(id)
	}
	if id, ok := r.defaults[role]; ok && id != uuid.Nil && r.active[id] {
		return UsingDefault(id)
	}
	return Unresolved()
}

// CandidateAccountIDs lists every account the resolver may return, so callers
// can load exactly those accounts from the chart.
func CandidateAccountIDs(mappings []AccountMapping, defaults Defaults) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, m := range mappings {
		for _, id := range m.Accounts {
			add(id)
		}
	}
	for _, id := range defaults {
		add(id)
	}
	return ids
}
