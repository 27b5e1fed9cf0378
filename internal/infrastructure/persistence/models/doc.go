// Package models holds the GORM table mappings of the settlement service.
// Domain types stay free of ORM tags; each model converts to and from its
// domain counterpart with ToDomain and a ModelFromDomain constructor.
//
// Files:
//   - base.go: shared identity and version columns
//   - pos.go: orders, lines, payments and the POS directories
//   - inventory.go: stock records, movements and recipes
//   - ledger.go: chart of accounts, mappings, periods, numbering and journals
//   - outbox.go: transactional outbox rows
package models
