package inventory

import "github.com/erp/settlement/internal/domain/shared"

// ErrStockRecordMissing means a recipe points at a component that has no stock
// record at its location. Depletion fails hard on it.
var ErrStockRecordMissing = shared.NewConfigurationError("STOCK_RECORD_MISSING", "No stock record exists for a recipe component")
