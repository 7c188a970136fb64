package kv

import "context"

// Collection keys used by the application. Each key holds an independent
// JSON array of entities; there is no relational schema at this level.
const (
	KeyProjects    = "projects"
	KeyExpenses    = "expenses"
	KeyPayments    = "payments"
	KeyLabor       = "labor"
	KeySuppliers   = "suppliers"
	KeyAssignments = "assignments"
)

// Keys lists every collection key, in snapshot/export order.
func Keys() []string {
	return []string{
		KeyProjects,
		KeyExpenses,
		KeyPayments,
		KeyLabor,
		KeySuppliers,
		KeyAssignments,
	}
}

// KnownKey reports whether key names one of the collections above.
func KnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Backing is the raw persistence collaborator behind a Store.
// Implementations live in kv/memory, kv/file and storage (SQLite).
type Backing interface {
	// ReadRaw returns the serialized value stored under key.
	// ok is false when the key is absent.
	ReadRaw(ctx context.Context, key string) (data []byte, ok bool, err error)

	// WriteRaw replaces the value stored under key entirely.
	WriteRaw(ctx context.Context, key string, data []byte) error
}
