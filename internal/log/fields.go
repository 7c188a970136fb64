package log

// Standard field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldRemoteAddr = "remote_addr"

	FieldKey         = "key"
	FieldOp          = "op"
	FieldEntityID    = "entity_id"
	FieldProjectID   = "project_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldPaymentType = "payment_type"
	FieldBacking     = "backing"
	FieldSnapshot    = "snapshot"
)

// Component names used across the application
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentLedger  = "ledger"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentConfig  = "config"
)
