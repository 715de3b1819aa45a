package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldHousehold   = "household_id"
	FieldUser        = "user_id"
	FieldTransaction = "transaction_id"
	FieldSettlement  = "settlement_id"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldError       = "error"
	FieldOperation   = "operation"
)

// Standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentBalance   = "balance"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentRecurring = "recurring"
)
