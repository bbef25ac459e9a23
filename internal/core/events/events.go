package events

import "context"

// EventType names a treasury lifecycle event delivered to the notification
// sink. Delivery is fire-and-forget; the consumer lives outside this service.
type EventType string

const (
	ConfigUpdated EventType = "TREASURY_CONFIG_UPDATED"

	SourceCreated EventType = "FUNDING_SOURCE_CREATED"
	SourceRetired EventType = "FUNDING_SOURCE_RETIRED"
	SourceLocked  EventType = "FUNDING_SOURCE_LOCKED"

	SessionOpened EventType = "CASHDESK_SESSION_OPENED"
	SessionClosed EventType = "CASHDESK_SESSION_CLOSED"

	CashIn           EventType = "CASH_IN"
	CashOut          EventType = "CASH_OUT"
	TransferToBank   EventType = "TRANSFER_TO_BANK"
	WithdrawToDesk   EventType = "WITHDRAW_TO_CASHDESK"
	TransactionAdded EventType = "TREASURY_TRANSACTION_RECORDED"

	BatchCreated   EventType = "BATCH_CREATED"
	BatchSubmitted EventType = "BATCH_SUBMITTED"
	BatchApproved  EventType = "BATCH_APPROVED"
	BatchExecuted  EventType = "BATCH_EXECUTED"
	BatchCancelled EventType = "BATCH_CANCELLED"

	LineApproved EventType = "PAYMENT_LINE_APPROVED"
	LinePaid     EventType = "PAYMENT_LINE_PAID"
	LineFailed   EventType = "PAYMENT_LINE_FAILED"

	StatementImported        EventType = "STATEMENT_IMPORTED"
	StatementArchived        EventType = "STATEMENT_ARCHIVED"
	ReconciliationSuggested  EventType = "RECONCILIATION_SUGGESTED"
	ReconciliationConfirmed  EventType = "RECONCILIATION_CONFIRMED"
	ReconciliationRejected   EventType = "RECONCILIATION_REJECTED"
)

// Emitter is the notification port. Implementations must not block request
// handling and must never fail the calling operation.
type Emitter interface {
	Emit(ctx context.Context, institutionID string, eventType EventType, payload map[string]any)
}

// Nop discards every event. Used when no sink is configured.
type Nop struct{}

func (Nop) Emit(context.Context, string, EventType, map[string]any) {}
