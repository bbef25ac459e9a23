package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Treasury workflow errors. All of these are recoverable: the caller is
// expected to correct the input or the configuration and retry.
var (
	// ErrConfigurationDisabled indicates the relevant feature toggle is off
	// for this institution (e.g. cash operations with cashEnabled=false).
	ErrConfigurationDisabled = errors.New("feature is disabled by treasury configuration")

	// ErrInsufficientFunds indicates a debit would drive the source balance
	// below its allowed floor.
	ErrInsufficientFunds = errors.New("insufficient funds on source")

	// ErrBalanceCapExceeded indicates a cash desk inbound adjustment would
	// exceed the configured maximum desk balance.
	ErrBalanceCapExceeded = errors.New("cash desk balance cap exceeded")

	// ErrInvalidStateTransition indicates the batch/line/session is not in a
	// status that permits the requested action.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrSelfApprovalNotAllowed indicates the approver created the batch and
	// self approval is disabled.
	ErrSelfApprovalNotAllowed = errors.New("self approval is not allowed")

	// ErrApprovalRequiredForCancellation indicates a pending batch may only be
	// cancelled through the approval chain.
	ErrApprovalRequiredForCancellation = errors.New("cancellation requires approval")

	// ErrUnapprovedLinesRemain indicates execution was attempted while lines
	// flagged for approval are still unapproved.
	ErrUnapprovedLinesRemain = errors.New("unapproved payment lines remain")

	// ErrPaymentMethodDisabled indicates the batch payment method is switched
	// off in the treasury configuration.
	ErrPaymentMethodDisabled = errors.New("payment method is disabled")

	// ErrMissingBeneficiaryDetails indicates a non-cash batch has lines with
	// no payee name or ID while beneficiary details are required.
	ErrMissingBeneficiaryDetails = errors.New("beneficiary details missing on payment lines")

	// ErrProofRequired indicates execution proof is required but no proof
	// reference was supplied.
	ErrProofRequired = errors.New("execution proof reference required")

	// ErrSessionAlreadyOpen indicates the cash desk already has an open session.
	ErrSessionAlreadyOpen = errors.New("cash desk session already open")

	// ErrNoOpenSession indicates a cash operation requires an open session and
	// none exists.
	ErrNoOpenSession = errors.New("no open cash desk session")

	// ErrReconciliationDisabled indicates statement import or matching was
	// attempted with reconciliationEnabled=false.
	ErrReconciliationDisabled = errors.New("reconciliation is disabled")

	// ErrAmbiguousMatch indicates more than one candidate tied at or above the
	// auto-confirm threshold; a human has to decide.
	ErrAmbiguousMatch = errors.New("ambiguous reconciliation match")

	// ErrSourceNotActive indicates the funding source is locked or retired.
	ErrSourceNotActive = errors.New("funding source is not active")
)
