package repositories

import (
	"context"
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationRepository persists matches and serves the matcher's
// candidate queries. Candidate queries only ever return unreconciled records
// so a confirmed pairing is never proposed twice.
type ReconciliationRepository interface {
	// SaveMatches inserts a set of SUGGESTED matches.
	SaveMatches(ctx context.Context, matches []domain.ReconciliationMatch) error

	FindMatchByID(ctx context.Context, institutionID string, matchID string) (*domain.ReconciliationMatch, error)

	ListMatchesByLine(ctx context.Context, institutionID string, statementLineID string) ([]domain.ReconciliationMatch, error)

	ListMatchesByStatement(ctx context.Context, institutionID string, statementID string) ([]domain.ReconciliationMatch, error)

	// ConfirmMatch applies a confirmation as one atomic unit: the match
	// becomes CONFIRMED, the statement line is flagged matched, the matched
	// record (payment line or ledger entry) is stamped reconciled, and when
	// the record is a payment line the parent batch's reconciliation state is
	// rolled forward (EXECUTED -> PARTIALLY_RECONCILED -> RECONCILED).
	// Fails with apperrors.ErrDuplicate if the line already has a CONFIRMED
	// match.
	ConfirmMatch(ctx context.Context, match domain.ReconciliationMatch, confirmedBy string, now time.Time) error

	// RejectMatch flips a SUGGESTED match to REJECTED with the given reason.
	RejectMatch(ctx context.Context, match domain.ReconciliationMatch, reason string, userID string, now time.Time) error

	// Candidate queries for the matcher.

	// FindPaymentLinesByReference returns paid, unreconciled payment lines
	// whose external reference equals ref.
	FindPaymentLinesByReference(ctx context.Context, institutionID string, ref string) ([]domain.PaymentLine, error)

	// FindTransactionsByReference returns POSTED, unreconciled ledger entries
	// whose reference equals ref or whose notes contain it.
	FindTransactionsByReference(ctx context.Context, institutionID string, ref string) ([]domain.TreasuryTransaction, error)

	// FindCandidatePaymentLines returns paid, unreconciled lines with the
	// given amount and currency whose parent batch is paid from bankAccountID
	// and planned within [from, to].
	FindCandidatePaymentLines(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, from time.Time, to time.Time) ([]domain.PaymentLine, error)

	// FindCandidateTransactions returns POSTED, unreconciled ledger entries
	// on bankAccountID with the given amount, currency and direction dated
	// within [from, to].
	FindCandidateTransactions(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, direction domain.Direction, from time.Time, to time.Time) ([]domain.TreasuryTransaction, error)
}
