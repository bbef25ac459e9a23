package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// stubConfigSvc hands the service under test a fixed policy.
type stubConfigSvc struct {
	cfg *domain.TreasuryConfiguration
}

func (s *stubConfigSvc) GetOrCreate(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error) {
	return s.cfg, nil
}

func (s *stubConfigSvc) Update(ctx context.Context, institutionID string, req dto.UpdateConfigRequest, userID string) (*domain.TreasuryConfiguration, error) {
	return s.cfg, nil
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// --- Mock ConfigRepository ---
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) FindActiveConfig(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error) {
	args := m.Called(ctx, institutionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryConfiguration), args.Error(1)
}

func (m *MockConfigRepository) SaveConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepository) UpdateConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepository) DeactivateOlderConfigs(ctx context.Context, institutionID string, keepConfigID string) (int, error) {
	args := m.Called(ctx, institutionID, keepConfigID)
	return args.Int(0), args.Error(1)
}

// --- Mock FundingSourceRepository ---
type MockFundingSourceRepository struct {
	mock.Mock
}

func (m *MockFundingSourceRepository) SaveSource(ctx context.Context, source domain.FundingSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *MockFundingSourceRepository) FindSourceByID(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error) {
	args := m.Called(ctx, institutionID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingSource), args.Error(1)
}

func (m *MockFundingSourceRepository) ListSources(ctx context.Context, institutionID string, filter portsrepo.ListSourcesFilter) ([]domain.FundingSource, int, error) {
	args := m.Called(ctx, institutionID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FundingSource), args.Int(1), args.Error(2)
}

func (m *MockFundingSourceRepository) UpdateSourceState(ctx context.Context, institutionID string, sourceID string, state domain.SourceState, userID string, now time.Time) error {
	args := m.Called(ctx, institutionID, sourceID, state, userID, now)
	return args.Error(0)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.CashDeskSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindOpenSessionBySource(ctx context.Context, institutionID string, sourceID string) (*domain.CashDeskSession, error) {
	args := m.Called(ctx, institutionID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDeskSession), args.Error(1)
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, institutionID string, sessionID string) (*domain.CashDeskSession, error) {
	args := m.Called(ctx, institutionID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashDeskSession), args.Error(1)
}

func (m *MockSessionRepository) CloseSession(ctx context.Context, session domain.CashDeskSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, institutionID string, sourceID string, limit int, offset int) ([]domain.CashDeskSession, int, error) {
	args := m.Called(ctx, institutionID, sourceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CashDeskSession), args.Int(1), args.Error(2)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) RecordTransaction(ctx context.Context, txn domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
	args := m.Called(ctx, txn, guard)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordTransfer(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction, outGuard portsrepo.BalanceGuard, inGuard portsrepo.BalanceGuard) error {
	args := m.Called(ctx, out, in, outGuard, inGuard)
	return args.Error(0)
}

func (m *MockLedgerRepository) PostPendingTransaction(ctx context.Context, institutionID string, transactionID string, approverUserID string, guard portsrepo.BalanceGuard, now time.Time) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, transactionID, approverUserID, guard, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, institutionID string, transactionID string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, institutionID string, filter portsrepo.ListTransactionsFilter) ([]domain.TreasuryTransaction, int, error) {
	args := m.Called(ctx, institutionID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TreasuryTransaction), args.Int(1), args.Error(2)
}

func (m *MockLedgerRepository) SumSessionMovements(ctx context.Context, institutionID string, sessionID string) (decimal.Decimal, error) {
	args := m.Called(ctx, institutionID, sessionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SaveBatch(ctx context.Context, batch domain.PaymentBatch, lines []domain.PaymentLine) error {
	args := m.Called(ctx, batch, lines)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindBatchByID(ctx context.Context, institutionID string, batchID string) (*domain.PaymentBatch, error) {
	args := m.Called(ctx, institutionID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentBatch), args.Error(1)
}

func (m *MockPaymentRepository) ListBatches(ctx context.Context, institutionID string, filter portsrepo.ListBatchesFilter) ([]domain.PaymentBatch, int, error) {
	args := m.Called(ctx, institutionID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PaymentBatch), args.Int(1), args.Error(2)
}

func (m *MockPaymentRepository) FindLinesByBatch(ctx context.Context, institutionID string, batchID string) ([]domain.PaymentLine, error) {
	args := m.Called(ctx, institutionID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentLine), args.Error(1)
}

func (m *MockPaymentRepository) FindLineByID(ctx context.Context, institutionID string, lineID string) (*domain.PaymentLine, error) {
	args := m.Called(ctx, institutionID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentLine), args.Error(1)
}

func (m *MockPaymentRepository) SaveLine(ctx context.Context, line domain.PaymentLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateBatch(ctx context.Context, batch domain.PaymentBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateLine(ctx context.Context, line domain.PaymentLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockPaymentRepository) ExecuteBatch(ctx context.Context, batch domain.PaymentBatch, paidLines []domain.PaymentLine, txns []domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
	args := m.Called(ctx, batch, paidLines, txns, guard)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateLineWithTransaction(ctx context.Context, line domain.PaymentLine, txn domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
	args := m.Called(ctx, line, txn, guard)
	return args.Error(0)
}

// --- Mock StatementRepository ---
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) SaveStatement(ctx context.Context, stmt domain.BankStatement, lines []domain.BankStatementLine) error {
	args := m.Called(ctx, stmt, lines)
	return args.Error(0)
}

func (m *MockStatementRepository) FindStatementByID(ctx context.Context, institutionID string, statementID string) (*domain.BankStatement, error) {
	args := m.Called(ctx, institutionID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) ListStatements(ctx context.Context, institutionID string, bankAccountID string, limit int, offset int) ([]domain.BankStatement, int, error) {
	args := m.Called(ctx, institutionID, bankAccountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BankStatement), args.Int(1), args.Error(2)
}

func (m *MockStatementRepository) ListStatementLines(ctx context.Context, institutionID string, statementID string, limit int, offset int) ([]domain.BankStatementLine, int, error) {
	args := m.Called(ctx, institutionID, statementID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Int(1), args.Error(2)
}

func (m *MockStatementRepository) FindUnmatchedLines(ctx context.Context, institutionID string, statementID string) ([]domain.BankStatementLine, error) {
	args := m.Called(ctx, institutionID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) FindStatementLineByID(ctx context.Context, institutionID string, lineID string) (*domain.BankStatementLine, error) {
	args := m.Called(ctx, institutionID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) FindStatementsByStatus(ctx context.Context, status domain.StatementStatus, limit int) ([]domain.BankStatement, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) UpdateStatementStatus(ctx context.Context, institutionID string, statementID string, status domain.StatementStatus, userID string, now time.Time) error {
	args := m.Called(ctx, institutionID, statementID, status, userID, now)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveMatches(ctx context.Context, matches []domain.ReconciliationMatch) error {
	args := m.Called(ctx, matches)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindMatchByID(ctx context.Context, institutionID string, matchID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, institutionID, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) ListMatchesByLine(ctx context.Context, institutionID string, statementLineID string) ([]domain.ReconciliationMatch, error) {
	args := m.Called(ctx, institutionID, statementLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) ListMatchesByStatement(ctx context.Context, institutionID string, statementID string) ([]domain.ReconciliationMatch, error) {
	args := m.Called(ctx, institutionID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) ConfirmMatch(ctx context.Context, match domain.ReconciliationMatch, confirmedBy string, now time.Time) error {
	args := m.Called(ctx, match, confirmedBy, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) RejectMatch(ctx context.Context, match domain.ReconciliationMatch, reason string, userID string, now time.Time) error {
	args := m.Called(ctx, match, reason, userID, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindPaymentLinesByReference(ctx context.Context, institutionID string, ref string) ([]domain.PaymentLine, error) {
	args := m.Called(ctx, institutionID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentLine), args.Error(1)
}

func (m *MockReconciliationRepository) FindTransactionsByReference(ctx context.Context, institutionID string, ref string) ([]domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TreasuryTransaction), args.Error(1)
}

func (m *MockReconciliationRepository) FindCandidatePaymentLines(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, from time.Time, to time.Time) ([]domain.PaymentLine, error) {
	args := m.Called(ctx, institutionID, bankAccountID, amount, currency, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentLine), args.Error(1)
}

func (m *MockReconciliationRepository) FindCandidateTransactions(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, direction domain.Direction, from time.Time, to time.Time) ([]domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, bankAccountID, amount, currency, direction, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TreasuryTransaction), args.Error(1)
}
