package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/parcelbay/parcelbay/internal/clock"
	"github.com/parcelbay/parcelbay/internal/wallet/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Wallet{}, &domain.Transaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	return svc, db
}

func balanceInvariant(t *testing.T, db *gorm.DB, walletID snowflake.ID) {
	t.Helper()
	var wallet domain.Wallet
	require.NoError(t, db.First(&wallet, "id = ?", walletID).Error)

	var sum int64
	require.NoError(t, db.Model(&domain.Transaction{}).
		Where("wallet_id = ? AND status = ?", walletID, domain.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)

	assert.Equal(t, sum, wallet.Balance, "balance must equal the sum of COMPLETED transactions")
}

func TestEnsureWalletIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureWallet(ctx, 42)
	require.NoError(t, err)
	second, err := svc.EnsureWallet(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(0), first.Balance)
}

func TestDepositIncreasesBalanceAndWritesLedger(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Deposit(ctx, 42, 5000, "top up")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), txn.Amount)
	assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)

	wallet, err := svc.GetByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), wallet.Balance)
	balanceInvariant(t, db, wallet.ID)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Deposit(context.Background(), 42, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = svc.Deposit(context.Background(), 42, -10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDebitTxInsufficientBalance(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, 42, 500, "top up")
	require.NoError(t, err)
	wallet, err := svc.GetByOwner(ctx, 42)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, debitErr := svc.DebitTx(ctx, tx, wallet.ID, 700, domain.TransactionTypePayment, nil, "")
		return debitErr
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing partially applied.
	wallet, err = svc.GetByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Balance)
	balanceInvariant(t, db, wallet.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Transaction{}).
		Where("wallet_id = ? AND type = ?", wallet.ID, domain.TransactionTypePayment).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDebitThenCreditRoundTrip(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, 42, 5000, "top up")
	require.NoError(t, err)
	wallet, err := svc.GetByOwner(ctx, 42)
	require.NoError(t, err)

	shipmentID := snowflake.ID(99)
	err = db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.DebitTx(ctx, tx, wallet.ID, 3200, domain.TransactionTypePayment, &shipmentID, "shipment payment")
		return txErr
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.CreditTx(ctx, tx, wallet.ID, 3200, domain.TransactionTypeRefund, &shipmentID, "refund")
		return txErr
	})
	require.NoError(t, err)

	wallet, err = svc.GetByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), wallet.Balance)
	balanceInvariant(t, db, wallet.ID)

	txns, err := svc.ListTransactions(ctx, wallet.ID, 10)
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestDebitTxUnknownWallet(t *testing.T) {
	svc, db := newTestService(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.DebitTx(context.Background(), tx, 12345, 100, domain.TransactionTypePayment, nil, "")
		return txErr
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
