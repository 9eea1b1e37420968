package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/clock"
	"github.com/parcelbay/parcelbay/internal/wallet/domain"
	"github.com/parcelbay/parcelbay/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("wallet.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) EnsureWallet(ctx context.Context, ownerID snowflake.ID) (*domain.Wallet, error) {
	if ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	wallet, err := s.findByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	now := s.clock.Now()
	created := &domain.Wallet{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Lost the create race; the winner's row is the wallet.
			return s.GetByOwner(ctx, ownerID)
		}
		return nil, err
	}
	return created, nil
}

func (s *Service) GetByOwner(ctx context.Context, ownerID snowflake.ID) (*domain.Wallet, error) {
	wallet, err := s.findByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.ErrNotFound
	}
	return wallet, nil
}

func (s *Service) Deposit(ctx context.Context, ownerID snowflake.ID, amount int64, note string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	wallet, err := s.EnsureWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		txn, txErr = s.CreditTx(ctx, tx, wallet.ID, amount, domain.TransactionTypeDeposit, nil, note)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, walletID snowflake.ID, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	var txns []domain.Transaction
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("wallet_id = ?", walletID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// DebitTx decrements the balance and appends a COMPLETED ledger row in
// the caller's transaction. The decrement is conditional on sufficient
// balance so concurrent debits on one wallet cannot lose updates.
func (s *Service) DebitTx(
	ctx context.Context,
	tx *gorm.DB,
	walletID snowflake.ID,
	amount int64,
	txType domain.TransactionType,
	shipmentID *snowflake.ID,
	note string,
) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	result := tx.WithContext(ctx).Exec(
		`UPDATE wallets SET balance = balance - ?, updated_at = ? WHERE id = ? AND balance >= ?`,
		amount,
		now,
		walletID,
		amount,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := s.walletExists(ctx, tx, walletID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrInsufficientBalance
	}

	return s.insertTransaction(ctx, tx, domain.Transaction{
		ID:         s.genID.Generate(),
		WalletID:   walletID,
		Amount:     -amount,
		Type:       txType,
		Status:     domain.TransactionStatusCompleted,
		ShipmentID: shipmentID,
		Note:       strings.TrimSpace(note),
		CreatedAt:  now,
	})
}

// CreditTx increments the balance and appends a COMPLETED ledger row in
// the caller's transaction.
func (s *Service) CreditTx(
	ctx context.Context,
	tx *gorm.DB,
	walletID snowflake.ID,
	amount int64,
	txType domain.TransactionType,
	shipmentID *snowflake.ID,
	note string,
) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	result := tx.WithContext(ctx).Exec(
		`UPDATE wallets SET balance = balance + ?, updated_at = ? WHERE id = ?`,
		amount,
		now,
		walletID,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	return s.insertTransaction(ctx, tx, domain.Transaction{
		ID:         s.genID.Generate(),
		WalletID:   walletID,
		Amount:     amount,
		Type:       txType,
		Status:     domain.TransactionStatusCompleted,
		ShipmentID: shipmentID,
		Note:       strings.TrimSpace(note),
		CreatedAt:  now,
	})
}

func (s *Service) insertTransaction(ctx context.Context, tx *gorm.DB, txn domain.Transaction) (*domain.Transaction, error) {
	if err := tx.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *Service) findByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := db.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("owner_id = ?", ownerID).
		First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

func (s *Service) walletExists(ctx context.Context, tx *gorm.DB, walletID snowflake.ID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("id = ?", walletID).
		Count(&count).Error
	return count > 0, err
}
