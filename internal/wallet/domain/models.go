// Package domain contains the wallet and its transaction ledger.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypePayment TransactionType = "PAYMENT"
	TransactionTypeRefund  TransactionType = "REFUND"
	TransactionTypeAdjust  TransactionType = "ADJUST"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Wallet caches the sum of COMPLETED transactions. The ledger is the
// source of truth; Balance is only ever updated in the same transaction
// as a ledger insert.
type Wallet struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	OwnerID   snowflake.ID `gorm:"not null;uniqueIndex"`
	Balance   int64        `gorm:"not null;default:0"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Wallet) TableName() string { return "wallets" }

// Transaction is one append-only ledger row. Amount is signed: debits
// are negative, credits positive.
type Transaction struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	WalletID   snowflake.ID      `gorm:"not null;index"`
	Amount     int64             `gorm:"not null"`
	Type       TransactionType   `gorm:"type:text;not null"`
	Status     TransactionStatus `gorm:"type:text;not null"`
	ShipmentID *snowflake.ID     `gorm:"index"`
	Note       string            `gorm:"type:text"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "wallet_transactions" }

// Service mediates every balance mutation. DebitTx and CreditTx take
// the caller's transaction handle so the ledger write, the balance
// update, and the caller's own rows commit or roll back together.
type Service interface {
	EnsureWallet(ctx context.Context, ownerID snowflake.ID) (*Wallet, error)
	GetByOwner(ctx context.Context, ownerID snowflake.ID) (*Wallet, error)
	Deposit(ctx context.Context, ownerID snowflake.ID, amount int64, note string) (*Transaction, error)
	ListTransactions(ctx context.Context, walletID snowflake.ID, limit int) ([]Transaction, error)
	DebitTx(ctx context.Context, tx *gorm.DB, walletID snowflake.ID, amount int64, txType TransactionType, shipmentID *snowflake.ID, note string) (*Transaction, error)
	CreditTx(ctx context.Context, tx *gorm.DB, walletID snowflake.ID, amount int64, txType TransactionType, shipmentID *snowflake.ID, note string) (*Transaction, error)
}

var (
	ErrNotFound            = errors.New("wallet_not_found")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrInvalidOwner        = errors.New("invalid_owner")
)
