package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names what moved money in a ledger entry.
type TransactionType string

const (
	TransactionDeposit         TransactionType = "deposit"
	TransactionWithdrawal      TransactionType = "withdrawal"
	TransactionTicketPurchase  TransactionType = "ticket-purchase"
	TransactionLotteryCreation TransactionType = "lottery-creation"
	TransactionLotteryWin      TransactionType = "lottery-win"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

// Only completed is ever produced; the others mirror the ledger vocabulary of the wallet panel.
const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Description string            `json:"description"`
	LotteryID   string            `json:"lotteryId,omitempty"`
	Hash        string            `json:"hash,omitempty"`
}

// NotificationType names the event a notification reports.
type NotificationType string

const (
	NotificationTicketPurchase  NotificationType = "ticket-purchase"
	NotificationLotteryCreation NotificationType = "lottery-creation"
	NotificationSystem          NotificationType = "system"
)

// Notification is append-only apart from IsRead, which only flips from false to true.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	Timestamp time.Time        `json:"timestamp"`
	LotteryID string           `json:"lotteryId,omitempty"`
}
