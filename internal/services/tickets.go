package services

import (
	"time"

	"cryptolotto/internal/models"

	"github.com/shopspring/decimal"
)

// TicketStatus is how a purchased entry stands against its lottery's outcome.
type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketWon       TicketStatus = "won"
	TicketLost      TicketStatus = "lost"
	TicketCancelled TicketStatus = "cancelled"
)

// TicketEntry is one ticket purchase joined with the lottery it entered.
type TicketEntry struct {
	TransactionID string          `json:"transactionId"`
	LotteryID     string          `json:"lotteryId"`
	Title         string          `json:"title"`
	Quantity      int64           `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	PurchasedAt   time.Time       `json:"purchasedAt"`
	Status        TicketStatus    `json:"status"`
	EndDate       time.Time       `json:"endDate"`
	PrizePool     decimal.Decimal `json:"prizePool"`
}

func ticketStatusOf(l models.Lottery, userID string) TicketStatus {
	switch l.Status {
	case models.LotteryStatusActive:
		return TicketActive
	case models.LotteryStatusCancelled:
		return TicketCancelled
	}
	if l.HasWinner(userID) {
		return TicketWon
	}
	return TicketLost
}

// TicketsOf lists userID's ticket purchases in ledger order.
// Purchases whose lottery is no longer in the catalog are skipped.
func TicketsOf(txs []models.Transaction, lotteries []models.Lottery, userID string) []TicketEntry {
	byID := make(map[string]models.Lottery, len(lotteries))
	for _, l := range lotteries {
		byID[l.ID] = l
	}

	out := make([]TicketEntry, 0)
	for _, tx := range txs {
		if tx.Type != models.TransactionTicketPurchase || tx.UserID != userID {
			continue
		}
		l, ok := byID[tx.LotteryID]
		if !ok {
			continue
		}
		var quantity int64
		if l.TicketPrice.IsPositive() {
			quantity = tx.Amount.Div(l.TicketPrice).IntPart()
		}
		out = append(out, TicketEntry{
			TransactionID: tx.ID,
			LotteryID:     l.ID,
			Title:         l.Title,
			Quantity:      quantity,
			Amount:        tx.Amount,
			PurchasedAt:   tx.Timestamp,
			Status:        ticketStatusOf(l, userID),
			EndDate:       l.EndDate,
			PrizePool:     l.PrizePool,
		})
	}
	return out
}

// FilterTickets keeps entries with the given status; empty or "all" keeps everything.
func FilterTickets(entries []TicketEntry, status string) []TicketEntry {
	out := make([]TicketEntry, 0, len(entries))
	for _, e := range entries {
		if matchesFilter(status, string(e.Status)) {
			out = append(out, e)
		}
	}
	return out
}
