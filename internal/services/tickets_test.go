package services

import (
	"testing"
	"time"

	"cryptolotto/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketsOf(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	open := activeLottery("open", 100, 10, now.Add(time.Hour))
	open.TicketPrice = decimal.RequireFromString("2.5")
	won := activeLottery("won", 500, 50, now.Add(-time.Hour))
	won.Status = models.LotteryStatusCompleted
	won.WinnerIDs = []string{"u1"}
	lost := activeLottery("lost", 300, 30, now.Add(-time.Hour))
	lost.Status = models.LotteryStatusCompleted
	lost.WinnerIDs = []string{"someone-else"}
	called := activeLottery("called", 0, 0, now.Add(time.Hour))
	called.Status = models.LotteryStatusCancelled
	lotteries := []models.Lottery{open, won, lost, called}

	purchase := func(id, userID, lotteryID string, amount int64) models.Transaction {
		return models.Transaction{
			ID:        id,
			UserID:    userID,
			Type:      models.TransactionTicketPurchase,
			Amount:    decimal.NewFromInt(amount),
			Status:    models.TransactionCompleted,
			Timestamp: now,
			LotteryID: lotteryID,
		}
	}
	txs := []models.Transaction{
		purchase("t1", "u1", "open", 5),
		{ID: "d1", UserID: "u1", Type: models.TransactionDeposit, Amount: decimal.NewFromInt(50)},
		purchase("t2", "u1", "won", 3),
		purchase("t3", "u2", "open", 10),
		purchase("t4", "u1", "lost", 2),
		purchase("t5", "u1", "gone", 1),
		purchase("t6", "u1", "called", 4),
	}

	entries := TicketsOf(txs, lotteries, "u1")
	require.Len(t, entries, 4)

	got := make(map[string]TicketStatus, len(entries))
	order := make([]string, len(entries))
	for i, e := range entries {
		got[e.TransactionID] = e.Status
		order[i] = e.TransactionID
	}
	assert.Equal(t, []string{"t1", "t2", "t4", "t6"}, order)
	assert.Equal(t, map[string]TicketStatus{
		"t1": TicketActive,
		"t2": TicketWon,
		"t4": TicketLost,
		"t6": TicketCancelled,
	}, got)

	first := entries[0]
	assert.Equal(t, "Lottery open", first.Title)
	assert.Equal(t, int64(2), first.Quantity)
	assert.True(t, first.PrizePool.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, open.EndDate, first.EndDate)
	assert.Equal(t, now, first.PurchasedAt)

	t.Run("no purchases yields an empty list", func(t *testing.T) {
		entries := TicketsOf(txs, lotteries, "nobody")
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("filter by status", func(t *testing.T) {
		assert.Len(t, FilterTickets(entries, ""), 4)
		assert.Len(t, FilterTickets(entries, models.FilterAll), 4)

		active := FilterTickets(entries, string(TicketActive))
		require.Len(t, active, 1)
		assert.Equal(t, "t1", active[0].TransactionID)

		wonOnly := FilterTickets(entries, string(TicketWon))
		require.Len(t, wonOnly, 1)
		assert.Equal(t, "t2", wonOnly[0].TransactionID)

		assert.Empty(t, FilterTickets(entries, "bogus"))
	})

	t.Run("does not alias the catalog", func(t *testing.T) {
		catalog := []models.Lottery{open.Clone()}
		entries := TicketsOf(txs[:1], catalog, "u1")
		catalog[0].Status = models.LotteryStatusCompleted
		assert.Equal(t, TicketActive, entries[0].Status)
	})
}
