package services

import (
	"time"

	"cryptolotto/internal/models"

	"github.com/shopspring/decimal"
)

// Seed is the initial content of a store.
type Seed struct {
	User          *models.User
	Lotteries     []models.Lottery
	Transactions  []models.Transaction
	Notifications []models.Notification
	Leaderboard   []models.LeaderboardEntry
}

const (
	DemoUserID   = "user1"
	DemoUsername = "demoUser"
)

func intPtr(v int) *int { return &v }

// DefaultSeed returns the demo dataset with every date relative to now.
func DefaultSeed(now time.Time) Seed {
	user := &models.User{
		ID:               DemoUserID,
		Username:         DemoUsername,
		Balance:          decimal.NewFromInt(50),
		LotteriesCreated: 2,
		LotteriesWon:     3,
		WalletAddress:    "0x9b2f4c1e7a3d5b8f0c6e2a4d7b1f3e5c8a0d2b4f",
	}

	lotteries := []models.Lottery{
		{
			ID:          "lottery1",
			Title:       "Daily USDT Draw",
			Description: "Enter the daily draw to win USDT!",
			Category:    "daily",
			Type:        models.LotteryTypeStandard,
			Status:      models.LotteryStatusActive,
			Visibility:  models.VisibilityPublic,
			CreatorID:   "admin",
			CreatorName: "Admin",
			PrizePool:   decimal.NewFromInt(100),
			TicketPrice: decimal.NewFromInt(5),
			TicketsSold: 20,
			MaxTickets:  intPtr(100),
			StartDate:   now.Add(-2 * time.Hour),
			EndDate:     now.Add(6 * time.Hour),
			WinnerIDs:   []string{},
		},
		{
			ID:          "lottery2",
			Title:       "Weekly Mega Jackpot",
			Description: "The biggest pot of the week, drawn every Sunday.",
			Category:    "weekly",
			Type:        models.LotteryTypeStandard,
			Status:      models.LotteryStatusActive,
			Visibility:  models.VisibilityPublic,
			CreatorID:   "admin",
			CreatorName: "Admin",
			PrizePool:   decimal.NewFromInt(2500),
			TicketPrice: decimal.NewFromInt(10),
			TicketsSold: 250,
			MaxTickets:  intPtr(1000),
			StartDate:   now.Add(-3 * 24 * time.Hour),
			EndDate:     now.Add(4 * 24 * time.Hour),
			WinnerIDs:   []string{},
		},
		{
			ID:          "lottery3",
			Title:       "Flash Hour",
			Description: "Quick draw, closes within the hour.",
			Category:    "daily",
			Type:        models.LotteryTypeStandard,
			Status:      models.LotteryStatusActive,
			Visibility:  models.VisibilityPublic,
			PrizePool:   decimal.RequireFromString("37.5"),
			TicketPrice: decimal.RequireFromString("2.5"),
			TicketsSold: 15,
			StartDate:   now.Add(-23 * time.Hour),
			EndDate:     now.Add(45 * time.Minute),
			WinnerIDs:   []string{},
		},
		{
			ID:          "lottery4",
			Title:       "Community Pizza Fund",
			Description: "Winner buys pizza for the next meetup.",
			Category:    "custom",
			Type:        models.LotteryTypeUserGenerated,
			Status:      models.LotteryStatusActive,
			Visibility:  models.VisibilityPrivate,
			CreatorID:   "user42",
			CreatorName: "satoshiFan",
			PrizePool:   decimal.NewFromInt(60),
			TicketPrice: decimal.NewFromInt(3),
			TicketsSold: 20,
			MaxTickets:  intPtr(50),
			StartDate:   now.Add(-24 * time.Hour),
			EndDate:     now.Add(2 * 24 * time.Hour),
			WinnerIDs:   []string{},
		},
		{
			ID:          "lottery5",
			Title:       "Monthly Moonshot",
			Description: "Last month's big draw.",
			Category:    "monthly",
			Type:        models.LotteryTypeStandard,
			Status:      models.LotteryStatusCompleted,
			Visibility:  models.VisibilityPublic,
			CreatorID:   "admin",
			CreatorName: "Admin",
			PrizePool:   decimal.NewFromInt(5000),
			TicketPrice: decimal.NewFromInt(20),
			TicketsSold: 250,
			MaxTickets:  intPtr(500),
			StartDate:   now.Add(-40 * 24 * time.Hour),
			EndDate:     now.Add(-10 * 24 * time.Hour),
			WinnerIDs:   []string{DemoUserID},
		},
		{
			ID:          "lottery6",
			Title:       "Retired Raffle",
			Description: "Cancelled before the draw.",
			Category:    "custom",
			Type:        models.LotteryTypeUserGenerated,
			Status:      models.LotteryStatusCancelled,
			Visibility:  models.VisibilityPublic,
			CreatorID:   DemoUserID,
			CreatorName: DemoUsername,
			PrizePool:   decimal.NewFromInt(12),
			TicketPrice: decimal.NewFromInt(4),
			TicketsSold: 3,
			MaxTickets:  intPtr(20),
			StartDate:   now.Add(-5 * 24 * time.Hour),
			EndDate:     now.Add(-1 * 24 * time.Hour),
			WinnerIDs:   []string{},
		},
	}

	transactions := []models.Transaction{
		{
			ID:          "tx1",
			UserID:      DemoUserID,
			Type:        models.TransactionTicketPurchase,
			Amount:      decimal.NewFromInt(5),
			Status:      models.TransactionCompleted,
			Timestamp:   now.Add(-time.Hour),
			Description: "Purchased 1 ticket for Daily USDT Draw",
			LotteryID:   "lottery1",
		},
		{
			ID:          "tx0",
			UserID:      DemoUserID,
			Type:        models.TransactionDeposit,
			Amount:      decimal.NewFromInt(55),
			Status:      models.TransactionCompleted,
			Timestamp:   now.Add(-26 * time.Hour),
			Description: "Wallet deposit",
			Hash:        "0x4be1a09c...77d2",
		},
	}

	notifications := []models.Notification{
		{
			ID:        "notif1",
			UserID:    DemoUserID,
			Type:      models.NotificationTicketPurchase,
			Message:   "You successfully entered Daily USDT Draw",
			Timestamp: now.Add(-time.Hour),
			LotteryID: "lottery1",
		},
	}

	leaderboard := []models.LeaderboardEntry{
		{ID: "1", Username: "winner123", Avatar: "/avatars/user1.png", Winnings: decimal.NewFromInt(250), LotteriesWon: 1},
		{ID: "2", Username: "cryptoQueen", Winnings: decimal.NewFromInt(5000), LotteriesWon: 4},
		{ID: "3", Username: "hodlr", Winnings: decimal.RequireFromString("812.5"), LotteriesWon: 2},
		{ID: "4", Username: "satoshiFan", Winnings: decimal.NewFromInt(60), LotteriesWon: 1},
		{ID: "5", Username: "luckyLarry", Winnings: decimal.NewFromInt(1200), LotteriesWon: 3},
	}

	return Seed{
		User:          user,
		Lotteries:     lotteries,
		Transactions:  transactions,
		Notifications: notifications,
		Leaderboard:   leaderboard,
	}
}
