package models

import "github.com/shopspring/decimal"

// User is the single active account of a store.
type User struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Balance          decimal.Decimal `json:"balance"`
	LotteriesCreated int             `json:"lotteryCreated"`
	LotteriesWon     int             `json:"lotteryWon"`
	WalletAddress    string          `json:"walletAddress,omitempty"`
}

// LeaderboardEntry is one row of the winners board.
type LeaderboardEntry struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	Username     string          `json:"username"`
	Avatar       string          `json:"avatar,omitempty"`
	Winnings     decimal.Decimal `json:"winnings"`
	LotteriesWon int             `json:"lotteryWon"`
}
