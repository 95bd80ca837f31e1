package services

import "github.com/shopspring/decimal"

// Fee shares taken out of a user-generated lottery's pool.
var (
	CreatorFeeRate  = decimal.RequireFromString("0.05")
	PlatformFeeRate = decimal.RequireFromString("0.05")
)

// DefaultQuoteTickets is assumed when a draft has no ticket cap.
const DefaultQuoteTickets = 100

// LotteryQuote is the creation form summary: what a sold-out lottery would pay.
type LotteryQuote struct {
	EstimatedPool  decimal.Decimal `json:"estimatedPool"`
	CreatorFee     decimal.Decimal `json:"creatorFee"`
	PlatformFee    decimal.Decimal `json:"platformFee"`
	FinalPrizePool decimal.Decimal `json:"finalPrizePool"`
}

// QuoteLottery estimates the pool for ticketPrice and maxTickets.
// A maxTickets of zero or less uses DefaultQuoteTickets.
func QuoteLottery(ticketPrice decimal.Decimal, maxTickets int) LotteryQuote {
	if maxTickets <= 0 {
		maxTickets = DefaultQuoteTickets
	}
	pool := ticketPrice.Mul(decimal.NewFromInt(int64(maxTickets)))
	creator := pool.Mul(CreatorFeeRate)
	platform := pool.Mul(PlatformFeeRate)
	return LotteryQuote{
		EstimatedPool:  pool,
		CreatorFee:     creator,
		PlatformFee:    platform,
		FinalPrizePool: pool.Sub(creator).Sub(platform),
	}
}
