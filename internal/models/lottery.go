package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotteryType distinguishes platform lotteries from the ones users create.
type LotteryType string

const (
	LotteryTypeStandard      LotteryType = "standard"
	LotteryTypeUserGenerated LotteryType = "user-generated"
)

// LotteryStatus is the lifecycle state of a lottery.
// active -> completed and active -> cancelled are the only transitions; both targets are terminal.
type LotteryStatus string

const (
	LotteryStatusActive    LotteryStatus = "active"
	LotteryStatusCompleted LotteryStatus = "completed"
	LotteryStatusCancelled LotteryStatus = "cancelled"
)

// Visibility controls whether a lottery is listed publicly.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// DefaultCategory is assigned to drafts that don't name a category.
const DefaultCategory = "custom"

// Lottery is a single entry of the lottery catalog.
// PrizePool and TicketsSold only grow, and TicketsSold never exceeds MaxTickets when a cap is set.
type Lottery struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        LotteryType     `json:"type"`
	Status      LotteryStatus   `json:"status"`
	Visibility  Visibility      `json:"visibility"`
	CreatorID   string          `json:"creatorId,omitempty"`
	CreatorName string          `json:"creatorName,omitempty"`
	PrizePool   decimal.Decimal `json:"prizePool"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
	TicketsSold int             `json:"ticketsSold"`
	MaxTickets  *int            `json:"maxTickets,omitempty"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	WinnerIDs   []string        `json:"winnerIds"`
}

// Clone returns a deep copy that shares nothing with l.
func (l Lottery) Clone() Lottery {
	c := l
	if l.MaxTickets != nil {
		m := *l.MaxTickets
		c.MaxTickets = &m
	}
	c.WinnerIDs = append([]string{}, l.WinnerIDs...)
	return c
}

// RemainingTickets reports how many tickets can still be sold and whether a cap exists at all.
func (l Lottery) RemainingTickets() (int, bool) {
	if l.MaxTickets == nil {
		return 0, false
	}
	return *l.MaxTickets - l.TicketsSold, true
}

// HasWinner reports whether userID is among the recorded winners.
func (l Lottery) HasWinner(userID string) bool {
	for _, id := range l.WinnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LotteryDraft is the partially specified record a user submits to create a lottery.
// Nil fields fall back to the store defaults.
type LotteryDraft struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Visibility  *Visibility      `json:"visibility,omitempty"`
	TicketPrice *decimal.Decimal `json:"ticketPrice,omitempty"`
	MaxTickets  *int             `json:"maxTickets,omitempty"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
}
