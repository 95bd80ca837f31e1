package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"cryptolotto/internal/models"

	"github.com/shopspring/decimal"
)

// The functions below derive views from store snapshots. They are pure and never
// modify their input; derived results are recomputed on every read.

const (
	endingSoonWindow = 24 * time.Hour
	endingSoonLimit  = 2

	DefaultTransactionsPerPage = 10
	pageWindowSize             = 5
)

func matchesFilter(want, got string) bool {
	return want == "" || want == models.FilterAll || want == got
}

// FilterLotteries keeps the lotteries that satisfy every set filter field.
func FilterLotteries(lotteries []models.Lottery, f models.LotteryFilters) []models.Lottery {
	out := make([]models.Lottery, 0, len(lotteries))
	for _, l := range lotteries {
		if !matchesFilter(f.Type, string(l.Type)) ||
			!matchesFilter(f.Category, l.Category) ||
			!matchesFilter(f.Status, string(l.Status)) ||
			!matchesFilter(f.Visibility, string(l.Visibility)) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func lotteryComparator(by models.SortKey) func(a, b models.Lottery) int {
	switch by {
	case models.SortByEndDate:
		return func(a, b models.Lottery) int { return a.EndDate.Compare(b.EndDate) }
	case models.SortByPrizePool:
		return func(a, b models.Lottery) int { return a.PrizePool.Cmp(b.PrizePool) }
	case models.SortByTicketPrice:
		return func(a, b models.Lottery) int { return a.TicketPrice.Cmp(b.TicketPrice) }
	case models.SortByPopularity:
		return func(a, b models.Lottery) int { return cmp.Compare(a.TicketsSold, b.TicketsSold) }
	default:
		return nil
	}
}

// SortLotteries returns a stably sorted copy. Any order other than asc sorts descending.
// An unknown key returns the copy in input order.
func SortLotteries(lotteries []models.Lottery, by models.SortKey, order models.SortOrder) []models.Lottery {
	out := slices.Clone(lotteries)
	compare := lotteryComparator(by)
	if compare == nil {
		return out
	}
	if order != models.SortAsc {
		asc := compare
		compare = func(a, b models.Lottery) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// SearchLotteries keeps lotteries whose title contains term, ignoring case.
func SearchLotteries(lotteries []models.Lottery, term string) []models.Lottery {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(lotteries)
	}
	out := make([]models.Lottery, 0, len(lotteries))
	for _, l := range lotteries {
		if strings.Contains(strings.ToLower(l.Title), term) {
			out = append(out, l)
		}
	}
	return out
}

// LotteryStats are the home page totals. All of them only consider active lotteries.
type LotteryStats struct {
	ActiveCount       int              `json:"activeCount"`
	HighestPrize      *models.Lottery  `json:"highestPrize"`
	TotalPrizePool    decimal.Decimal  `json:"totalPrizePool"`
	TotalParticipants int              `json:"totalParticipants"`
	EndingSoon        []models.Lottery `json:"endingSoon"`
}

// AggregateLotteries computes LotteryStats as of now.
func AggregateLotteries(lotteries []models.Lottery, now time.Time) LotteryStats {
	stats := LotteryStats{TotalPrizePool: decimal.Zero, EndingSoon: []models.Lottery{}}

	var (
		highest    *models.Lottery
		endingSoon []models.Lottery
	)
	for i := range lotteries {
		l := lotteries[i]
		if l.Status != models.LotteryStatusActive {
			continue
		}
		stats.ActiveCount++
		stats.TotalParticipants += l.TicketsSold
		stats.TotalPrizePool = stats.TotalPrizePool.Add(l.PrizePool)
		if highest == nil || l.PrizePool.GreaterThan(highest.PrizePool) {
			highest = &lotteries[i]
		}
		if l.EndDate.After(now) && l.EndDate.Before(now.Add(endingSoonWindow)) {
			endingSoon = append(endingSoon, l)
		}
	}

	if highest != nil {
		c := highest.Clone()
		stats.HighestPrize = &c
	}
	endingSoon = SortLotteries(endingSoon, models.SortByEndDate, models.SortAsc)
	if len(endingSoon) > endingSoonLimit {
		endingSoon = endingSoon[:endingSoonLimit]
	}
	stats.EndingSoon = append(stats.EndingSoon, endingSoon...)
	return stats
}

// LotteriesByType keeps the lotteries of the given type.
func LotteriesByType(lotteries []models.Lottery, t models.LotteryType) []models.Lottery {
	return FilterLotteries(lotteries, models.LotteryFilters{Type: string(t)})
}

// CreatedBy returns the active lotteries the user created.
func CreatedBy(lotteries []models.Lottery, userID string) []models.Lottery {
	out := []models.Lottery{}
	for _, l := range lotteries {
		if l.CreatorID == userID && l.Status == models.LotteryStatusActive {
			out = append(out, l)
		}
	}
	return out
}

// WonBy returns the completed lotteries that list the user as a winner.
func WonBy(lotteries []models.Lottery, userID string) []models.Lottery {
	out := []models.Lottery{}
	for _, l := range lotteries {
		if l.Status == models.LotteryStatusCompleted && l.HasWinner(userID) {
			out = append(out, l)
		}
	}
	return out
}

// FilterTransactions keeps entries of the given type whose description contains search.
func FilterTransactions(txs []models.Transaction, txType, search string) []models.Transaction {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if !matchesFilter(txType, string(t.Type)) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TransactionPage is one page of the ledger.
type TransactionPage struct {
	Items      []models.Transaction `json:"items"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"perPage"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Window     []int                `json:"window"`
}

// PaginateTransactions cuts txs into pages of perPage and returns the requested one.
// The page number is clamped into the valid range.
func PaginateTransactions(txs []models.Transaction, page, perPage int) TransactionPage {
	if perPage < 1 {
		perPage = DefaultTransactionsPerPage
	}
	total := len(txs)
	totalPages := (total + perPage - 1) / perPage
	page = max(1, min(page, totalPages))

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return TransactionPage{
		Items:      append([]models.Transaction{}, txs[start:end]...),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Window:     PageWindow(page, totalPages),
	}
}

// PageWindow lists up to five page numbers to offer around current.
func PageWindow(current, total int) []int {
	n := min(pageWindowSize, total)
	window := make([]int, 0, n)
	for i := 0; i < n; i++ {
		var p int
		switch {
		case total <= pageWindowSize, current <= 3:
			p = i + 1
		case current >= total-2:
			p = total - 4 + i
		default:
			p = current - 2 + i
		}
		window = append(window, p)
	}
	return window
}
