package models

// FilterAll disables a filter field, same as leaving it empty.
const FilterAll = "all"

// LotteryFilters narrows the catalog. Empty or "all" fields impose no constraint.
type LotteryFilters struct {
	Type       string `form:"type" json:"type,omitempty"`
	Category   string `form:"category" json:"category,omitempty"`
	Status     string `form:"status" json:"status,omitempty"`
	Visibility string `form:"visibility" json:"visibility,omitempty"`
}

// SortKey names the lottery field the catalog is ordered by.
type SortKey string

const (
	SortByEndDate     SortKey = "endDate"
	SortByPrizePool   SortKey = "prizePool"
	SortByTicketPrice SortKey = "ticketPrice"
	SortByPopularity  SortKey = "popularity"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
