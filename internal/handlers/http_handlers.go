package handlers

import (
	"net/http"
	"time"

	"cryptolotto/internal/format"
	"cryptolotto/internal/models"
	"cryptolotto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const storeContextKey = "store"

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	sessions    *services.SessionService
	cookieName  string
	leaderboard []models.LeaderboardEntry
	now         func() time.Time
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(sessions *services.SessionService, cookieName string) (*HTTPHandler, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	return &HTTPHandler{
		sessions:    sessions,
		cookieName:  cookieName,
		leaderboard: services.DefaultSeed(time.Now()).Leaderboard,
		now:         time.Now,
	}, nil
}

// RegisterPublicRoutes registers routes that do not need a session.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}

// RegisterSessionRoutes registers all routes that work on the caller's store.
// The group must use SessionMiddleware.
func (h *HTTPHandler) RegisterSessionRoutes(api *gin.RouterGroup) {
	api.GET("/state", h.GetState)

	api.GET("/lotteries", h.ListLotteries)
	api.POST("/lotteries", h.CreateLottery)
	api.POST("/lotteries/quote", h.QuoteLottery)
	api.GET("/lotteries/:id", h.GetLottery)
	api.POST("/lotteries/:id/tickets", h.PurchaseTickets)

	api.GET("/stats", h.GetStats)
	api.GET("/leaderboard", h.GetLeaderboard)

	api.GET("/tickets", h.ListTickets)
	api.GET("/transactions", h.ListTransactions)
	api.GET("/transactions/export", h.ExportTransactionsCSV)
	api.POST("/wallet/deposit", h.Deposit)
	api.POST("/wallet/withdraw", h.Withdraw)

	api.GET("/notifications", h.ListNotifications)
	api.POST("/notifications/:id/read", h.MarkNotificationAsRead)

	api.POST("/preferences/dark-mode", h.ToggleDarkMode)
	api.POST("/preferences/sidebar", h.ToggleSidebar)

	api.POST("/session/login", h.Login)
	api.POST("/session/logout", h.Logout)
}

// SessionMiddleware resolves the session cookie, issuing a new one when missing,
// and puts the session's store into the context.
func (h *HTTPHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(h.cookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(h.cookieName, sessionID, 0, "/", "", false, true)
		}

		store, err := h.sessions.Store(c.Request.Context(), sessionID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(storeContextKey, store)
		c.Next()
	}
}

func storeFrom(c *gin.Context) *services.Store {
	return c.MustGet(storeContextKey).(*services.Store)
}

// Health reports liveness and the number of open sessions.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Count()})
}

type stateResponse struct {
	services.State
	UnreadCount int `json:"unreadCount"`
}

// GetState returns the whole store snapshot.
func (h *HTTPHandler) GetState(c *gin.Context) {
	store := storeFrom(c)
	if _, err := store.DarkMode(c.Request.Context()); err != nil {
		logger.Warningf("Failed to refresh dark mode, serving last known value: %v", err)
	}
	c.JSON(http.StatusOK, stateResponse{State: store.Snapshot(), UnreadCount: store.UnreadCount()})
}

// lotteryView adds the display fields a lottery card shows.
type lotteryView struct {
	models.Lottery
	TimeLeft         string  `json:"timeLeft"`
	Progress         float64 `json:"progress"`
	PrizePoolDisplay string  `json:"prizePoolDisplay"`
	EndDateDisplay   string  `json:"endDateDisplay"`
}

func (h *HTTPHandler) viewOf(l models.Lottery) lotteryView {
	return lotteryView{
		Lottery:          l,
		TimeLeft:         format.TimeLeft(l.EndDate, h.now()),
		Progress:         format.ProgressPercent(l.TicketsSold, l.MaxTickets),
		PrizePoolDisplay: format.Currency(l.PrizePool) + " USDT",
		EndDateDisplay:   format.Date(l.EndDate),
	}
}

func (h *HTTPHandler) viewsOf(lotteries []models.Lottery) []lotteryView {
	out := make([]lotteryView, len(lotteries))
	for i, l := range lotteries {
		out[i] = h.viewOf(l)
	}
	return out
}

type listLotteriesQuery struct {
	models.LotteryFilters
	Search    string           `form:"search"`
	SortBy    models.SortKey   `form:"sortBy"`
	SortOrder models.SortOrder `form:"sortOrder"`
	CreatedBy string           `form:"createdBy"`
	WonBy     string           `form:"wonBy"`
}

// ListLotteries handles catalog browsing: filters, then search, then sort.
func (h *HTTPHandler) ListLotteries(c *gin.Context) {
	var q listLotteriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return
	}

	lotteries := storeFrom(c).Lotteries()
	if q.CreatedBy != "" {
		lotteries = services.CreatedBy(lotteries, q.CreatedBy)
	}
	if q.WonBy != "" {
		lotteries = services.WonBy(lotteries, q.WonBy)
	}
	lotteries = services.FilterLotteries(lotteries, q.LotteryFilters)
	lotteries = services.SearchLotteries(lotteries, q.Search)
	if q.SortBy != "" {
		lotteries = services.SortLotteries(lotteries, q.SortBy, q.SortOrder)
	}

	c.JSON(http.StatusOK, h.viewsOf(lotteries))
}

// GetLottery returns a single lottery with its display fields.
func (h *HTTPHandler) GetLottery(c *gin.Context) {
	lottery, err := storeFrom(c).Lottery(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.viewOf(lottery))
}

type createLotteryRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Category    string            `json:"category"`
	Visibility  models.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
	TicketPrice decimal.Decimal   `json:"ticketPrice" binding:"required,gt=0"`
	MaxTickets  *int              `json:"maxTickets" binding:"omitempty,min=10"`
	EndDate     *time.Time        `json:"endDate" binding:"required,gt"`
}

func (r createLotteryRequest) draft() models.LotteryDraft {
	d := models.LotteryDraft{
		Title:       &r.Title,
		Description: &r.Description,
		TicketPrice: &r.TicketPrice,
		MaxTickets:  r.MaxTickets,
		EndDate:     r.EndDate,
	}
	if r.Category != "" {
		d.Category = &r.Category
	}
	if r.Visibility != "" {
		d.Visibility = &r.Visibility
	}
	return d
}

// CreateLottery handles the creation form submission.
func (h *HTTPHandler) CreateLottery(c *gin.Context) {
	var req createLotteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	lottery, err := storeFrom(c).CreateLottery(req.draft())
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("Created lottery %s (%s)", lottery.ID, lottery.Title)
	c.JSON(http.StatusCreated, h.viewOf(*lottery))
}

type quoteRequest struct {
	TicketPrice decimal.Decimal `json:"ticketPrice" binding:"required,gt=0"`
	MaxTickets  int             `json:"maxTickets" binding:"omitempty,min=1"`
}

// QuoteLottery previews the prize pool of a draft.
func (h *HTTPHandler) QuoteLottery(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.QuoteLottery(req.TicketPrice, req.MaxTickets))
}

type purchaseRequest struct {
	Quantity int `json:"quantity"`
}

type purchaseResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     *decimal.Decimal    `json:"balance,omitempty"`
}

// balanceOf is nil when the user logged out after the write went through.
func balanceOf(store *services.Store) *decimal.Decimal {
	u := store.User()
	if u == nil {
		return nil
	}
	return &u.Balance
}

// PurchaseTickets buys tickets of the lottery in the path.
func (h *HTTPHandler) PurchaseTickets(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	store := storeFrom(c)
	tx, err := store.PurchaseTicket(c.Param("id"), req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchaseResponse{Transaction: tx, Balance: balanceOf(store)})
}

// GetStats returns the home page aggregates.
func (h *HTTPHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, services.AggregateLotteries(storeFrom(c).Lotteries(), h.now()))
}

type leaderboardRow struct {
	models.LeaderboardEntry
	Badge services.Medal `json:"badge,omitempty"`
}

// GetLeaderboard ranks the board; ?search= narrows it by username.
func (h *HTTPHandler) GetLeaderboard(c *gin.Context) {
	ranked := services.RankLeaderboard(h.leaderboard, c.Query("search"))
	rows := make([]leaderboardRow, len(ranked))
	for i, e := range ranked {
		rows[i] = leaderboardRow{LeaderboardEntry: e, Badge: services.Badge(e.Position)}
	}
	c.JSON(http.StatusOK, rows)
}

type ticketView struct {
	services.TicketEntry
	TimeLeft string `json:"timeLeft,omitempty"`
}

type listTicketsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=all active won lost cancelled"`
}

// ListTickets returns the current user's entries; ?status= narrows them.
func (h *HTTPHandler) ListTickets(c *gin.Context) {
	var q listTicketsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return
	}

	store := storeFrom(c)
	user := store.User()
	if user == nil {
		abortWithError(c, services.ErrNotAuthenticated)
		return
	}

	entries := services.FilterTickets(services.TicketsOf(store.Transactions(), store.Lotteries(), user.ID), q.Status)
	views := make([]ticketView, len(entries))
	for i, e := range entries {
		views[i] = ticketView{TicketEntry: e}
		if e.Status == services.TicketActive {
			views[i].TimeLeft = format.TimeLeft(e.EndDate, h.now())
		}
	}
	c.JSON(http.StatusOK, views)
}

type listTransactionsQuery struct {
	Type    string `form:"type"`
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"perPage" binding:"omitempty,min=1,max=100"`
}

// ListTransactions returns one page of the filtered ledger.
func (h *HTTPHandler) ListTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return
	}
	txs := services.FilterTransactions(storeFrom(c).Transactions(), q.Type, q.Search)
	c.JSON(http.StatusOK, services.PaginateTransactions(txs, q.Page, q.PerPage))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// Deposit credits the wallet.
func (h *HTTPHandler) Deposit(c *gin.Context) {
	h.moveFunds(c, (*services.Store).Deposit)
}

// Withdraw debits the wallet.
func (h *HTTPHandler) Withdraw(c *gin.Context) {
	h.moveFunds(c, (*services.Store).Withdraw)
}

func (h *HTTPHandler) moveFunds(c *gin.Context, move func(*services.Store, decimal.Decimal) (*models.Transaction, error)) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	store := storeFrom(c)
	tx, err := move(store, req.Amount)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchaseResponse{Transaction: tx, Balance: balanceOf(store)})
}

// ListNotifications returns notifications, newest first, with the unread count.
func (h *HTTPHandler) ListNotifications(c *gin.Context) {
	store := storeFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"items":       store.Notifications(),
		"unreadCount": store.UnreadCount(),
	})
}

// MarkNotificationAsRead always succeeds; unknown ids are ignored.
func (h *HTTPHandler) MarkNotificationAsRead(c *gin.Context) {
	store := storeFrom(c)
	store.MarkNotificationAsRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"unreadCount": store.UnreadCount()})
}

// ToggleDarkMode flips the device-wide dark mode flag.
func (h *HTTPHandler) ToggleDarkMode(c *gin.Context) {
	darkMode, err := storeFrom(c).ToggleDarkMode(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": darkMode})
}

// ToggleSidebar flips the session's sidebar flag.
func (h *HTTPHandler) ToggleSidebar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sidebarOpen": storeFrom(c).ToggleSidebar()})
}

type loginRequest struct {
	ID            string          `json:"id"`
	Username      string          `json:"username" binding:"required,max=32"`
	Balance       decimal.Decimal `json:"balance"`
	WalletAddress string          `json:"walletAddress"`
}

// Login switches the session to the given user. There are no credentials.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Balance.IsNegative() {
		abortWithError(c, services.ErrInvalidAmount)
		return
	}

	store := storeFrom(c)
	store.Login(models.User{
		ID:            req.ID,
		Username:      req.Username,
		Balance:       req.Balance,
		WalletAddress: req.WalletAddress,
	})
	c.JSON(http.StatusOK, store.User())
}

// Logout drops the current user but keeps the session's catalog and ledger.
func (h *HTTPHandler) Logout(c *gin.Context) {
	storeFrom(c).Logout()
	c.Status(http.StatusNoContent)
}
