package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"cryptolotto/internal/models"
	"cryptolotto/internal/preferences"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotAuthenticated    = errors.New("no user is logged in")
	ErrLotteryNotFound     = errors.New("lottery not found")
	ErrLotteryNotActive    = errors.New("lottery is not active")
	ErrInvalidQuantity     = errors.New("ticket quantity must be at least 1")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTicketsSoldOut      = errors.New("not enough tickets left")
	ErrInvalidDraft        = errors.New("invalid lottery draft")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidTransition   = errors.New("invalid lottery status transition")
)

// Defaults applied by CreateLottery.
var (
	DefaultCreationFee    = decimal.NewFromInt(1)
	DefaultTicketPrice    = decimal.NewFromInt(5)
	DefaultLotteryRunTime = 7 * 24 * time.Hour
)

// State is a read-only snapshot of everything a store holds.
type State struct {
	User            *models.User          `json:"user"`
	IsAuthenticated bool                  `json:"isAuthenticated"`
	Lotteries       []models.Lottery      `json:"lotteries"`
	Transactions    []models.Transaction  `json:"transactions"`
	Notifications   []models.Notification `json:"notifications"`
	DarkMode        bool                  `json:"darkMode"`
	SidebarOpen     bool                  `json:"sidebarOpen"`
}

// Store is the single source of truth for one user session.
// Every mutation runs under the write lock from precondition check to last write,
// so a failed operation leaves nothing behind.
type Store struct {
	mu sync.RWMutex

	user            *models.User
	isAuthenticated bool
	lotteries       []*models.Lottery
	transactions    []*models.Transaction
	notifications   []*models.Notification
	darkMode        bool
	sidebarOpen     bool

	prefs              preferences.Store
	now                func() time.Time
	newID              func() string
	creationFee        decimal.Decimal
	defaultTicketPrice decimal.Decimal
}

// Option configures a Store built by NewStore.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps and deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPreferences sets the backend the dark-mode flag is persisted in.
func WithPreferences(p preferences.Store) Option {
	return func(s *Store) { s.prefs = p }
}

// WithCreationFee overrides DefaultCreationFee.
func WithCreationFee(fee decimal.Decimal) Option {
	return func(s *Store) { s.creationFee = fee }
}

// WithDefaultTicketPrice overrides DefaultTicketPrice for drafts without a price.
func WithDefaultTicketPrice(price decimal.Decimal) Option {
	return func(s *Store) { s.defaultTicketPrice = price }
}

// WithIDGenerator replaces uuid.NewString for new entity ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore builds a store from seed and reads the persisted dark-mode flag.
func NewStore(ctx context.Context, seed Seed, opts ...Option) (*Store, error) {
	s := &Store{
		now:                time.Now,
		newID:              uuid.NewString,
		creationFee:        DefaultCreationFee,
		defaultTicketPrice: DefaultTicketPrice,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prefs == nil {
		s.prefs = preferences.NewMemoryStore()
	}

	if seed.User != nil {
		u := *seed.User
		s.user = &u
		s.isAuthenticated = true
	}
	s.lotteries = make([]*models.Lottery, 0, len(seed.Lotteries))
	for _, l := range seed.Lotteries {
		c := l.Clone()
		s.lotteries = append(s.lotteries, &c)
	}
	s.transactions = make([]*models.Transaction, 0, len(seed.Transactions))
	for _, t := range seed.Transactions {
		c := t
		s.transactions = append(s.transactions, &c)
	}
	s.notifications = make([]*models.Notification, 0, len(seed.Notifications))
	for _, n := range seed.Notifications {
		c := n
		s.notifications = append(s.notifications, &c)
	}

	dark, err := preferences.LoadBool(ctx, s.prefs, preferences.DarkModeKey)
	if err != nil {
		return nil, fmt.Errorf("load dark mode preference: %w", err)
	}
	s.darkMode = dark
	return s, nil
}

func (s *Store) findLottery(id string) *models.Lottery {
	for _, l := range s.lotteries {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Store) prependTransaction(t models.Transaction) *models.Transaction {
	entry := &t
	s.transactions = append([]*models.Transaction{entry}, s.transactions...)
	return entry
}

func (s *Store) prependNotification(n models.Notification) {
	entry := &n
	s.notifications = append([]*models.Notification{entry}, s.notifications...)
}

// PurchaseTicket buys quantity tickets of the lottery for the current user.
func (s *Store) PurchaseTicket(lotteryID string, quantity int) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	lottery := s.findLottery(lotteryID)
	if lottery == nil {
		return nil, ErrLotteryNotFound
	}
	if lottery.Status != models.LotteryStatusActive {
		return nil, ErrLotteryNotActive
	}
	if quantity > math.MaxInt-lottery.TicketsSold {
		return nil, ErrTicketsSoldOut
	}
	if left, capped := lottery.RemainingTickets(); capped && quantity > left {
		return nil, ErrTicketsSoldOut
	}
	cost := lottery.TicketPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if s.user.Balance.LessThan(cost) {
		return nil, ErrInsufficientBalance
	}

	now := s.now()
	s.user.Balance = s.user.Balance.Sub(cost)
	lottery.TicketsSold += quantity
	lottery.PrizePool = lottery.PrizePool.Add(cost)

	tx := s.prependTransaction(models.Transaction{
		ID:          s.newID(),
		UserID:      s.user.ID,
		Type:        models.TransactionTicketPurchase,
		Amount:      cost,
		Status:      models.TransactionCompleted,
		Timestamp:   now,
		Description: fmt.Sprintf("Purchased %d %s for %s", quantity, ticketWord(quantity), lottery.Title),
		LotteryID:   lottery.ID,
	})
	s.prependNotification(models.Notification{
		ID:        s.newID(),
		UserID:    s.user.ID,
		Type:      models.NotificationTicketPurchase,
		Message:   fmt.Sprintf("You successfully entered %s", lottery.Title),
		Timestamp: now,
		LotteryID: lottery.ID,
	})

	c := *tx
	return &c, nil
}

func ticketWord(n int) string {
	if n == 1 {
		return "ticket"
	}
	return "tickets"
}

func validateDraft(d models.LotteryDraft, now time.Time) error {
	if d.TicketPrice != nil && !d.TicketPrice.IsPositive() {
		return fmt.Errorf("%w: ticket price must be greater than 0", ErrInvalidDraft)
	}
	if d.MaxTickets != nil && *d.MaxTickets < 1 {
		return fmt.Errorf("%w: max tickets must be at least 1", ErrInvalidDraft)
	}
	if d.EndDate != nil && !d.EndDate.After(now) {
		return fmt.Errorf("%w: end date must be in the future", ErrInvalidDraft)
	}
	if d.Visibility != nil {
		switch *d.Visibility {
		case models.VisibilityPublic, models.VisibilityPrivate:
		default:
			return fmt.Errorf("%w: unknown visibility %q", ErrInvalidDraft, *d.Visibility)
		}
	}
	return nil
}

// CreateLottery charges the creation fee and adds a user-generated lottery built from draft.
func (s *Store) CreateLottery(draft models.LotteryDraft) (*models.Lottery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	now := s.now()
	if err := validateDraft(draft, now); err != nil {
		return nil, err
	}
	if s.user.Balance.LessThan(s.creationFee) {
		return nil, ErrInsufficientBalance
	}

	lottery := &models.Lottery{
		ID:          s.newID(),
		Category:    models.DefaultCategory,
		Type:        models.LotteryTypeUserGenerated,
		Status:      models.LotteryStatusActive,
		Visibility:  models.VisibilityPublic,
		CreatorID:   s.user.ID,
		CreatorName: s.user.Username,
		PrizePool:   decimal.Zero,
		TicketPrice: s.defaultTicketPrice,
		StartDate:   now,
		EndDate:     now.Add(DefaultLotteryRunTime),
		WinnerIDs:   []string{},
	}
	if draft.Title != nil {
		lottery.Title = *draft.Title
	}
	if draft.Description != nil {
		lottery.Description = *draft.Description
	}
	if draft.Category != nil && strings.TrimSpace(*draft.Category) != "" {
		lottery.Category = *draft.Category
	}
	if draft.Visibility != nil {
		lottery.Visibility = *draft.Visibility
	}
	if draft.TicketPrice != nil {
		lottery.TicketPrice = *draft.TicketPrice
	}
	if draft.MaxTickets != nil {
		m := *draft.MaxTickets
		lottery.MaxTickets = &m
	}
	if draft.EndDate != nil {
		lottery.EndDate = *draft.EndDate
	}

	s.user.Balance = s.user.Balance.Sub(s.creationFee)
	s.user.LotteriesCreated++
	s.lotteries = append([]*models.Lottery{lottery}, s.lotteries...)

	s.prependTransaction(models.Transaction{
		ID:          s.newID(),
		UserID:      s.user.ID,
		Type:        models.TransactionLotteryCreation,
		Amount:      s.creationFee,
		Status:      models.TransactionCompleted,
		Timestamp:   now,
		Description: fmt.Sprintf("Created lottery %s", lottery.Title),
		LotteryID:   lottery.ID,
	})
	s.prependNotification(models.Notification{
		ID:        s.newID(),
		UserID:    s.user.ID,
		Type:      models.NotificationLotteryCreation,
		Message:   fmt.Sprintf("Your lottery %s is now active", lottery.Title),
		Timestamp: now,
		LotteryID: lottery.ID,
	})

	c := lottery.Clone()
	return &c, nil
}

// UpdateBalance adds delta to the current balance without any bound check.
func (s *Store) UpdateBalance(delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNotAuthenticated
	}
	s.user.Balance = s.user.Balance.Add(delta)
	return nil
}

// AddTransaction stores entry at the front of the ledger under a fresh id.
func (s *Store) AddTransaction(entry models.Transaction) *models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *s.addTransactionLocked(entry)
	return &c
}

func (s *Store) addTransactionLocked(entry models.Transaction) *models.Transaction {
	entry.ID = s.newID()
	if entry.Status == "" {
		entry.Status = models.TransactionCompleted
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	return s.prependTransaction(entry)
}

// Deposit credits amount to the wallet and records it in the ledger.
func (s *Store) Deposit(amount decimal.Decimal) (*models.Transaction, error) {
	return s.moveFunds(amount, models.TransactionDeposit)
}

// Withdraw debits amount from the wallet and records it in the ledger.
func (s *Store) Withdraw(amount decimal.Decimal) (*models.Transaction, error) {
	return s.moveFunds(amount, models.TransactionWithdrawal)
}

func (s *Store) moveFunds(amount decimal.Decimal, kind models.TransactionType) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	description := "Wallet deposit"
	delta := amount
	if kind == models.TransactionWithdrawal {
		if amount.GreaterThan(s.user.Balance) {
			return nil, ErrInsufficientBalance
		}
		description = "Withdrawal to external wallet"
		delta = amount.Neg()
	}

	s.user.Balance = s.user.Balance.Add(delta)
	tx := s.addTransactionLocked(models.Transaction{
		UserID:      s.user.ID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		Hash:        referenceHash(),
	})
	c := *tx
	return &c, nil
}

// referenceHash produces an abbreviated opaque reference like 0x1a2b3c4d...9f0e.
func referenceHash() string {
	h := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "0x" + h[:8] + "..." + h[len(h)-4:]
}

// MarkNotificationAsRead flips the read flag. Unknown ids are ignored.
func (s *Store) MarkNotificationAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id {
			n.IsRead = true
			return
		}
	}
}

// UnreadCount returns how many notifications are still unread.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// darkModeMu serializes the read-flip-write of the shared flag across all stores of the process.
var darkModeMu sync.Mutex

// ToggleDarkMode flips the device-wide flag as currently persisted and returns the new value.
// The persisted value is left as is if reading or writing fails.
func (s *Store) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	darkModeMu.Lock()
	defer darkModeMu.Unlock()

	current, err := preferences.LoadBool(ctx, s.prefs, preferences.DarkModeKey)
	if err != nil {
		return s.darkMode, fmt.Errorf("load dark mode: %w", err)
	}
	next := !current
	if err := preferences.SaveBool(ctx, s.prefs, preferences.DarkModeKey, next); err != nil {
		s.darkMode = current
		return current, fmt.Errorf("persist dark mode: %w", err)
	}
	s.darkMode = next
	return next, nil
}

// ToggleSidebar flips the sidebar flag. It is never persisted.
func (s *Store) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sidebarOpen = !s.sidebarOpen
	return s.sidebarOpen
}

// Login makes user the current user. No credentials are checked.
func (s *Store) Login(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.isAuthenticated = true
}

// Logout clears the current user. Catalog, ledger and notifications stay.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.isAuthenticated = false
}

// CompleteLottery moves an active lottery to completed and records its winners.
// Selecting the winners is up to the caller.
func (s *Store) CompleteLottery(id string, winnerIDs []string) error {
	return s.transition(id, models.LotteryStatusCompleted, winnerIDs)
}

// CancelLottery moves an active lottery to cancelled.
func (s *Store) CancelLottery(id string) error {
	return s.transition(id, models.LotteryStatusCancelled, nil)
}

func (s *Store) transition(id string, to models.LotteryStatus, winnerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lottery := s.findLottery(id)
	if lottery == nil {
		return ErrLotteryNotFound
	}
	if lottery.Status != models.LotteryStatusActive {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lottery.Status, to)
	}
	lottery.Status = to
	if to == models.LotteryStatusCompleted {
		lottery.WinnerIDs = append([]string{}, winnerIDs...)
	}
	return nil
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// DarkMode reads the persisted flag and refreshes the copy Snapshot reports.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dark, err := preferences.LoadBool(ctx, s.prefs, preferences.DarkModeKey)
	if err != nil {
		return s.darkMode, fmt.Errorf("load dark mode: %w", err)
	}
	s.darkMode = dark
	return dark, nil
}

// SidebarOpen reports the session-only sidebar flag.
func (s *Store) SidebarOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarOpen
}

// Lotteries returns the catalog, newest first.
func (s *Store) Lotteries() []models.Lottery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lotteriesLocked()
}

func (s *Store) lotteriesLocked() []models.Lottery {
	out := make([]models.Lottery, len(s.lotteries))
	for i, l := range s.lotteries {
		out[i] = l.Clone()
	}
	return out
}

// Lottery returns a copy of the lottery with id, or ErrLotteryNotFound.
func (s *Store) Lottery(id string) (models.Lottery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.findLottery(id)
	if l == nil {
		return models.Lottery{}, ErrLotteryNotFound
	}
	return l.Clone(), nil
}

// Transactions returns the ledger, newest first.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactionsLocked()
}

func (s *Store) transactionsLocked() []models.Transaction {
	out := make([]models.Transaction, len(s.transactions))
	for i, t := range s.transactions {
		out[i] = *t
	}
	return out
}

// Notifications returns notifications, newest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notificationsLocked()
}

func (s *Store) notificationsLocked() []models.Notification {
	out := make([]models.Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[i] = *n
	}
	return out
}

// Snapshot copies the whole state under a single read lock.
// DarkMode is the value last read from or written to the backend; call Store.DarkMode first for a fresh one.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		IsAuthenticated: s.isAuthenticated,
		Lotteries:       s.lotteriesLocked(),
		Transactions:    s.transactionsLocked(),
		Notifications:   s.notificationsLocked(),
		DarkMode:        s.darkMode,
		SidebarOpen:     s.sidebarOpen,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}
