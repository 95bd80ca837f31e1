package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cryptolotto/internal/preferences"
	"cryptolotto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testCookie = "lotto_session"

type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	sessions *services.SessionService
	cookie   *http.Cookie
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.sessions = services.NewSessionService(services.SeededStoreFactory())
	h, err := NewHTTPHandler(s.sessions, testCookie)
	s.Require().NoError(err)
	s.router = NewRouter(h, []string{"*"})
	s.cookie = nil
}

// do sends a request carrying the session cookie and remembers any cookie the server issues.
func (s *HandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			s.cookie = c
		}
	}
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.Nil(s.cookie, "health must not open a session")
}

func (s *HandlerTestSuite) TestSessionCookie() {
	w := s.do(http.MethodGet, RouteGroup+"/state", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NotNil(s.cookie)
	first := s.cookie.Value

	w = s.do(http.MethodGet, RouteGroup+"/state", "")
	s.Equal(http.StatusOK, w.Code)
	s.Empty(w.Result().Cookies(), "a valid cookie is not reissued")
	s.Equal(first, s.cookie.Value)
	s.Equal(1, s.sessions.Count())

	var state stateResponse
	s.decode(w, &state)
	s.True(state.IsAuthenticated)
	s.Equal(services.DemoUserID, state.User.ID)
	s.Equal(1, state.UnreadCount)

	s.cookie = &http.Cookie{Name: testCookie, Value: "not-a-uuid"}
	s.do(http.MethodGet, RouteGroup+"/state", "")
	s.NotEqual("not-a-uuid", s.cookie.Value)
	s.Equal(2, s.sessions.Count())
}

func (s *HandlerTestSuite) TestSessionFactoryFailure() {
	failing := services.NewSessionService(func(context.Context) (*services.Store, error) {
		return nil, errors.New("preferences unavailable")
	})
	h, err := NewHTTPHandler(failing, testCookie)
	s.Require().NoError(err)
	s.router = NewRouter(h, []string{"http://localhost:5173"})

	w := s.do(http.MethodGet, RouteGroup+"/state", "")
	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "preferences unavailable")
}

func (s *HandlerTestSuite) TestPurchaseTickets() {
	cases := []struct {
		name       string
		lotteryID  string
		body       string
		wantStatus int
	}{
		{"all ok", "lottery1", `{"quantity":2}`, http.StatusOK},
		{"zero quantity", "lottery1", `{"quantity":0}`, http.StatusUnprocessableEntity},
		{"unknown lottery", "nope", `{"quantity":1}`, http.StatusNotFound},
		{"completed lottery", "lottery5", `{"quantity":1}`, http.StatusConflict},
		{"over the cap", "lottery4", `{"quantity":31}`, http.StatusConflict},
		{"cannot afford", "lottery1", `{"quantity":20}`, http.StatusPaymentRequired},
		{"bad request", "lottery1", `{"quantity":`, http.StatusBadRequest},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			w := s.do(http.MethodPost, RouteGroup+"/lotteries/"+c.lotteryID+"/tickets", c.body)
			s.Equal(c.wantStatus, w.Code, w.Body.String())
		})
	}

	var state stateResponse
	s.decode(s.do(http.MethodGet, RouteGroup+"/state", ""), &state)
	s.True(state.User.Balance.Equal(decimal.NewFromInt(40)))
	s.Len(state.Transactions, 3)
}

func (s *HandlerTestSuite) TestCreateLottery() {
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"all ok", `{"title":"Pizza","description":"Friday pizza","ticketPrice":"2.5","maxTickets":40,"endDate":"` + future + `","visibility":"private"}`, http.StatusCreated},
		{"missing title", `{"description":"d","ticketPrice":2,"endDate":"` + future + `"}`, http.StatusUnprocessableEntity},
		{"free tickets", `{"title":"t","description":"d","ticketPrice":0,"endDate":"` + future + `"}`, http.StatusUnprocessableEntity},
		{"too few tickets", `{"title":"t","description":"d","ticketPrice":2,"maxTickets":5,"endDate":"` + future + `"}`, http.StatusUnprocessableEntity},
		{"ended already", `{"title":"t","description":"d","ticketPrice":2,"endDate":"` + past + `"}`, http.StatusUnprocessableEntity},
		{"missing end date", `{"title":"t","description":"d","ticketPrice":2}`, http.StatusUnprocessableEntity},
		{"unknown visibility", `{"title":"t","description":"d","ticketPrice":2,"endDate":"` + future + `","visibility":"secret"}`, http.StatusUnprocessableEntity},
		{"malformed", `{"title":`, http.StatusBadRequest},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			w := s.do(http.MethodPost, RouteGroup+"/lotteries", c.body)
			s.Equal(c.wantStatus, w.Code, w.Body.String())
		})
	}

	var created []lotteryView
	s.decode(s.do(http.MethodGet, RouteGroup+"/lotteries?type=user-generated&createdBy="+services.DemoUserID, ""), &created)
	s.Require().Len(created, 1)
	s.Equal("Pizza", created[0].Title)
	s.Equal("custom", created[0].Category)
	s.Equal("0.00 USDT", created[0].PrizePoolDisplay)

	var state stateResponse
	s.decode(s.do(http.MethodGet, RouteGroup+"/state", ""), &state)
	s.True(state.User.Balance.Equal(decimal.NewFromInt(49)))
	s.Equal(3, state.User.LotteriesCreated)
}

func (s *HandlerTestSuite) TestListLotteries() {
	w := s.do(http.MethodGet, RouteGroup+"/lotteries?status=active&sortBy=prizePool&sortOrder=desc", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var views []lotteryView
	s.decode(w, &views)
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	s.Equal([]string{"lottery2", "lottery1", "lottery4", "lottery3"}, ids)
	s.Contains(views[0].TimeLeft, "remaining")
	s.InDelta(25.0, views[0].Progress, 1e-9)

	s.decode(s.do(http.MethodGet, RouteGroup+"/lotteries?search=flash", ""), &views)
	s.Require().Len(views, 1)
	s.Equal("lottery3", views[0].ID)
	s.InDelta(50.0, views[0].Progress, 1e-9)

	s.decode(s.do(http.MethodGet, RouteGroup+"/lotteries?wonBy="+services.DemoUserID, ""), &views)
	s.Require().Len(views, 1)
	s.Equal("lottery5", views[0].ID)
	s.Equal("Ended", views[0].TimeLeft)

	w = s.do(http.MethodGet, RouteGroup+"/lotteries/lottery2", "")
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, RouteGroup+"/lotteries/missing", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestStatsQuoteAndLeaderboard() {
	var stats services.LotteryStats
	s.decode(s.do(http.MethodGet, RouteGroup+"/stats", ""), &stats)
	s.Equal(4, stats.ActiveCount)
	s.Equal("lottery2", stats.HighestPrize.ID)
	s.Len(stats.EndingSoon, 2)

	var quote services.LotteryQuote
	w := s.do(http.MethodPost, RouteGroup+"/lotteries/quote", `{"ticketPrice":5}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &quote)
	s.True(quote.FinalPrizePool.Equal(decimal.NewFromInt(450)))

	w = s.do(http.MethodPost, RouteGroup+"/lotteries/quote", `{"ticketPrice":-1}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	var rows []leaderboardRow
	s.decode(s.do(http.MethodGet, RouteGroup+"/leaderboard", ""), &rows)
	s.Require().Len(rows, 5)
	s.Equal("cryptoQueen", rows[0].Username)
	s.Equal(services.MedalGold, rows[0].Badge)

	s.decode(s.do(http.MethodGet, RouteGroup+"/leaderboard?search=larry", ""), &rows)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].Position)
	s.Equal(services.MedalSilver, rows[0].Badge)
}

func (s *HandlerTestSuite) TestWalletAndLedger() {
	w := s.do(http.MethodPost, RouteGroup+"/wallet/deposit", `{"amount":"12.5"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, RouteGroup+"/wallet/withdraw", `{"amount":100}`)
	s.Equal(http.StatusPaymentRequired, w.Code)
	w = s.do(http.MethodPost, RouteGroup+"/wallet/withdraw", `{"amount":0}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	w = s.do(http.MethodPost, RouteGroup+"/wallet/withdraw", `{"amount":2.5}`)
	s.Require().Equal(http.StatusOK, w.Code)

	var page services.TransactionPage
	s.decode(s.do(http.MethodGet, RouteGroup+"/transactions?perPage=2&page=1", ""), &page)
	s.Equal(4, page.Total)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Items, 2)
	s.Equal("withdrawal", string(page.Items[0].Type))

	s.decode(s.do(http.MethodGet, RouteGroup+"/transactions?type=deposit", ""), &page)
	s.Equal(2, page.Total)

	w = s.do(http.MethodGet, RouteGroup+"/transactions?perPage=1000", "")
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestExportTransactionsCSV() {
	w := s.do(http.MethodGet, RouteGroup+"/transactions/export", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "attachment;filename=transactions_")

	body := w.Body.String()
	s.True(strings.HasPrefix(body, "\xef\xbb\xbf"))

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(body, "\xef\xbb\xbf")))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	s.Require().Len(lines, 3)
	s.Equal(strings.Join(ledgerCSVHeader, ","), lines[0])
	s.Contains(lines[1], "tx1,")
	s.Contains(lines[1], ",5.00,")
}

func (s *HandlerTestSuite) TestNotificationsAndPreferences() {
	var unread struct {
		UnreadCount int `json:"unreadCount"`
	}
	s.decode(s.do(http.MethodPost, RouteGroup+"/notifications/notif1/read", ""), &unread)
	s.Zero(unread.UnreadCount)
	w := s.do(http.MethodPost, RouteGroup+"/notifications/unknown/read", "")
	s.Equal(http.StatusOK, w.Code)

	var dark struct {
		DarkMode bool `json:"darkMode"`
	}
	s.decode(s.do(http.MethodPost, RouteGroup+"/preferences/dark-mode", ""), &dark)
	s.True(dark.DarkMode)

	var sidebar struct {
		SidebarOpen bool `json:"sidebarOpen"`
	}
	s.decode(s.do(http.MethodPost, RouteGroup+"/preferences/sidebar", ""), &sidebar)
	s.True(sidebar.SidebarOpen)
}

func (s *HandlerTestSuite) TestLoginLogout() {
	w := s.do(http.MethodPost, RouteGroup+"/session/logout", "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, RouteGroup+"/lotteries/lottery1/tickets", `{"quantity":1}`)
	s.Equal(http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, RouteGroup+"/wallet/deposit", `{"amount":1}`)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, RouteGroup+"/session/login", `{"username":"bob","balance":"20"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, RouteGroup+"/session/login", `{}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	w = s.do(http.MethodPost, RouteGroup+"/session/login", `{"username":"eve","balance":-3}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, RouteGroup+"/lotteries/lottery1/tickets", `{"quantity":4}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var res purchaseResponse
	s.decode(w, &res)
	s.Require().NotNil(res.Balance)
	s.True(res.Balance.IsZero())
}

func (s *HandlerTestSuite) TestListTickets() {
	type ticket struct {
		TransactionID string `json:"transactionId"`
		LotteryID     string `json:"lotteryId"`
		Quantity      int64  `json:"quantity"`
		Status        string `json:"status"`
		TimeLeft      string `json:"timeLeft"`
	}

	var tickets []ticket
	s.decode(s.do(http.MethodGet, RouteGroup+"/tickets", ""), &tickets)
	s.Require().Len(tickets, 1)
	s.Equal("tx1", tickets[0].TransactionID)
	s.Equal("lottery1", tickets[0].LotteryID)
	s.Equal(int64(1), tickets[0].Quantity)
	s.Equal("active", tickets[0].Status)
	s.NotEmpty(tickets[0].TimeLeft)

	w := s.do(http.MethodPost, RouteGroup+"/lotteries/lottery2/tickets", `{"quantity":2}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.decode(s.do(http.MethodGet, RouteGroup+"/tickets?status=active", ""), &tickets)
	s.Require().Len(tickets, 2)
	s.Equal("lottery2", tickets[0].LotteryID)
	s.Equal(int64(2), tickets[0].Quantity)

	s.decode(s.do(http.MethodGet, RouteGroup+"/tickets?status=won", ""), &tickets)
	s.Empty(tickets)

	w = s.do(http.MethodGet, RouteGroup+"/tickets?status=pending", "")
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.do(http.MethodPost, RouteGroup+"/session/logout", "")
	w = s.do(http.MethodGet, RouteGroup+"/tickets", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestDarkModeSharedAcrossSessions() {
	s.sessions = services.NewSessionService(services.SeededStoreFactory(
		services.WithPreferences(preferences.NewMemoryStore()),
	))
	h, err := NewHTTPHandler(s.sessions, testCookie)
	s.Require().NoError(err)
	s.router = NewRouter(h, []string{"*"})

	var state stateResponse
	s.decode(s.do(http.MethodGet, RouteGroup+"/state", ""), &state)
	s.False(state.DarkMode)
	first := s.cookie

	s.cookie = nil
	s.decode(s.do(http.MethodGet, RouteGroup+"/state", ""), &state)
	s.False(state.DarkMode)
	second := s.cookie
	s.Require().NotEqual(first.Value, second.Value)

	var dark struct {
		DarkMode bool `json:"darkMode"`
	}
	s.decode(s.do(http.MethodPost, RouteGroup+"/preferences/dark-mode", ""), &dark)
	s.True(dark.DarkMode)

	s.cookie = first
	s.decode(s.do(http.MethodGet, RouteGroup+"/state", ""), &state)
	s.True(state.DarkMode)

	s.decode(s.do(http.MethodPost, RouteGroup+"/preferences/dark-mode", ""), &dark)
	s.False(dark.DarkMode)
}

func TestBalanceOf(t *testing.T) {
	ctx := context.Background()

	loggedOut, err := services.NewStore(ctx, services.Seed{})
	require.NoError(t, err)
	assert.Nil(t, balanceOf(loggedOut))

	seeded, err := services.NewStore(ctx, services.DefaultSeed(time.Now()))
	require.NoError(t, err)
	got := balanceOf(seeded)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))

	seeded.Logout()
	assert.Nil(t, balanceOf(seeded))
}
