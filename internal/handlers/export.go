package handlers

import (
	"encoding/csv"
	"time"

	"cryptolotto/internal/format"
	"cryptolotto/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

var ledgerCSVHeader = []string{"ID", "Date", "Type", "Description", "Amount (USDT)", "Status", "Lottery", "Reference"}

// ExportTransactionsCSV streams the filtered ledger as a CSV download.
// It accepts the same type and search parameters as ListTransactions.
func (h *HTTPHandler) ExportTransactionsCSV(c *gin.Context) {
	txs := services.FilterTransactions(storeFrom(c).Transactions(), c.Query("type"), c.Query("search"))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment;filename=transactions_"+h.now().Format("20060102")+".csv")

	// BOM so spreadsheet tools detect UTF-8
	if _, err := c.Writer.Write([]byte("\xef\xbb\xbf")); err != nil {
		logger.Errorf("Error writing CSV BOM: %v", err)
		return
	}

	w := csv.NewWriter(c.Writer)
	if err := w.Write(ledgerCSVHeader); err != nil {
		logger.Errorf("Error writing CSV header: %v", err)
		return
	}
	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Timestamp.UTC().Format(time.RFC3339),
			string(tx.Type),
			tx.Description,
			format.Currency(tx.Amount),
			string(tx.Status),
			tx.LotteryID,
			tx.Hash,
		}
		if err := w.Write(row); err != nil {
			logger.Errorf("Error writing CSV row: %v", err)
			return
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing CSV writer: %v", err)
	}
}
