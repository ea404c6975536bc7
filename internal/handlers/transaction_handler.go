package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/money"
	"ledger/internal/services"
	ledgervalidator "ledger/internal/validator"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the payload for creating or replacing a transaction.
// Amount is an integer in minor units or a decimal string in major units.
type TransactionRequest struct {
	AccountID  string        `json:"accountId" binding:"required,notblank"`
	CategoryID *string       `json:"categoryId"`
	Payee      string        `json:"payee" binding:"required,notblank,max=500"`
	Amount     *money.Amount `json:"amount" binding:"required" swaggertype:"integer"`
	Notes      *string       `json:"notes" binding:"omitempty,max=2000"`
	Date       string        `json:"date" binding:"required,date_ymd"`
}

// BulkUpdateRequest sets or, when categoryId is null, clears the category of
// several transactions.
type BulkUpdateRequest struct {
	IDs        []string `json:"ids" binding:"required,min=1,dive,required"`
	CategoryID *string  `json:"categoryId"`
}

// TransactionResponse represents a transaction in the response.
type TransactionResponse struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	CategoryID *string `json:"categoryId"`
	Payee      string  `json:"payee"`
	Amount     int64   `json:"amount"`
	Notes      *string `json:"notes"`
	AccountID  string  `json:"accountId"`
}

// TransactionListItem is a listed transaction with account and category names.
type TransactionListItem struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Category   *string `json:"category"`
	CategoryID *string `json:"categoryId"`
	Payee      string  `json:"payee"`
	Amount     int64   `json:"amount"`
	Notes      *string `json:"notes"`
	Account    string  `json:"account"`
	AccountID  string  `json:"accountId"`
}

// TransactionEnvelope wraps a single transaction.
type TransactionEnvelope struct {
	Data TransactionResponse `json:"data"`
}

// TransactionListEnvelope wraps a list of created transactions.
type TransactionListEnvelope struct {
	Data []TransactionResponse `json:"data"`
}

// TransactionItemsEnvelope wraps listed transactions.
type TransactionItemsEnvelope struct {
	Data []TransactionListItem `json:"data"`
}

func (r *TransactionRequest) toInput() services.TransactionInput {
	date, _ := time.Parse(ledgervalidator.DateLayout, r.Date)
	var amount int64
	if r.Amount != nil {
		amount = r.Amount.Minor()
	}
	return services.TransactionInput{
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		Payee:      r.Payee,
		Amount:     amount,
		Notes:      r.Notes,
		Date:       date,
	}
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         t.ID,
		Date:       formatDate(t.Date),
		CategoryID: t.CategoryID,
		Payee:      t.Payee,
		Amount:     t.Amount,
		Notes:      t.Notes,
		AccountID:  t.AccountID,
	}
}

// ListTransactions returns the caller's transactions in a date range
// @Summary     List transactions
// @Description Defaults to the 30 days ending today. Ordered by date, newest first.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "First day (yyyy-MM-dd)"
// @Param       to        query string false "Last day (yyyy-MM-dd)"
// @Param       accountId query string false "Only this account"
// @Success     200 {object} TransactionItemsEnvelope
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dateRange, err := dateRangeFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.transactionService.ListTransactions(c.Request.Context(), userID, services.TransactionFilter{
		Range:     dateRange,
		AccountID: optionalQuery(c, "accountId"),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := make([]TransactionListItem, 0, len(rows))
	for _, row := range rows {
		data = append(data, TransactionListItem{
			ID:         row.ID,
			Date:       formatDate(row.Date),
			Category:   row.Category,
			CategoryID: row.CategoryID,
			Payee:      row.Payee,
			Amount:     row.Amount,
			Notes:      row.Notes,
			Account:    row.Account,
			AccountID:  row.AccountID,
		})
	}
	c.JSON(http.StatusOK, TransactionItemsEnvelope{Data: data})
}

// GetTransaction returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionEnvelope
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionEnvelope{Data: toTransactionResponse(transaction)})
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} TransactionEnvelope "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"account_id": transaction.AccountID, "amount": transaction.Amount})

	c.JSON(http.StatusCreated, TransactionEnvelope{Data: toTransactionResponse(transaction)})
}

// BulkCreateTransactions creates several transactions at once
// @Summary     Create several transactions
// @Description All transactions are created, or none.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body []TransactionRequest true "Transactions"
// @Success     201 {object} TransactionListEnvelope "Transactions created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Router      /transactions/bulk-create [post]
func (h *TransactionHandler) BulkCreateTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req []TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	if len(req) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one transaction is required"))
		return
	}

	inputs := make([]services.TransactionInput, 0, len(req))
	for i := range req {
		inputs = append(inputs, req[i].toInput())
	}

	created, err := h.transactionService.BulkCreateTransactions(c.Request.Context(), userID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := make([]TransactionResponse, 0, len(created))
	ids := make([]string, 0, len(created))
	for i := range created {
		data = append(data, toTransactionResponse(&created[i]))
		ids = append(ids, created[i].ID)
	}

	h.auditService.Log(c.Request.Context(), userID, "BULK_CREATE_TRANSACTIONS", "transaction", "", c.ClientIP(),
		map[string]any{"ids": ids})

	c.JSON(http.StatusCreated, TransactionListEnvelope{Data: data})
}

// UpdateTransaction replaces a transaction
// @Summary     Update a transaction
// @Description Replaces every field; the payload is the same as for create.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} TransactionEnvelope
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"account_id": transaction.AccountID, "amount": transaction.Amount})

	c.JSON(http.StatusOK, TransactionEnvelope{Data: toTransactionResponse(transaction)})
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} IDEnvelope
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, IDEnvelope{Data: IDResponse{ID: transactionID}})
}

// BulkDeleteTransactions deletes the caller's transactions among the given ids
// @Summary     Delete several transactions
// @Description Ids that do not exist or belong to another user are ignored.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IDsRequest true "Transaction IDs"
// @Success     200 {object} IDListEnvelope "Deleted ids"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/bulk-delete [post]
func (h *TransactionHandler) BulkDeleteTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IDsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.transactionService.BulkDeleteTransactions(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(deleted) > 0 {
		h.auditService.Log(c.Request.Context(), userID, "BULK_DELETE_TRANSACTIONS", "transaction", "", c.ClientIP(),
			map[string]any{"ids": deleted})
	}

	c.JSON(http.StatusOK, IDListEnvelope{Data: toIDResponses(deleted)})
}

// BulkUpdateTransactions re-categorizes the caller's transactions among the given ids
// @Summary     Re-categorize several transactions
// @Description Sets categoryId on every owned transaction; null clears it.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkUpdateRequest true "Transaction IDs and category"
// @Success     200 {object} IDListEnvelope "Updated ids"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /transactions/bulk-update [post]
func (h *TransactionHandler) BulkUpdateTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.transactionService.BulkUpdateTransactions(c.Request.Context(), userID, req.IDs, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(updated) > 0 {
		h.auditService.Log(c.Request.Context(), userID, "BULK_UPDATE_TRANSACTIONS", "transaction", "", c.ClientIP(),
			map[string]any{"ids": updated, "category_id": req.CategoryID})
	}

	c.JSON(http.StatusOK, IDListEnvelope{Data: toIDResponses(updated)})
}

// dateRangeFromQuery resolves the from/to query parameters.
func dateRangeFromQuery(c *gin.Context) (services.DateRange, error) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return services.DateRange{}, err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return services.DateRange{}, err
	}
	return services.ResolveDateRange(from, to, time.Now())
}
