package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/models"
	"ledger/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// AccountRequest represents the request payload for creating or renaming an account.
type AccountRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// AccountResponse represents an account in the response.
type AccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccountEnvelope wraps a single account.
type AccountEnvelope struct {
	Data AccountResponse `json:"data"`
}

// AccountListEnvelope wraps a list of accounts.
type AccountListEnvelope struct {
	Data []AccountResponse `json:"data"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Name: a.Name}
}

// ListAccounts returns the caller's accounts
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} AccountListEnvelope
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		data = append(data, toAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, AccountListEnvelope{Data: data})
}

// GetAccount returns one account
// @Summary     Get an account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} AccountEnvelope
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountEnvelope{Data: toAccountResponse(account)})
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Account names are unique per user, ignoring case.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} AccountEnvelope "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]any{"name": account.Name})

	c.JSON(http.StatusCreated, AccountEnvelope{Data: toAccountResponse(account)})
}

// UpdateAccount renames an account
// @Summary     Rename an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Account ID"
// @Param       request body AccountRequest true "New name"
// @Success     200 {object} AccountEnvelope
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /accounts/{id} [patch]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]any{"name": account.Name})

	c.JSON(http.StatusOK, AccountEnvelope{Data: toAccountResponse(account)})
}

// DeleteAccount deletes an account and all of its transactions
// @Summary     Delete an account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} IDEnvelope
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID := c.Param("id")
	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ACCOUNT", "account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, IDEnvelope{Data: IDResponse{ID: accountID}})
}

// BulkDeleteAccounts deletes the caller's accounts among the given ids
// @Summary     Delete several accounts
// @Description Ids that do not exist or belong to another user are ignored.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IDsRequest true "Account IDs"
// @Success     200 {object} IDListEnvelope "Deleted ids"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts/bulk-delete [post]
func (h *AccountHandler) BulkDeleteAccounts(c *gin.Context) {
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

	deleted, err := h.accountService.BulkDeleteAccounts(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(deleted) > 0 {
		h.auditService.Log(c.Request.Context(), userID, "BULK_DELETE_ACCOUNTS", "account", "", c.ClientIP(),
			map[string]any{"ids": deleted})
	}

	c.JSON(http.StatusOK, IDListEnvelope{Data: toIDResponses(deleted)})
}
