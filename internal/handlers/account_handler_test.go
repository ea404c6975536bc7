package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/middleware"
	"ledger/internal/models"
	"ledger/internal/services"
)

// --- mock account service ---

type mockAccountService struct {
	listAccountsFn       func(userID string) ([]models.Account, error)
	getAccountFn         func(userID, accountID string) (*models.Account, error)
	createAccountFn      func(userID, name string) (*models.Account, error)
	updateAccountFn      func(userID, accountID, name string) (*models.Account, error)
	deleteAccountFn      func(userID, accountID string) error
	bulkDeleteAccountsFn func(userID string, ids []string) ([]string, error)
}

func (m *mockAccountService) ListAccounts(_ context.Context, userID string) ([]models.Account, error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(userID)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccount(_ context.Context, userID, accountID string) (*models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) CreateAccount(_ context.Context, userID, name string) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, name)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(_ context.Context, userID, accountID, name string) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, name)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(_ context.Context, userID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(userID, accountID)
	}
	return nil
}

func (m *mockAccountService) BulkDeleteAccounts(_ context.Context, userID string, ids []string) ([]string, error) {
	if m.bulkDeleteAccountsFn != nil {
		return m.bulkDeleteAccountsFn(userID, ids)
	}
	return []string{}, nil
}

// verify interface compliance
var _ services.AccountServicer = (*mockAccountService)(nil)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/accounts", handler.ListAccounts)
	auth.GET("/accounts/:id", handler.GetAccount)
	auth.POST("/accounts", handler.CreateAccount)
	auth.PATCH("/accounts/:id", handler.UpdateAccount)
	auth.DELETE("/accounts/:id", handler.DeleteAccount)
	auth.POST("/accounts/bulk-delete", handler.BulkDeleteAccounts)

	// Route without injected identity.
	r.GET("/anonymous/accounts", handler.ListAccounts)
	return r
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	t.Run("returns data envelope", func(t *testing.T) {
		svc := &mockAccountService{
			listAccountsFn: func(userID string) ([]models.Account, error) {
				if userID != testUserID {
					t.Errorf("expected caller %s, got %s", testUserID, userID)
				}
				return []models.Account{
					{Base: models.Base{ID: "a1"}, Name: "Checking", UserID: userID},
					{Base: models.Base{ID: "a2"}, Name: "Savings", UserID: userID},
				}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/accounts", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataList(t, parseJSON(t, rec))
		if len(data) != 2 {
			t.Fatalf("expected 2 accounts, got %d", len(data))
		}
		first := data[0].(map[string]interface{})
		if first["id"] != "a1" || first["name"] != "Checking" {
			t.Errorf("unexpected account: %v", first)
		}
		if _, leaked := first["user_id"]; leaked {
			t.Error("owner must not be serialized")
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/accounts", "")
		if rec.Body.String() != `{"data":[]}` {
			t.Errorf("expected empty data array, got %s", rec.Body.String())
		}
	})

	t.Run("returns 401 without identity", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/anonymous/accounts", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})

	t.Run("hides storage errors", func(t *testing.T) {
		svc := &mockAccountService{
			listAccountsFn: func(string) ([]models.Account, error) {
				return nil, errors.New("dial tcp 10.0.0.1:5432: connection refused")
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/accounts", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		errObj := assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
		if errObj["message"] != apperrors.ErrInternalServer.Message {
			t.Errorf("expected generic message, got %v", errObj["message"])
		}
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("returns 404 for unknown or foreign account", func(t *testing.T) {
		svc := &mockAccountService{
			getAccountFn: func(_, _ string) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/accounts/other", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})

	t.Run("passes path id", func(t *testing.T) {
		svc := &mockAccountService{
			getAccountFn: func(_, accountID string) (*models.Account, error) {
				return &models.Account{Base: models.Base{ID: accountID}, Name: "Cash"}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/accounts/a9", "")
		data := dataObject(t, parseJSON(t, rec))
		if data["id"] != "a9" {
			t.Errorf("expected a9, got %v", data["id"])
		}
	})
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockAccountService{
			createAccountFn: func(userID, name string) (*models.Account, error) {
				return &models.Account{Base: models.Base{ID: "new"}, UserID: userID, Name: name}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"Savings","id":"forged"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		data := dataObject(t, parseJSON(t, rec))
		if data["id"] != "new" || data["name"] != "Savings" {
			t.Errorf("unexpected account: %v", data)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_ACCOUNT" {
			t.Errorf("expected CREATE_ACCOUNT audit entry, got %v", audit.entries)
		}
	})

	t.Run("returns 400 with field message", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))

		for _, body := range []string{`{}`, `{"name":"   "}`, `{"name":`, ``} {
			rec := doRequest(r, http.MethodPost, "/accounts", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}

		rec := doRequest(r, http.MethodPost, "/accounts", `{}`)
		errObj := parseJSON(t, rec)["error"].(map[string]interface{})
		if errObj["message"] != "name is required" {
			t.Errorf("expected field-level message, got %v", errObj["message"])
		}
	})

	t.Run("returns 409 with constraint on duplicate", func(t *testing.T) {
		svc := &mockAccountService{
			createAccountFn: func(_, _ string) (*models.Account, error) {
				return nil, apperrors.WithConstraint(apperrors.ErrDuplicateAccountName, services.AccountNameConstraint, errors.New("UNIQUE constraint failed"))
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"cash"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		errObj := assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_ACCOUNT_NAME")
		if errObj["constraint"] != services.AccountNameConstraint {
			t.Errorf("expected constraint %s, got %v", services.AccountNameConstraint, errObj["constraint"])
		}
	})
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	svc := &mockAccountService{
		updateAccountFn: func(_, accountID, name string) (*models.Account, error) {
			if accountID == "missing" {
				return nil, apperrors.ErrAccountNotFound
			}
			return &models.Account{Base: models.Base{ID: accountID}, Name: name}, nil
		},
	}
	r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

	t.Run("returns updated account", func(t *testing.T) {
		rec := doRequest(r, http.MethodPatch, "/accounts/a1", `{"name":"Bills"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if dataObject(t, parseJSON(t, rec))["name"] != "Bills" {
			t.Error("expected renamed account")
		}
	})

	t.Run("returns 404", func(t *testing.T) {
		rec := doRequest(r, http.MethodPatch, "/accounts/missing", `{"name":"Bills"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_DeleteAccount(t *testing.T) {
	audit := &mockAuditService{}
	svc := &mockAccountService{
		deleteAccountFn: func(_, accountID string) error {
			if accountID == "missing" {
				return apperrors.ErrAccountNotFound
			}
			return nil
		},
	}
	r := setupAccountRouter(NewAccountHandler(svc, audit))

	rec := doRequest(r, http.MethodDelete, "/accounts/a1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if dataObject(t, parseJSON(t, rec))["id"] != "a1" {
		t.Error("expected deleted id in response")
	}

	rec = doRequest(r, http.MethodDelete, "/accounts/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(audit.entries) != 1 {
		t.Errorf("expected only the successful delete to be audited, got %d entries", len(audit.entries))
	}
}

func TestAccountHandler_BulkDeleteAccounts(t *testing.T) {
	t.Run("returns deleted ids", func(t *testing.T) {
		svc := &mockAccountService{
			bulkDeleteAccountsFn: func(_ string, ids []string) ([]string, error) {
				return ids[:1], nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/accounts/bulk-delete", `{"ids":["a1","b2"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		data := dataList(t, parseJSON(t, rec))
		if len(data) != 1 || data[0].(map[string]interface{})["id"] != "a1" {
			t.Errorf("unexpected data: %v", data)
		}
	})

	t.Run("empty result is success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, audit))
		rec := doRequest(r, http.MethodPost, "/accounts/bulk-delete", `{"ids":["foreign"]}`)
		if rec.Code != http.StatusOK || rec.Body.String() != `{"data":[]}` {
			t.Fatalf("expected 200 with empty data, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.entries) != 0 {
			t.Error("expected no audit entry for an empty delete")
		}
	})

	t.Run("requires at least one id", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}, &mockAuditService{}))
		for _, body := range []string{`{}`, `{"ids":[]}`, `{"ids":[""]}`} {
			rec := doRequest(r, http.MethodPost, "/accounts/bulk-delete", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			}
		}
	})
}
