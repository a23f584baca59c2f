package http

import (
	"encoding/json"
	"net/http"

	"github.com/awtadhr/payroll-backend-go/internal/domain/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/handler/http/response"
	ledgerservice "github.com/awtadhr/payroll-backend-go/internal/service/ledger"
	"github.com/go-chi/chi/v5"
)

type LedgerHandler interface {
	// Loan handlers
	CreateLoan(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	UpdateLoan(w http.ResponseWriter, r *http.Request)
	DeleteLoan(w http.ResponseWriter, r *http.Request)

	// Challan handlers
	CreateChallan(w http.ResponseWriter, r *http.Request)
	GetChallan(w http.ResponseWriter, r *http.Request)
	ListChallans(w http.ResponseWriter, r *http.Request)
	UpdateChallan(w http.ResponseWriter, r *http.Request)
	DeleteChallan(w http.ResponseWriter, r *http.Request)

	// Ledger view
	GetEmployeeLedger(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledgerservice.LedgerService
}

func NewLedgerHandler(ledgerService ledgerservice.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
	}
}

// ==================== LOAN HANDLERS ====================

func (h *ledgerHandlerImpl) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.CreateLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan transaction created successfully", result)
}

func (h *ledgerHandlerImpl) GetLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ledgerService.GetLoan(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id query parameter is required", nil)
		return
	}

	results, err := h.ledgerService.ListLoans(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *ledgerHandlerImpl) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ledger.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := h.ledgerService.UpdateLoan(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan transaction updated successfully", nil)
}

func (h *ledgerHandlerImpl) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteLoan(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan transaction deleted successfully", nil)
}

// ==================== CHALLAN HANDLERS ====================

func (h *ledgerHandlerImpl) CreateChallan(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateChallanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.CreateChallan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Challan transaction created successfully", result)
}

func (h *ledgerHandlerImpl) GetChallan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.ledgerService.GetChallan(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) ListChallans(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id query parameter is required", nil)
		return
	}

	results, err := h.ledgerService.ListChallans(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *ledgerHandlerImpl) UpdateChallan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ledger.UpdateChallanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := h.ledgerService.UpdateChallan(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Challan transaction updated successfully", nil)
}

func (h *ledgerHandlerImpl) DeleteChallan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteChallan(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Challan transaction deleted successfully", nil)
}

// ==================== LEDGER VIEW ====================

func (h *ledgerHandlerImpl) GetEmployeeLedger(w http.ResponseWriter, r *http.Request) {
	employeeCode := chi.URLParam(r, "employeeCode")

	result, err := h.ledgerService.GetEmployeeLedger(r.Context(), employeeCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
