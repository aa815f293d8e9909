package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ActorHeader carries the ID of the authenticated user performing the request
const ActorHeader = "X-Actor-ID"

// LedgerService is the set of ledger operations exposed over HTTP
type LedgerService interface {
	CreateMember(ctx context.Context, request *domain.CreateMemberRequest) (*domain.MemberResponse, error)
	GetMember(ctx context.Context, memberID int64) (*domain.MemberResponse, error)
	ListMemberTransactions(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error)

	SubmitDeposit(ctx context.Context, request *domain.SubmitDepositRequest) (*domain.Deposit, error)
	ApproveDeposit(ctx context.Context, depositID, approverID int64) (*domain.Deposit, error)
	RejectDeposit(ctx context.Context, depositID, rejecterID int64, reason string) (*domain.Deposit, error)

	RequestLoan(ctx context.Context, request *domain.RequestLoanRequest) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID int64) (*domain.LoanView, error)
	ApproveLoan(ctx context.Context, loanID, approverID int64) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID, rejecterID int64, reason string) (*domain.Loan, error)
	DisburseLoan(ctx context.Context, loanID, disburserID int64) (*domain.Loan, error)
	RecordLoanPayment(ctx context.Context, request *domain.RecordLoanPaymentRequest) (*domain.LoanPayment, error)
	ApproveLoanPayment(ctx context.Context, paymentID, approverID int64) (*domain.LoanPayment, error)
	RejectLoanPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.LoanPayment, error)

	SubmitPenaltyPayment(ctx context.Context, request *domain.SubmitPenaltyPaymentRequest) (*domain.PenaltyPayment, error)
	ApprovePenaltyPayment(ctx context.Context, paymentID, approverID int64) (*domain.PenaltyPayment, error)
	RejectPenaltyPayment(ctx context.Context, paymentID, rejecterID int64, reason string) (*domain.PenaltyPayment, error)

	UpdateTotals(ctx context.Context) (*domain.CollectiveFund, error)
	SetMonthlyDeadline(ctx context.Context, month time.Time, day int) (*domain.MonthlyDeadline, error)
	Location() *time.Location
}

type LedgerHandler struct {
	service   LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
	}
}

// newValidator lets numeric tags such as gt=0 apply to decimal fields
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Routes registers the ledger API on a subrouter
func (h *LedgerHandler) Routes(api *mux.Router) {
	api.HandleFunc("/members", h.CreateMember).Methods("POST")
	api.HandleFunc("/members/{memberId}", h.GetMember).Methods("GET")
	api.HandleFunc("/members/{memberId}/transactions", h.ListMemberTransactions).Methods("GET")
	api.HandleFunc("/members/{memberId}/deposits", h.SubmitDeposit).Methods("POST")
	api.HandleFunc("/members/{memberId}/loans", h.RequestLoan).Methods("POST")

	api.HandleFunc("/deposits/{depositId}/approve", h.ApproveDeposit).Methods("POST")
	api.HandleFunc("/deposits/{depositId}/reject", h.RejectDeposit).Methods("POST")

	api.HandleFunc("/loans/{loanId}", h.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/approve", h.ApproveLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/reject", h.RejectLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/disburse", h.DisburseLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", h.RecordLoanPayment).Methods("POST")
	api.HandleFunc("/loan-payments/{paymentId}/approve", h.ApproveLoanPayment).Methods("POST")
	api.HandleFunc("/loan-payments/{paymentId}/reject", h.RejectLoanPayment).Methods("POST")

	api.HandleFunc("/penalties/{penaltyId}/payments", h.SubmitPenaltyPayment).Methods("POST")
	api.HandleFunc("/penalty-payments/{paymentId}/approve", h.ApprovePenaltyPayment).Methods("POST")
	api.HandleFunc("/penalty-payments/{paymentId}/reject", h.RejectPenaltyPayment).Methods("POST")

	api.HandleFunc("/fund", h.GetFund).Methods("GET")
	api.HandleFunc("/deadlines/{month}", h.SetDeadline).Methods("PUT")
}

// CreateMember handles POST /members
func (h *LedgerHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	member, err := h.service.CreateMember(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, member)
}

// GetMember handles GET /members/{memberId}
func (h *LedgerHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "memberId")
	if !ok {
		return
	}

	member, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, member)
}

// ListMemberTransactions handles GET /members/{memberId}/transactions
func (h *LedgerHandler) ListMemberTransactions(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "memberId")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txns, err := h.service.ListMemberTransactions(r.Context(), memberID, limit)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, txns)
}

// SubmitDeposit handles POST /members/{memberId}/deposits
func (h *LedgerHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "memberId")
	if !ok {
		return
	}

	var req domain.SubmitDepositRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.MemberID = memberID

	deposit, err := h.service.SubmitDeposit(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, deposit)
}

// ApproveDeposit handles POST /deposits/{depositId}/approve
func (h *LedgerHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "depositId", func(ctx context.Context, id, actor int64) (interface{}, error) {
		return h.service.ApproveDeposit(ctx, id, actor)
	})
}

// RejectDeposit handles POST /deposits/{depositId}/reject
func (h *LedgerHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "depositId", func(ctx context.Context, id, actor int64, reason string) (interface{}, error) {
		return h.service.RejectDeposit(ctx, id, actor, reason)
	})
}

// RequestLoan handles POST /members/{memberId}/loans
func (h *LedgerHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "memberId")
	if !ok {
		return
	}

	var req domain.RequestLoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.MemberID = memberID

	loan, err := h.service.RequestLoan(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, loan)
}

// GetLoan handles GET /loans/{loanId}
func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LedgerHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "loanId", func(ctx context.Context, id, actor int64) (interface{}, error) {
		return h.service.ApproveLoan(ctx, id, actor)
	})
}

func (h *LedgerHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "loanId", func(ctx context.Context, id, actor int64, reason string) (interface{}, error) {
		return h.service.RejectLoan(ctx, id, actor, reason)
	})
}

func (h *LedgerHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "loanId", func(ctx context.Context, id, actor int64) (interface{}, error) {
		return h.service.DisburseLoan(ctx, id, actor)
	})
}

// RecordLoanPayment handles POST /loans/{loanId}/payments
func (h *LedgerHandler) RecordLoanPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	var req domain.RecordLoanPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.LoanID = loanID

	payment, err := h.service.RecordLoanPayment(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *LedgerHandler) ApproveLoanPayment(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "paymentId", func(ctx context.Context, id, actor int64) (interface{}, error) {
		return h.service.ApproveLoanPayment(ctx, id, actor)
	})
}

func (h *LedgerHandler) RejectLoanPayment(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "paymentId", func(ctx context.Context, id, actor int64, reason string) (interface{}, error) {
		return h.service.RejectLoanPayment(ctx, id, actor, reason)
	})
}

// SubmitPenaltyPayment handles POST /penalties/{penaltyId}/payments
func (h *LedgerHandler) SubmitPenaltyPayment(w http.ResponseWriter, r *http.Request) {
	penaltyID, ok := pathID(w, r, "penaltyId")
	if !ok {
		return
	}

	var req domain.SubmitPenaltyPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.PenaltyID = penaltyID

	payment, err := h.service.SubmitPenaltyPayment(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *LedgerHandler) ApprovePenaltyPayment(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "paymentId", func(ctx context.Context, id, actor int64) (interface{}, error) {
		return h.service.ApprovePenaltyPayment(ctx, id, actor)
	})
}

func (h *LedgerHandler) RejectPenaltyPayment(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "paymentId", func(ctx context.Context, id, actor int64, reason string) (interface{}, error) {
		return h.service.RejectPenaltyPayment(ctx, id, actor, reason)
	})
}

// GetFund handles GET /fund; the totals are recomputed on every read
func (h *LedgerHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	fund, err := h.service.UpdateTotals(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, fund)
}

// SetDeadline handles PUT /deadlines/{month} with month formatted as YYYY-MM
func (h *LedgerHandler) SetDeadline(w http.ResponseWriter, r *http.Request) {
	month, err := time.ParseInLocation("2006-01", mux.Vars(r)["month"], h.service.Location())
	if err != nil {
		response.BadRequest(w, "Month must be formatted as YYYY-MM", err)
		return
	}

	var req domain.SetDeadlineRequest
	if !h.decode(w, r, &req) {
		return
	}

	deadline, err := h.service.SetMonthlyDeadline(r.Context(), month, req.DeadlineDay)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, deadline)
}

// decide runs an approve style decision on the entity named by the path variable
func (h *LedgerHandler) decide(w http.ResponseWriter, r *http.Request, idVar string, fn func(ctx context.Context, id, actor int64) (interface{}, error)) {
	id, ok := pathID(w, r, idVar)
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	result, err := fn(r.Context(), id, actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LedgerHandler) reject(w http.ResponseWriter, r *http.Request, idVar string, fn func(ctx context.Context, id, actor int64, reason string) (interface{}, error)) {
	id, ok := pathID(w, r, idVar)
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req domain.RejectRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := fn(r.Context(), id, actor, req.Reason)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}

func actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(ActorHeader), 10, 64)
	if err != nil || id <= 0 {
		response.Unauthorized(w, "Missing or invalid "+ActorHeader+" header")
		return 0, false
	}
	return id, true
}
