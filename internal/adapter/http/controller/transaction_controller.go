package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", c.create).Methods(http.MethodPost)
	router.HandleFunc("/transactions", c.list).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{groupId}/{type}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{accountId}/transactions", c.listForAccount).Methods(http.MethodGet)
}

func (c *TransactionController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	entry, err := c.service.CreateTransaction(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.TransactionResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("transaction recorded", models.NewTransactionResponse(entry))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
	c.respondList(w, r, "")
}

func (c *TransactionController) listForAccount(w http.ResponseWriter, r *http.Request) {
	c.respondList(w, r, mux.Vars(r)["accountId"])
}

func (c *TransactionController) respondList(w http.ResponseWriter, r *http.Request, accountID string) {
	start := time.Now()
	logRequest(r, nil)

	entries, err := c.service.ListTransactions(r.Context(), accountID)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[[]models.TransactionResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("transactions retrieved", models.NewTransactionResponses(entries))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	vars := mux.Vars(r)
	entry, err := c.service.GetTransaction(r.Context(), vars["groupId"], vars["type"])
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.TransactionResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("transaction retrieved", models.NewTransactionResponse(entry))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
