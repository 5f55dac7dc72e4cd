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

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", c.create).Methods(http.MethodPost)
	router.HandleFunc("/accounts", c.list).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{accountId}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{accountId}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/accounts/{accountId}/users", c.listUsers).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{accountId}/users", c.addUser).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{accountId}/users/{userId}", c.removeUser).Methods(http.MethodDelete)
}

func (c *AccountController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	account, err := c.service.CreateAccount(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.AccountResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("account created", models.NewAccountResponse(account))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accounts, err := c.service.ListAccounts(r.Context())
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[[]models.AccountResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("accounts retrieved", models.NewAccountResponses(accounts))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.service.GetAccount(r.Context(), mux.Vars(r)["accountId"])
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.AccountResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("account retrieved", models.NewAccountResponse(account))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	account, err := c.service.UpdateAccount(r.Context(), mux.Vars(r)["accountId"], req)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.AccountResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("account updated", models.NewAccountResponse(account))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) listUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	users, err := c.service.ListAccountUsers(r.Context(), mux.Vars(r)["accountId"])
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[[]models.UserResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("account users retrieved", models.NewUserResponses(users))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) addUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.AccountUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[struct{}]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := c.service.AddUserToAccount(r.Context(), mux.Vars(r)["accountId"], req); err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[struct{}](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("user added to account", struct{}{})
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) removeUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	vars := mux.Vars(r)
	if err := c.service.RemoveUserFromAccount(r.Context(), vars["accountId"], vars["userId"]); err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[struct{}](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("user removed from account", struct{}{})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
