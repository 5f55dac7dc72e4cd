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

type UserController struct {
	service service_interfaces.UserService
}

func NewUserController(service service_interfaces.UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", c.create).Methods(http.MethodPost)
	router.HandleFunc("/users/{userId}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/users/{userId}/verify-pin", c.verifyPin).Methods(http.MethodPost)
}

func (c *UserController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	user, err := c.service.CreateUser(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.UserResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("user created", models.NewUserResponse(user))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *UserController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	user, err := c.service.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.UserResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("user retrieved", models.NewUserResponse(user))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) verifyPin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.VerifyUserPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.VerifyUserPinResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	userID := mux.Vars(r)["userId"]
	valid, err := c.service.VerifyTransactionPin(r.Context(), userID, req.Pin)
	if err != nil {
		logError(r, err, nil)
		status, message := statusFromError(err)
		response := commons.ErrorResponse[models.VerifyUserPinResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("pin verification completed", models.VerifyUserPinResponse{
		UserID:     userID,
		IsValidPin: valid,
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
