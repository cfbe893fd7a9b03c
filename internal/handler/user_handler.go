package handler

import (
	"net/http"

	"eshop/internal/model"
	"eshop/internal/response"
	"eshop/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user and authentication HTTP requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "User")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{"userCount": n})
}

// Create handles POST /users (administrators only); isAdmin is honoured.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Register handles POST /users/register; the new user is never an administrator.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "User")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	var req model.UserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	user, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "User")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeMessage(w, "the user is deleted!")
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
