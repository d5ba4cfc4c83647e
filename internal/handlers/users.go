package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sairajtravels/site-api/internal/models"
	"github.com/sairajtravels/site-api/internal/services"
	pkghttp "github.com/sairajtravels/site-api/pkg/http"
)

// UserServiceInterface defines the interface for admin account management
type UserServiceInterface interface {
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.AdminUser, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.AdminUser, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

var _ UserServiceInterface = (*services.UserService)(nil)

// UsersHandler manages admin accounts. All routes require the ADMIN role.
type UsersHandler struct {
	service UserServiceInterface
}

func NewUsersHandler(service UserServiceInterface) *UsersHandler {
	return &UsersHandler{service: service}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER VIEWER"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Create provisions an admin account. The temporary password goes out by
// email only; the response never contains it.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.service.CreateUser(r.Context(), services.CreateUserInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, toAdminUserResponse(created))
}

// List returns admin accounts, newest first.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toAdminUserResponses(users))
}

// SetActive enables or disables an account.
func (h *UsersHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid user id")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Active == nil {
		pkghttp.WriteBadRequest(w, "Active is required")
		return
	}

	if err := h.service.SetActive(r.Context(), id, *req.Active); err != nil {
		writeServiceError(w, err)
		return
	}

	message := "User disabled"
	if *req.Active {
		message = "User enabled"
	}
	pkghttp.WriteSuccess(w, message)
}
