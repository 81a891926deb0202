package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/repository"
	"github.com/roddesu/updatedsafespace/internal/services"
	helpers "github.com/roddesu/updatedsafespace/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	accountService *services.AccountService
}

func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Register godoc
// @Summary Register with an institutional email and receive an OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Registration data"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Invalid email or payload"
// @Failure 500 {object} helpers.Response "Database or delivery error"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in Register", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.accountService.Register(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		helpers.Success(w, "OTP sent successfully")
	case errors.Is(err, services.ErrInvalidEmail):
		helpers.Fail(w, http.StatusBadRequest, "Please enter a valid UB email address.")
	case errors.Is(err, services.ErrDeliveryFailed):
		helpers.Fail(w, http.StatusInternalServerError, "Failed to send email")
	default:
		log.Error("Registration failed", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Database error")
	}
}

// VerifyOTP godoc
// @Summary Confirm email ownership with the emailed OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param input body verifyOTPRequest true "Email and code"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Expired, wrong or absent code"
// @Failure 404 {object} helpers.Response "Unknown email"
// @Router /verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in VerifyOTP", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.accountService.VerifyOTP(r.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		helpers.Success(w, "Your registration is now complete.")
	case errors.Is(err, repository.ErrAccountNotFound):
		helpers.Fail(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, services.ErrOTPExpired):
		helpers.Fail(w, http.StatusBadRequest, "OTP has expired. Please register again.")
	case errors.Is(err, services.ErrOTPMismatch):
		helpers.Fail(w, http.StatusBadRequest, "Invalid OTP.")
	case errors.Is(err, services.ErrNoActiveOTP):
		helpers.Fail(w, http.StatusBadRequest, "No active OTP for this account.")
	default:
		log.Error("OTP verification failed", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Internal server error.")
	}
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Credentials"
// @Success 200 {object} helpers.Response "success + user payload"
// @Failure 401 {object} helpers.Response "Wrong password"
// @Failure 404 {object} helpers.Response "Unknown email"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in Login", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accountService.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		helpers.JSON(w, http.StatusOK, helpers.Response{Success: true, User: user})
	case errors.Is(err, repository.ErrAccountNotFound):
		helpers.Fail(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, services.ErrInvalidPassword):
		helpers.Fail(w, http.StatusUnauthorized, "Invalid password.")
	default:
		log.Error("Login failed", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Internal server error.")
	}
}
