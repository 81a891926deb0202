package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/services"
	helpers "github.com/roddesu/updatedsafespace/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordResetService
}

func NewPasswordHandler(svc *services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type resetRequestReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	NewPassword string `json:"newPassword"`
}

// RequestReset godoc
// @Summary Request a password-reset link
// @Description Mails a single-use reset link. The response is identical whether or not the email is registered.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetRequestReq true "Account email"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /reset-request [post]
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetRequestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		log.Warn("Invalid payload in RequestReset")
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The uniform answer is the point: never reveal whether the email exists.
	if err := h.svc.RequestReset(r.Context(), req.Email); err != nil {
		log.Error("Reset request failed", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
	}

	helpers.Success(w, "If the email exists, a reset link has been sent.")
}

// ResetPassword godoc
// @Summary Set a new password using a reset token
// @Tags password
// @Accept json
// @Produce json
// @Param token path string true "Reset token from the emailed link"
// @Param input body resetPasswordReq true "New password"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Invalid, expired or spent token"
// @Router /reset/{token} [post]
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	token := mux.Vars(r)["token"]

	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.NewPassword) == "" {
		log.Warn("Invalid payload in ResetPassword")
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.svc.ResetPassword(r.Context(), token, req.NewPassword)
	switch {
	case err == nil:
		helpers.Success(w, "Password has been reset.")
	case errors.Is(err, services.ErrPasswordTooShort):
		helpers.Fail(w, http.StatusBadRequest, "Password must be at least 8 characters.")
	case errors.Is(err, services.ErrResetTokenInvalid):
		helpers.Fail(w, http.StatusBadRequest, "Invalid or expired reset token.")
	default:
		log.Error("Password reset failed", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
