package http

import (
	"errors"
	"fmt"
	"net/http"

	domain "udyam-verification/internal/domain/otp"
	"udyam-verification/internal/usecase/otp"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgOTPSent          = "OTP sent successfully"
	MsgOTPVerified      = "OTP verified successfully"
	MsgOTPRateLimited   = "Too many OTP requests. Please try again after an hour."
	MsgOTPNotFound      = "OTP not found. Please request a new OTP."
	MsgOTPExpired       = "OTP has expired. Please request a new OTP."
	MsgOTPAlready       = "OTP already verified."
	MsgOTPExceeded      = "Maximum OTP attempts exceeded. Please request a new OTP."
	MsgOTPNoneForPair   = "No OTP found for this combination"
	MsgOTPSendFailed    = "Failed to send OTP. Please try again."
	MsgOTPVerifyFailed  = "Failed to verify OTP. Please try again."
	msgInvalidOTPFormat = "Invalid OTP. %d attempts remaining."
)

type OTPHandler struct {
	uc  *otp.Usecase
	log *zap.Logger
}

func NewOTPHandler(uc *otp.Usecase, log *zap.Logger) *OTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OTPHandler{uc: uc, log: log}
}

type sendOTPReq struct {
	Aadhaar          string `json:"aadhaar"          validate:"required,aadhaar"`
	EntrepreneurName string `json:"entrepreneurName" validate:"required,name"`
	Mobile           string `json:"mobile"           validate:"required,mobile"`
}

type verifyOTPReq struct {
	Aadhaar          string `json:"aadhaar"          validate:"required,aadhaar"`
	EntrepreneurName string `json:"entrepreneurName" validate:"required,name"`
	Mobile           string `json:"mobile"           validate:"required,mobile"`
	OTP              string `json:"otp"              validate:"required,otp"`
}

func (h *OTPHandler) SendOTP(c echo.Context) error {
	var req sendOTPReq
	if valid, err := bindValid(c, &req); !valid {
		return err
	}
	res, err := h.uc.Issue(c.Request().Context(), otp.IssueInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return fail(c, http.StatusTooManyRequests, MsgOTPRateLimited)
		}
		h.log.Error("send otp failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgOTPSendFailed)
	}
	return success(c, http.StatusOK, MsgOTPSent, map[string]any{
		"mobile":     "+91 " + res.Mobile,
		"expiryTime": res.ExpiresAt,
	})
}

func (h *OTPHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if valid, err := bindValid(c, &req); !valid {
		return err
	}
	res, err := h.uc.Verify(c.Request().Context(), otp.VerifyInput{
		Aadhaar: req.Aadhaar,
		Mobile:  req.Mobile,
		Code:    req.OTP,
	})
	if err != nil {
		var invalid *domain.InvalidCodeError
		switch {
		case errors.As(err, &invalid):
			return fail(c, http.StatusBadRequest, fmt.Sprintf(msgInvalidOTPFormat, invalid.Remaining))
		case errors.Is(err, domain.ErrNotFound):
			return fail(c, http.StatusBadRequest, MsgOTPNotFound)
		case errors.Is(err, domain.ErrExpired):
			return fail(c, http.StatusBadRequest, MsgOTPExpired)
		case errors.Is(err, domain.ErrAlreadyVerified):
			return fail(c, http.StatusBadRequest, MsgOTPAlready)
		case errors.Is(err, domain.ErrAttemptsExceeded):
			return fail(c, http.StatusBadRequest, MsgOTPExceeded)
		}
		h.log.Error("verify otp failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgOTPVerifyFailed)
	}
	return success(c, http.StatusOK, MsgOTPVerified, res)
}

func (h *OTPHandler) Status(c echo.Context) error {
	st, err := h.uc.Status(c.Request().Context(), c.Param("aadhaar"), c.Param("mobile"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, MsgOTPNoneForPair)
		}
		return fail(c, http.StatusInternalServerError, "Failed to get OTP status")
	}
	return success(c, http.StatusOK, "", st)
}
