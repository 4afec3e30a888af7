package http

import (
	"errors"
	"net/http"

	domain "udyam-verification/internal/domain/pan"
	"udyam-verification/internal/usecase/pan"
	"udyam-verification/internal/validation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgPANVerified       = "PAN verified successfully"
	MsgPANCached         = "PAN already verified"
	MsgPANInvalidFormat  = "Invalid PAN format"
	MsgPANNoVerification = "No verification found for this PAN"
	MsgPANMockData       = "Mock PAN data for testing"
	MsgPANVerifyFailed   = "Failed to verify PAN. Please try again."
	MsgPANStatusFailed   = "Failed to get PAN status"
)

type PANHandler struct {
	uc  *pan.Usecase
	log *zap.Logger
}

func NewPANHandler(uc *pan.Usecase, log *zap.Logger) *PANHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PANHandler{uc: uc, log: log}
}

type verifyPANReq struct {
	PAN           string `json:"pan"           validate:"required,pan"`
	PanHolderName string `json:"panHolderName" validate:"required,name"`
	DateOfBirth   string `json:"dateOfBirth"   validate:"required,pastdate"`
}

func (h *PANHandler) VerifyPAN(c echo.Context) error {
	var req verifyPANReq
	if valid, err := bindValid(c, &req); !valid {
		return err
	}
	res, err := h.uc.Verify(c.Request().Context(), pan.VerifyInput{
		PAN:         req.PAN,
		Name:        req.PanHolderName,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnderage):
			return failFields(c, http.StatusBadRequest, err.Error(), map[string]string{"dateOfBirth": validation.MsgUnderage})
		case errors.Is(err, domain.ErrInvalidAge):
			return failFields(c, http.StatusBadRequest, err.Error(), map[string]string{"dateOfBirth": validation.MsgDateOfBirth})
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInactive),
			errors.Is(err, domain.ErrNameMismatch),
			errors.Is(err, domain.ErrDOBMismatch):
			return failFields(c, http.StatusBadRequest, err.Error(), map[string]string{"pan": err.Error()})
		}
		h.log.Error("verify pan failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgPANVerifyFailed)
	}
	msg := MsgPANVerified
	if res.Cached {
		msg = MsgPANCached
	}
	return success(c, http.StatusOK, msg, res)
}

func (h *PANHandler) Status(c echo.Context) error {
	p := c.Param("pan")
	if validation.ValidatePAN(p) != "" {
		return fail(c, http.StatusBadRequest, MsgPANInvalidFormat)
	}
	st, err := h.uc.Latest(c.Request().Context(), p)
	if err != nil {
		if errors.Is(err, domain.ErrNoVerification) {
			return fail(c, http.StatusNotFound, MsgPANNoVerification)
		}
		h.log.Error("pan status failed", zap.String("pan", p), zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgPANStatusFailed)
	}
	return success(c, http.StatusOK, "", st)
}

func (h *PANHandler) MockData(c echo.Context) error {
	return success(c, http.StatusOK, MsgPANMockData, h.uc.Directory())
}
