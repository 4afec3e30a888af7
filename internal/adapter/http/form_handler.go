package http

import (
	"errors"
	"net/http"
	"strconv"

	domain "udyam-verification/internal/domain/submission"
	"udyam-verification/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgFormSubmitted       = "Form submitted successfully"
	MsgFormInvalid         = "Form validation failed"
	MsgFormDuplicate       = "A submission already exists for this Aadhaar-PAN combination"
	MsgFormSubmitFailed    = "Failed to submit form. Please try again."
	MsgApplicationNotFound = "Application not found"
	MsgStatusFailed        = "Failed to get application status"
	MsgSubmissionsFailed   = "Failed to get submissions"
	MsgStatisticsFailed    = "Failed to get statistics"
)

type FormHandler struct {
	uc  *submission.Usecase
	log *zap.Logger
}

func NewFormHandler(uc *submission.Usecase, log *zap.Logger) *FormHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormHandler{uc: uc, log: log}
}

type formDataReq struct {
	Aadhaar       string `json:"aadhaar"`
	Mobile        string `json:"mobile"`
	OTP           string `json:"otp"`
	PAN           string `json:"pan"`
	PanHolderName string `json:"panHolderName"`
	DateOfBirth   string `json:"dateOfBirth"`
}

type submitFormReq struct {
	FormData  formDataReq `json:"formData"`
	Timestamp string      `json:"timestamp"`
	UserAgent string      `json:"userAgent"`
	IPAddress string      `json:"ipAddress"`
}

// SubmitForm leaves field validation to the usecase so format and
// cross-check failures share one error shape.
func (h *FormHandler) SubmitForm(c echo.Context) error {
	var req submitFormReq
	if err := c.Bind(&req); err != nil {
		return errBadJSON
	}
	in := submission.SubmitInput{
		FormData:  submission.FormData(req.FormData),
		Timestamp: req.Timestamp,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
	}
	if in.UserAgent == "" {
		in.UserAgent = c.Request().UserAgent()
	}
	if in.IPAddress == "" {
		in.IPAddress = c.RealIP()
	}

	res, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		var (
			ve *submission.ValidationError
			ie *submission.IntegrityError
			de *submission.DuplicateError
		)
		switch {
		case errors.As(err, &ve):
			return failFields(c, http.StatusBadRequest, firstMessage(ve.Fields), ve.Fields)
		case errors.As(err, &ie):
			return failFields(c, http.StatusBadRequest, MsgFormInvalid, ie.Fields)
		case errors.As(err, &de):
			return c.JSON(http.StatusConflict, Response{Success: false, Message: MsgFormDuplicate, Data: de})
		}
		h.log.Error("submit form failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgFormSubmitFailed)
	}
	return success(c, http.StatusCreated, MsgFormSubmitted, res)
}

func (h *FormHandler) ApplicationStatus(c echo.Context) error {
	st, err := h.uc.Status(c.Request().Context(), c.Param("applicationId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(c, http.StatusNotFound, MsgApplicationNotFound)
		}
		h.log.Error("application status failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgStatusFailed)
	}
	return success(c, http.StatusOK, "", st)
}

func (h *FormHandler) Submissions(c echo.Context) error {
	// unparsable paging values fall back to the defaults
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	res, err := h.uc.List(c.Request().Context(), submission.ListInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		h.log.Error("list submissions failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgSubmissionsFailed)
	}
	return success(c, http.StatusOK, "", res)
}

func (h *FormHandler) Statistics(c echo.Context) error {
	st, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		h.log.Error("statistics failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, MsgStatisticsFailed)
	}
	return success(c, http.StatusOK, "", st)
}
