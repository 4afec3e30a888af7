package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"udyam-verification/internal/adapter/middleware"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/usecase/otp"
	"udyam-verification/internal/usecase/pan"
	"udyam-verification/internal/usecase/submission"
	"udyam-verification/pkg/id"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	OTP   *otp.Usecase
	PAN   *pan.Usecase
	Forms *submission.Usecase

	Log     *zap.Logger
	Metrics *metrics.Metrics

	CORSOrigins []string

	// Redis enables Idempotency-Key handling on submit-form when set.
	Redis          *redis.Client
	IdempotencyTTL time.Duration

	Started time.Time
}

func NewRouter(d RouterDeps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: id.NewID32}))
	e.Use(requestLogger(log, d.Metrics))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderIdempotencyKey},
		AllowCredentials: true,
	}))

	started := d.Started
	if started.IsZero() {
		started = time.Now()
	}
	h := NewHandler(started)
	e.GET("/health", h.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")

	otpH := NewOTPHandler(d.OTP, log)
	api.POST("/send-otp", otpH.SendOTP)
	api.POST("/verify-otp", otpH.VerifyOTP)
	api.GET("/otp-status/:aadhaar/:mobile", otpH.Status)

	panH := NewPANHandler(d.PAN, log)
	api.POST("/verify-pan", panH.VerifyPAN)
	api.GET("/pan-status/:pan", panH.Status)
	api.GET("/mock-pan-data", panH.MockData)

	formH := NewFormHandler(d.Forms, log)
	var submitMW []echo.MiddlewareFunc
	if d.Redis != nil {
		submitMW = append(submitMW, middleware.Idempotency(d.Redis, d.IdempotencyTTL, log))
	}
	api.POST("/submit-form", formH.SubmitForm, submitMW...)
	api.GET("/application-status/:applicationId", formH.ApplicationStatus)
	api.GET("/submissions", formH.Submissions)
	api.GET("/statistics", formH.Statistics)

	return e
}

// errorHandler renders framework errors in the response envelope. Unknown
// routes and unsupported methods both answer 404.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := http.StatusInternalServerError, MsgInternal
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch {
			case code == http.StatusNotFound || code == http.StatusMethodNotAllowed:
				code, msg = http.StatusNotFound, MsgEndpointNotFound
			case code < http.StatusInternalServerError:
				if m, ok := he.Message.(string); ok {
					msg = m
				} else {
					msg = http.StatusText(code)
				}
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = fail(c, code, msg)
		}
		if werr != nil {
			log.Warn("error response not written", zap.Error(werr))
		}
	}
}

func requestLogger(log *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRoutePath: true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(v.Method, route, strconv.Itoa(v.Status), v.Latency)

			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
