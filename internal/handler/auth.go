package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"nursery-service/internal/access"
	"nursery-service/internal/middleware"
	"nursery-service/internal/records"
	"nursery-service/internal/repository"
	"nursery-service/pkg/jwtutil"
	"nursery-service/pkg/logger"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	EmployeeID string `json:"employeeId" form:"employeeId" validate:"required,numeric,max=32"`
	PIN        string `json:"pin" form:"pin" validate:"required,numeric,max=32"`
}

// Compared against when the employee id is unknown, so both failure paths
// cost one bcrypt comparison.
var dummyPinHash, _ = bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)

// Login exchanges an employee id and PIN for a session token.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	h.metrics.LoginAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		h.metrics.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Employee ID and PIN must be numeric"})
	}

	ctx := c.Request().Context()
	done := h.metrics.TrackDBOperation("query")
	user, err := h.users.GetByEmployeeID(ctx, req.EmployeeID)
	done()
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	hash := dummyPinHash
	if user != nil {
		hash = []byte(user.PinHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.PIN)) != nil || user == nil {
		log.Info("Rejected login", zap.String("employee_id", req.EmployeeID))
		h.metrics.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid employee ID or PIN"})
	}

	claims := jwtutil.SessionClaims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Name:       user.Name,
		Role:       user.Role,
		BusinessID: user.BusinessID,
	}
	token, err := h.jwt.GenerateToken(claims)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		h.metrics.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwt.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("business_id", user.BusinessID),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  h.sessionView(c, &claims),
	})
}

// Logout clears the session cookie. Tokens are stateless, so a bearer
// token stays valid until it expires.
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current session and what it may do.
func (h *Handler) Me(c echo.Context) error {
	claims, ok := middleware.Session(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	return c.JSON(http.StatusOK, h.sessionView(c, claims))
}

func (h *Handler) sessionView(c echo.Context, claims *jwtutil.SessionClaims) echo.Map {
	role := access.Role(claims.Role)
	view := echo.Map{
		"id":         claims.UserID,
		"employeeId": claims.EmployeeID,
		"name":       claims.Name,
		"role":       claims.Role,
		"roleName":   access.DisplayName(role),
		"businessId": claims.BusinessID,
		"permissions": echo.Map{
			"editData":        access.CanEditData(role),
			"editTables":      access.CanEditTables(role),
			"manageUsers":     access.CanManageUsers(role),
			"viewPricing":     access.CanViewPricing(role),
			"editPricing":     access.CanEditPricing(role),
			"viewAllTime":     access.CanViewAllTimeEntries(role),
			"editTimeEntries": access.CanEditTimeEntries(role),
		},
	}
	if b, err := h.users.GetBusiness(c.Request().Context(), claims.BusinessID); err == nil {
		view["businessName"] = b.Name
	}
	return view
}

// actor builds the record-service caller from the session.
func actor(c echo.Context) records.Actor {
	claims, ok := middleware.Session(c)
	if !ok {
		return records.Actor{}
	}
	return records.Actor{
		UserID:   claims.UserID,
		Role:     access.Role(claims.Role),
		TenantID: claims.BusinessID,
	}
}
