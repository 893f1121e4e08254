package authController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"verve/apierr"
	"verve/config"
	"verve/logger"
	"verve/middleware"
	"verve/models"
	authValidator "verve/validators/auth"
)

const (
	maxFailedLogins  = 5
	failedLoginReset = 15 * time.Minute
	lockoutDuration  = 15 * time.Minute
)

type Handler struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{db: db, cfg: cfg, now: time.Now}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cost := h.cfg.SaltRound
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), cost)
	if err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to process your request!", err))
	}

	newUser := models.User{
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Name:     reqData.Name,
		Username: reqData.Username,
		Role:     models.RoleUser,
	}
	if err := h.db.WithContext(c.UserContext()).Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.ErrorResponse(c, apierr.Conflict("Email is already registered!"))
		}
		return middleware.ErrorResponse(c, apierr.Internal("Failed to register user!", err))
	}

	logger.L().Info("user registered", "userId", newUser.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apierr.Unauthorized("Invalid credentials!"))
		}
		return middleware.ErrorResponse(c, apierr.Internal("Failed to process your request!", err))
	}

	now := h.now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.ErrorResponse(c, apierr.Unauthorized("Your account is temporarily blocked. Try again later."))
	}
	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginReset {
		user.FailedLoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		failed := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     now,
		}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			failed["blocked_until"] = now.Add(lockoutDuration)
			logger.L().Warn("account locked after failed logins", "userId", user.ID)
		}
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumns(failed).Error; err != nil {
			logger.L().Error("failed to record failed login", "userId", user.ID, "error", err)
		}
		return middleware.ErrorResponse(c, apierr.Unauthorized("Invalid credentials!"))
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumns(map[string]interface{}{
		"last_login":            now,
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
		"blocked_until":         nil,
	}).Error; err != nil {
		logger.L().Error("failed to save last login", "userId", user.ID, "error", err)
	}
	user.LastLogin = &now

	// c.IP only trusts the proxy header for configured proxies
	tracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&tracking).Error; err != nil {
		logger.L().Error("failed to save login tracking", "userId", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to generate token", err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	viewer := middleware.CurrentViewer(c)

	var user models.User
	if err := h.db.WithContext(c.UserContext()).Where("id = ?", viewer.ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apierr.Unauthorized("User not found!"))
		}
		return middleware.ErrorResponse(c, apierr.Internal("Failed to fetch profile.", err))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

func (h *Handler) ChangeLoginPassword(c *fiber.Ctx) error {
	viewer := middleware.CurrentViewer(c)
	reqData, ok := c.Locals("validatedPasswordChange").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ?", viewer.ID).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, apierr.Unauthorized("User not found!"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.ErrorResponse(c, apierr.Unauthorized("Current password is incorrect!"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to process your request!", err))
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("password", string(hashed)).Error; err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to change password!", err))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func (h *Handler) LoginHistoryList(c *fiber.Ctx) error {
	viewer := middleware.CurrentViewer(c)
	reqData, ok := c.Locals("validatedLoginHistory").(*authValidator.PageRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	db := h.db.WithContext(c.UserContext())

	var total int64
	if err := db.Model(&models.LoginTracking{}).Where("user_id = ?", viewer.ID).Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to fetch login history.", err))
	}

	history := []models.LoginTracking{}
	if err := db.Where("user_id = ?", viewer.ID).
		Order("created_at desc").
		Offset((reqData.Page - 1) * reqData.Limit).
		Limit(reqData.Limit).
		Find(&history).Error; err != nil {
		return middleware.ErrorResponse(c, apierr.Internal("Failed to fetch login history.", err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
