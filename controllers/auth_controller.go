// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/tripnest_backend/config"
	"github.com/tripnest/tripnest_backend/middleware"
	"github.com/tripnest/tripnest_backend/models"
	"github.com/tripnest/tripnest_backend/utils"
)

const resetTokenTTL = 15 * time.Minute

// AuthController handles login, logout and password recovery
type AuthController struct {
	DB              *mongo.Client
	Redis           *redis.Client
	loginAttempts   map[string]loginAttempt
	loginAttemptsMu sync.RWMutex
}

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, redisClient *redis.Client) *AuthController {
	return &AuthController{
		DB:            db,
		Redis:         redisClient,
		loginAttempts: make(map[string]loginAttempt),
	}
}

// Login authenticates a user by email and password. Users of suspended
// tenants cannot sign in.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := utils.CheckPassword(loginReq.Password, user.Password); err != nil {
		ac.loginAttemptsMu.Lock()
		ac.loginAttempts[email] = loginAttempt{count: attempts.count + 1, lastAttempt: time.Now()}
		ac.loginAttemptsMu.Unlock()

		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, email)
	ac.loginAttemptsMu.Unlock()

	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User account is inactive",
		})
	}

	tenantID := ""
	if user.TenantID != nil {
		tenantID = user.TenantID.Hex()

		var tenant models.Tenant
		err = config.GetCollection(ac.DB, "tenants").FindOne(ctx, bson.M{"_id": user.TenantID}).Decode(&tenant)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to load tenant",
			})
		}
		if tenant.Status != models.TenantStatusActive {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Tenant account is suspended",
			})
		}
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	config.GetCollection(ac.DB, "users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"lastActivityAt": time.Now()}},
	)

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.LoginResponse{Token: token, User: user},
	})
}

// Logout blacklists the presented token until its natural expiry
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 {
		expiry := time.Unix(claims.ExpiresAt, 0)
		if claims.ExpiresAt == 0 {
			expiry = time.Now().Add(24 * time.Hour)
		}
		middleware.BlacklistToken(authHeader[7:], expiry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated user with tenant and subscription context
func (ac *AuthController) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	actorID, _, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"_id": actorID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	user.Password = ""

	data := map[string]interface{}{"user": user}

	if user.TenantID != nil {
		var tenant models.Tenant
		if err := config.GetCollection(ac.DB, "tenants").FindOne(ctx, bson.M{"_id": user.TenantID}).Decode(&tenant); err == nil {
			data["tenant"] = tenant
		}

		var sub models.Subscription
		if err := config.GetCollection(ac.DB, "subscriptions").FindOne(ctx, bson.M{"tenantId": user.TenantID}).Decode(&sub); err == nil {
			var plan models.Plan
			if err := config.GetCollection(ac.DB, "plans").FindOne(ctx, bson.M{"_id": sub.PlanID}).Decode(&plan); err == nil {
				data["subscription"] = models.SubscriptionDetails{
					ID:     sub.ID,
					Status: sub.Status,
					Plan:   plan,
				}
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved successfully",
		Data:    data,
	})
}

// ForgotPassword issues a reset token, stores it in Redis and emails the
// reset link. The response never reveals whether the email exists.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email is required",
		})
	}

	// The response never reveals whether the email exists
	neutral := func() error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email exists, a reset link has been sent",
		})
	}

	if ac.Redis == nil {
		log.Println("ForgotPassword: redis unavailable, reset disabled")
		return neutral()
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return neutral()
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return neutral()
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		log.Printf("Error generating reset token: %v", err)
		return neutral()
	}

	if err := ac.Redis.Set(ctx, "pwreset:"+token, user.ID.Hex(), resetTokenTTL).Err(); err != nil {
		log.Printf("Error storing reset token: %v", err)
		return neutral()
	}

	go func() {
		if err := utils.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
			log.Printf("Error sending reset email: %v", err)
		}
	}()

	return neutral()
}

// ResetPassword verifies the token, rotates the password and burns the
// token
func (ac *AuthController) ResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Token and a password of at least 8 characters are required",
		})
	}

	if ac.Redis == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Password reset is temporarily unavailable",
		})
	}

	userIDHex, err := ac.Redis.Get(ctx, "pwreset:"+req.Token).Result()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired reset token",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid reset token",
		})
	}

	res, err := config.GetCollection(ac.DB, "users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now()}},
	)
	if err != nil || res.MatchedCount == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to reset password",
		})
	}

	ac.Redis.Del(ctx, "pwreset:"+req.Token)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}
