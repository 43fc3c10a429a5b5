package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	config "github.com/smartbuddy/smartbuddy/configs"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/notifications"
	"github.com/smartbuddy/smartbuddy/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

const (
	maxLoginAttempts = 5
	lockDuration     = 30 * time.Minute
	registrationXP   = 50
)

type RegisterRequest struct {
	Name         string   `json:"name" validate:"required,min=2"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6"`
	Branch       string   `json:"branch"`
	Year         *int     `json:"year" validate:"omitempty,min=1,max=4"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Availability []string `json:"availability"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func stringList(items pq.StringArray) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func userPayload(user *models.User, xp int) fiber.Map {
	return fiber.Map{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"skills":       stringList(user.Skills),
		"interests":    stringList(user.Interests),
		"branch":       user.Branch,
		"year":         user.Year,
		"availability": stringList(user.Availability),
		"about":        user.About,
		"xp":           xp,
	}
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to hash password"})
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     string(hashedPassword),
		Branch:       req.Branch,
		Year:         req.Year,
		Skills:       req.Skills,
		Interests:    req.Interests,
		Availability: req.Availability,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "User with this email already exists",
				"error":   "EMAIL_EXISTS",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during registration"})
	}

	// The signup bonus is granted exactly once per account; the ledger key is
	// the user id itself.
	xp, _, err := services.AwardXPOnce(user.ID, models.XPActionRegistration, user.ID.String(), registrationXP, "New user registration")
	if err != nil {
		log.Printf("[Auth] Failed to award registration XP to %s: %v", user.ID, err)
		xp = user.XP
	} else {
		user.RegistrationBonus = true
		if err := database.DB.Model(&user).UpdateColumn("registration_bonus", true).Error; err != nil {
			log.Printf("[Auth] Failed to flag registration bonus for %s: %v", user.ID, err)
		}
	}

	token, err := generateToken(user.ID.String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create token"})
	}

	go notifications.SendEmail(user.Name, user.Email, "Welcome to SmartBuddy!",
		"<h1>Welcome!</h1><p>Your study buddy journey starts now. Check in daily to keep your XP growing.</p>")

	log.Printf("User registered: %s", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    userPayload(&user, xp),
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
	}

	var user models.User
	err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid email or password",
			"error":   "INVALID_CREDENTIALS",
		})
	}

	if user.IsLocked() {
		remaining := int(math.Ceil(time.Until(*user.LockUntil).Minutes()))
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"message":           fmt.Sprintf("Account is temporarily locked. Please try again in %d minutes.", remaining),
			"error":             "ACCOUNT_LOCKED",
			"lockTimeRemaining": remaining,
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		attempts := recordFailedAttempt(&user)
		remaining := maxLoginAttempts - 1 - attempts
		if remaining < 0 {
			remaining = 0
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":           "Invalid email or password",
			"error":             "INVALID_CREDENTIALS",
			"remainingAttempts": remaining,
		})
	}

	now := time.Now()
	err = database.DB.Model(&user).Updates(map[string]interface{}{
		"login_attempts": 0,
		"account_locked": false,
		"lock_until":     nil,
		"last_login":     now,
	}).Error
	if err != nil {
		log.Printf("[Auth] Failed to reset login attempts for %s: %v", user.ID, err)
	}

	token, err := generateToken(user.ID.String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create token"})
	}

	log.Printf("User logged in: %s", user.Email)
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userPayload(&user, user.XP),
	})
}

// recordFailedAttempt bumps the attempt counter, locking the account for 30
// minutes once the limit is hit. Returns the updated attempt count.
func recordFailedAttempt(user *models.User) int {
	attempts := user.LoginAttempts + 1
	if user.LockUntil != nil && user.LockUntil.Before(time.Now()) {
		// Previous lock expired; restart the count.
		attempts = 1
	}

	updates := map[string]interface{}{"login_attempts": attempts}
	if attempts >= maxLoginAttempts {
		lockUntil := time.Now().Add(lockDuration)
		updates["account_locked"] = true
		updates["lock_until"] = lockUntil
	}
	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		log.Printf("[Auth] Failed to record login attempt for %s: %v", user.ID, err)
	}
	return attempts
}

func VerifyToken(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided", "valid": false})
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token expired", "valid": false, "expired": true})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token", "valid": false})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", claims["user_id"]).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not found", "valid": false})
	}

	if user.IsLocked() {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{"message": "Account is locked", "valid": false, "locked": true})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"about": user.About,
			"xp":    user.XP,
		},
	})
}

type UpdateProfileRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=2"`
	About        *string   `json:"about"`
	Branch       *string   `json:"branch"`
	Year         *int      `json:"year" validate:"omitempty,min=1,max=4"`
	Skills       *[]string `json:"skills"`
	Interests    *[]string `json:"interests"`
	Availability *[]string `json:"availability"`
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.Branch != nil {
		updates["branch"] = *req.Branch
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Skills != nil {
		updates["skills"] = pq.StringArray(*req.Skills)
	}
	if req.Interests != nil {
		updates["interests"] = pq.StringArray(*req.Interests)
	}
	if req.Availability != nil {
		updates["availability"] = pq.StringArray(*req.Availability)
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No valid fields provided"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    userPayload(&user, user.XP),
	})
}
