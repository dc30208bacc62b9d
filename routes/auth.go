package routes

import (
	"errors"
	"os"
	"time"

	"perfumeshop/db"
	"perfumeshop/middleware"
	"perfumeshop/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

type registerRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// The login form sends "username", older clients send "email". Either one
// is matched against both columns.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// issueToken stores an allow-list row and signs a JWT carrying its ID as
// the jti claim. Revocation deletes the row, the JWT itself stays opaque.
func issueToken(user models.User) (string, error) {
	authToken := models.AuthToken{
		ID:     uuid.New().String(),
		UserID: user.ID,
	}
	if err := db.DB.Create(&authToken).Error; err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"jti":      authToken.ID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(30 * 24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, structValidationErrors(err))
	}

	var existing models.User
	result := db.DB.Where("email = ? OR username = ?", req.Email, req.Username).Find(&existing)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("register: user lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	if result.RowsAffected > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("register: password hashing failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	now := time.Now()
	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		LastLogin: &now,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Error().Err(err).Msg("register: user creation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	token, err := issueToken(user)
	if err != nil {
		log.Error().Err(err).Msg("register: token issuance failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cannot parse JSON",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, structValidationErrors(err))
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		return validationError(c, fiber.Map{"username": "is required"})
	}

	var user models.User
	err := db.DB.Where("email = ? OR username = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid username or password",
			})
		}
		log.Error().Err(err).Msg("login: user lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "invalid username or password",
		})
	}

	if user.IsSuspended {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Account suspended",
		})
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login", &now)

	token, err := issueToken(user)
	if err != nil {
		log.Error().Err(err).Msg("login: token issuance failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals("token_id").(string)
	if tokenID != "" {
		if err := db.DB.Delete(&models.AuthToken{}, "id = ?", tokenID).Error; err != nil {
			log.Error().Err(err).Msg("logout: token deletion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal server error",
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func getCurrentUser(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	return c.JSON(user)
}
