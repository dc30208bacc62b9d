package routes

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"time"

	"perfumeshop/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

var validate = validator.New()

func init() {
	// Report validation errors under the json field name, not the Go one.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// NewApp builds the fiber application with all middleware and routes
// mounted. Shared by the serve command and the handler tests.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	app.Static("/", "./public")
	app.Static("/uploads", "./uploads")

	SetupRoutes(app)

	return app
}

// errorHandler keeps unexpected errors out of responses: anything that is
// not an explicit fiber error is logged and reduced to a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

func SetupRoutes(app *fiber.App) {
	startEventHub()

	app.Get("/health", healthCheck)
	app.Get("/ws/admin", adminEventsHandler())

	api := app.Group("/api")

	// Throttles mirror the public surface: tight on auth and capture forms,
	// looser on the authenticated API.
	authLimiter := limiter.New(limiter.Config{Max: 5, Expiration: time.Minute})
	api.Post("/register", authLimiter, register)
	api.Post("/login", authLimiter, login)

	api.Get("/products", listProducts)
	api.Get("/products/:id", getProduct)
	api.Get("/reviews", listReviews)
	api.Get("/reviews/:id", getReview)

	api.Post("/contacts", limiter.New(limiter.Config{Max: 3, Expiration: time.Minute}), createContact)
	api.Post("/newsletters", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), createNewsletter)

	authed := api.Group("", middleware.RequireAuth(),
		limiter.New(limiter.Config{Max: 60, Expiration: time.Minute}))

	authed.Post("/logout", logout)
	authed.Get("/user", getCurrentUser)

	authed.Post("/products", middleware.RequireAdmin(), createProduct)
	authed.Put("/products/:id", middleware.RequireAdmin(), updateProduct)
	authed.Delete("/products/:id", middleware.RequireAdmin(), deleteProduct)

	authed.Post("/reviews", createReview)
	authed.Put("/reviews/:id", updateReview)
	authed.Delete("/reviews/:id", deleteReview)

	authed.Get("/orders", listOrders)
	authed.Post("/orders", createOrder)
	authed.Get("/orders/:id", getOrder)
	authed.Put("/orders/:id", middleware.RequireAdmin(), updateOrder)
	authed.Delete("/orders/:id", middleware.RequireAdmin(), deleteOrder)

	authed.Get("/wishlist", listWishlist)
	authed.Post("/wishlist", addToWishlist)
	authed.Delete("/wishlist/:productId", removeFromWishlist)
	authed.Get("/wishlist/check/:productId", checkWishlist)

	authed.Get("/contacts", middleware.RequireAdmin(), listContacts)
	authed.Get("/contacts/:id", middleware.RequireAdmin(), getContact)
	authed.Put("/contacts/:id", middleware.RequireAdmin(), updateContact)
	authed.Delete("/contacts/:id", middleware.RequireAdmin(), deleteContact)

	authed.Get("/newsletters", middleware.RequireAdmin(), listNewsletters)
	authed.Get("/newsletters/:id", middleware.RequireAdmin(), getNewsletter)
	authed.Put("/newsletters/:id", middleware.RequireAdmin(), updateNewsletter)
	authed.Delete("/newsletters/:id", middleware.RequireAdmin(), deleteNewsletter)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.Get("/dashboard", dashboard)
	admin.Get("/users", listAdminUsers)
	admin.Post("/users/:id/suspend", suspendUser)
	admin.Post("/users/:id/logout", forceLogoutUser)
	admin.Post("/upload-image", uploadImage)
}

func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "perfumeshop-api",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// validationError shapes a 422 response with field-level messages.
func validationError(c *fiber.Ctx, errs fiber.Map) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func structValidationErrors(err error) fiber.Map {
	errs := fiber.Map{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["body"] = "invalid input"
		return errs
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errs[fe.Field()] = "is required"
		case "email":
			errs[fe.Field()] = "must be a valid email address"
		case "min":
			errs[fe.Field()] = "must be at least " + fe.Param()
		case "max":
			errs[fe.Field()] = "may not be greater than " + fe.Param()
		default:
			errs[fe.Field()] = "is invalid"
		}
	}
	return errs
}
