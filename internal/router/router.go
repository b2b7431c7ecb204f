package router

import (
	"audio-mixing-backend/internal/handlers"
	"audio-mixing-backend/internal/middleware"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Checkout *handlers.CheckoutHandler
	Webhook  *handlers.WebhookHandler
	Orders   *handlers.OrderHandler
	Revision *handlers.RevisionHandler
	Cart     *handlers.CartHandler
	Catalog  *handlers.CatalogHandler
	Blog     *handlers.BlogHandler
}

func Router(h Handlers, tokens service.TokenProvider, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)
	api.POST("/auth/verify-email", h.Auth.VerifyEmail)
	api.POST("/auth/resend-verification", h.Auth.ResendVerification)
	api.POST("/auth/logout", middleware.OptionalAuth(tokens, log), h.Auth.Logout)
	api.GET("/auth/me", middleware.AuthRequired(tokens, log), h.Auth.Me)

	// Public catalog and blog
	api.GET("/offerings", middleware.OptionalAuth(tokens, log), h.Catalog.List)
	api.GET("/offerings/:id", h.Catalog.Get)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/labels", h.Catalog.ListLabels)
	api.GET("/tags", h.Catalog.ListTags)
	api.GET("/blog", middleware.OptionalAuth(tokens, log), h.Blog.List)
	api.GET("/blog/:slug", middleware.OptionalAuth(tokens, log), h.Blog.Get)

	// Checkout: guests allowed, auth attaches the order to the account
	pay := api.Group("", middleware.OptionalAuth(tokens, log))
	pay.POST("/stripe/payment-intent", h.Checkout.CreatePaymentIntent)
	pay.POST("/stripe/checkout-session", h.Checkout.CreateCheckoutSession)
	pay.POST("/paypal/order", h.Checkout.CreatePayPalOrder)
	pay.POST("/checkout/success", h.Checkout.CheckoutSuccess)

	api.POST("/stripe/webhook", h.Webhook.Stripe)

	// Authenticated customer surface
	user := api.Group("", middleware.AuthRequired(tokens, log))
	user.GET("/cart", h.Cart.List)
	user.POST("/cart", h.Cart.Add)
	user.PUT("/cart/:id", h.Cart.Update)
	user.DELETE("/cart/:id", h.Cart.Remove)
	user.DELETE("/cart", h.Cart.Clear)

	user.GET("/orders", h.Orders.List)
	user.GET("/orders/:id", h.Orders.Get)
	// owners may cancel their own order; the service rejects anything else
	user.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
	user.POST("/orders/:id/revisions", h.Revision.Submit)
	user.GET("/orders/:id/revisions", h.Revision.ListByOrder)
	user.PATCH("/read-flags", h.Revision.FlagRead)

	// Admin surface
	admin := api.Group("/admin",
		middleware.AuthRequired(tokens, log),
		middleware.RoleRequired(string(models.RoleAdmin), string(models.RoleEngineer)),
	)
	admin.GET("/orders", h.Orders.List)
	admin.GET("/orders/:id", h.Orders.Get)
	admin.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
	admin.POST("/orders/:id/items/:itemId/deliver", h.Orders.DeliverFiles)
	admin.POST("/revisions/:id/upload", h.Revision.Upload)
	admin.PATCH("/read-flags", h.Revision.FlagRead)

	admin.POST("/offerings", h.Catalog.Create)
	admin.PUT("/offerings/:id", h.Catalog.Update)
	admin.DELETE("/offerings/:id", h.Catalog.Delete)
	admin.POST("/offerings/:id/variants", h.Catalog.AddVariant)
	admin.DELETE("/offerings/:id/variants/:variantId", h.Catalog.DeleteVariant)
	admin.POST("/categories", h.Catalog.CreateCategory)

	admin.POST("/blog", h.Blog.Create)
	admin.PUT("/blog/:slug", h.Blog.Update)
	admin.DELETE("/blog/:slug", h.Blog.Delete)

	return r
}
