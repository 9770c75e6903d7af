package routes

import (
	"time"

	"github.com/shashiranjanraj/maplecart/app/controllers"
	appgraphql "github.com/shashiranjanraj/maplecart/app/graphql"
	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/app/payment"
	"github.com/shashiranjanraj/maplecart/app/repositories"
	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/event"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
	"github.com/shashiranjanraj/maplecart/pkg/mail"
	"github.com/shashiranjanraj/maplecart/pkg/middleware"
	"github.com/shashiranjanraj/maplecart/pkg/rbac"
	"github.com/shashiranjanraj/maplecart/pkg/router"
	"github.com/shashiranjanraj/maplecart/pkg/ws"
)

// RegisterAPI wires repositories, services and controllers onto the router.
// It returns the websocket hub so the server can stop it on shutdown.
func RegisterAPI(r *router.Router) *ws.Hub {
	productRepo := repositories.NewProductRepository()
	userRepo := repositories.NewUserRepository()
	orderRepo := repositories.NewOrderRepository()

	productSvc := services.NewProductService(productRepo)
	reviewSvc := services.NewReviewService(productRepo)
	accountSvc := services.NewAccountService(userRepo, reviewSvc, mail.SMTPSender{})
	orderSvc := services.NewOrderService(orderRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(productRepo, payment.NewStripeGateway())

	accounts := controllers.NewAccountController(accountSvc)
	products := controllers.NewProductController(productSvc, reviewSvc, accountSvc)
	orders := controllers.NewOrderController(orderSvc)
	checkout := controllers.NewCheckoutController(checkoutSvc, accountSvc)

	api := r.Group("/api")

	// public catalog and account entry points
	api.Get("/products", "products.list", products.List)
	api.Get("/products/{id}", "products.show", products.Get)
	api.Post("/register", "accounts.register", accounts.Register,
		middleware.RateLimit(10, time.Minute))
	api.Post("/login", "accounts.login", accounts.Login,
		middleware.RateLimit(10, time.Minute))
	api.Post("/password/forgot", "accounts.forgot", accounts.ForgotPassword,
		middleware.RateLimit(5, time.Minute))
	api.Post("/password/reset", "accounts.reset", accounts.ResetPassword,
		middleware.RateLimit(5, time.Minute))

	if schema, err := appgraphql.NewSchema(productSvc); err == nil {
		r.HandleFunc("/api/graphql", appgraphql.Handler(schema))
	} else {
		logger.Error("graphql schema build failed", "error", err)
	}

	// authenticated customer routes
	authed := api.Group("", middleware.Auth)
	authed.Get("/me", "accounts.me", accounts.Me)
	authed.Put("/me", "accounts.update", accounts.UpdateProfile)
	authed.Put("/me/password", "accounts.password", accounts.UpdatePassword)
	authed.Delete("/me", "accounts.delete", accounts.DeleteAccount)

	authed.Post("/checkout", "checkout.session", checkout.CreateSession)
	authed.Post("/orders", "orders.create", orders.Create)
	authed.Get("/orders", "orders.mine", orders.MyOrders)
	authed.Get("/orders/{id}", "orders.show", orders.Get)

	authed.Post("/products/{id}/reviews", "reviews.add", products.AddReview)
	authed.Delete("/products/{id}/reviews", "reviews.remove", products.RemoveReview)

	// admin routes
	admin := authed.Group("/admin", rbac.HasRole(models.RoleAdmin))
	admin.Post("/products", "admin.products.create", products.Create)
	admin.Post("/products/images", "admin.products.upload", products.UploadImage)
	admin.Put("/products/{id}", "admin.products.update", products.Update)
	admin.Delete("/products/{id}", "admin.products.delete", products.Delete)
	admin.Get("/orders", "admin.orders.list", orders.ListAll)
	admin.Put("/orders/{id}", "admin.orders.status", orders.UpdateStatus)
	admin.Delete("/orders/{id}", "admin.orders.delete", orders.Delete)
	admin.Get("/users", "admin.users.list", accounts.ListUsers)
	admin.Delete("/users/{id}", "admin.users.delete", accounts.DeleteUser)

	// live order-status feed for the admin dashboard
	hub := ws.NewHub()
	go hub.Run()
	r.HandleFunc("/ws/orders", hub)
	event.Listen("order.status", func(payload interface{}) {
		if msg, ok := payload.([]byte); ok {
			hub.Broadcast(msg)
		}
	})

	return hub
}
