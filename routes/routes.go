package routes

import (
	"github.com/Pirategrand/savory-cart-portal/configs"
	"github.com/Pirategrand/savory-cart-portal/controllers"
	"github.com/Pirategrand/savory-cart-portal/middlewares"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/ws"

	"github.com/gin-gonic/gin"
)

// Deps holds everything the route table needs. Built once in main.
type Deps struct {
	Cfg         *configs.Config
	RestRepo    *repository.RestaurantRepository
	Restaurants *services.RestaurantService
	Prefs       *services.PreferenceService
	Carts       *services.CartService
	Checkout    *services.CheckoutService
	Payments    *services.PaymentService
	Orders      *services.OrderService
	Reviews     *services.ReviewService
	Hub         *ws.TrackingHub
}

func RegisterRoutes(r *gin.Engine, d *Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()
	secret := d.Cfg.JWTSecret

	// Controllers
	authCtrl := controllers.NewAuthController(db, d.Cfg)
	restCtrl := controllers.NewRestaurantController(d.Restaurants, d.Prefs)
	cartCtrl := controllers.NewCartController(d.Carts, d.RestRepo)
	checkoutCtrl := controllers.NewCheckoutController(d.Checkout)
	payCtrl := controllers.NewPaymentController(d.Payments, d.Carts)
	orderCtrl := controllers.NewOrderController(d.Orders)
	reviewCtrl := controllers.NewReviewController(d.Reviews)
	prefCtrl := controllers.NewPreferenceController(d.Prefs)
	ownerOrderCtrl := controllers.NewOwnerOrderController(d.Orders)
	ownerMenuCtrl := controllers.NewOwnerMenuController(d.RestRepo)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.POST("/password-reset", authCtrl.RequestPasswordReset)
		a.POST("/password-reset/confirm", authCtrl.ConfirmPasswordReset)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(secret))
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public browsing
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/reviews", reviewCtrl.ListForRestaurant)

	// User area
	u := r.Group("/", middlewares.AuthMiddleware(secret))
	{
		// menu is personalised by stored dietary preferences
		u.GET("/restaurants/:id/menu", restCtrl.Menu)

		u.GET("/cart", cartCtrl.Get)
		u.POST("/cart/items", cartCtrl.Add)
		u.PATCH("/cart/items", cartCtrl.UpdateQuantity)
		u.POST("/cart/items/remove", cartCtrl.Remove)
		u.DELETE("/cart", cartCtrl.Clear)
		u.PUT("/cart/delivery-fee", cartCtrl.SetDeliveryFee)

		u.GET("/checkout", checkoutCtrl.Begin)
		u.GET("/checkout/state", checkoutCtrl.State)
		u.PUT("/checkout/payment-method", checkoutCtrl.SetPaymentMethod)
		u.POST("/checkout/submit", checkoutCtrl.Submit)
		u.DELETE("/checkout", checkoutCtrl.End)

		u.POST("/payments/intents", payCtrl.CreateIntent)
		u.GET("/payments/intents/:id", payCtrl.CheckStatus)
		u.PATCH("/payments/intents/:id", payCtrl.UpdateStatus)
		u.GET("/payments/flow", payCtrl.FlowState)
		u.POST("/payments/flow/start", payCtrl.StartFlow)
		u.GET("/payments/flow/qr", payCtrl.ShowQR)
		u.POST("/payments/flow/scan", payCtrl.Scan)
		u.POST("/payments/flow/resolve", payCtrl.Resolve)

		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.GET("/orders/:id/tracking", orderCtrl.Tracking)

		u.POST("/reviews", reviewCtrl.Create)
		u.DELETE("/reviews/:id", reviewCtrl.Delete)
		u.POST("/reviews/:id/vote", reviewCtrl.ToggleVote)

		u.GET("/preferences/dietary", prefCtrl.GetDietary)
		u.PUT("/preferences/dietary", prefCtrl.SetDietary)
		u.GET("/preferences/language", prefCtrl.GetLanguage)
		u.PUT("/preferences/language", prefCtrl.SetLanguage)
	}

	// Partner restaurant (owner/admin)
	partner := r.Group("/partner", middlewares.AuthMiddleware(secret, "owner", "admin"))
	{
		partner.GET("/restaurants/:id/orders", ownerOrderCtrl.List) // ?status=&page=&limit=
		partner.GET("/restaurants/:id/orders/:oid", ownerOrderCtrl.Detail)
		partner.PATCH("/orders/:id/status", ownerOrderCtrl.Advance)

		partner.GET("/restaurants/:id/menu", ownerMenuCtrl.List)
		partner.POST("/restaurants/:id/menu", ownerMenuCtrl.Create)
		partner.PATCH("/restaurants/:id/menu/:itemId", ownerMenuCtrl.Update)
		partner.DELETE("/restaurants/:id/menu/:itemId", ownerMenuCtrl.Delete)
	}

	// Realtime order status
	r.GET("/ws/orders/:id", middlewares.WSAuthMiddleware(secret), d.Hub.HandleWebSocket)
}
