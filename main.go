package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Pirategrand/savory-cart-portal/configs"
	"github.com/Pirategrand/savory-cart-portal/middlewares"
	"github.com/Pirategrand/savory-cart-portal/pkg/kv"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"github.com/Pirategrand/savory-cart-portal/routes"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()
	configs.SetupDatabase()

	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedDemoData(); err != nil {
		log.Fatalf("seed demo data failed: %v", err)
	}

	// Cart/preference storage: redis when reachable, in-process otherwise.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	var store kv.Store
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable (%v), falling back to memory store", err)
			store = kv.NewMemoryStore()
		} else {
			store = kv.NewRedisStore(rdb)
		}
	}

	defaultFee, err := decimal.NewFromString(cfg.DefaultDeliveryFee)
	if err != nil {
		defaultFee = services.DefaultDeliveryFee
	}
	services.TaxRate = decimal.NewFromFloat(cfg.TaxRate)

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Realtime fanout
	hub := ws.NewTrackingHub(db)
	go hub.Run()
	if cfg.SimulateStatus {
		// demo deployments stream fake progression instead of real pushes
		hub.Source = services.NewStatusSimulator(cfg.SimulateInterval)
		log.Println("status simulation enabled")
	}

	// Connectivity probe backs the checkout offline gate.
	monitor := services.NewPingMonitor(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, 5*time.Second)
	monitor.Start()
	defer monitor.Stop()

	// Services
	carts := services.NewCartService(store, cfg.CartTTL, defaultFee)
	prefs := services.NewPreferenceService(store)
	payments := services.NewPaymentService(db, cfg.PaymentDelay)
	restaurants := services.NewRestaurantService(restRepo)
	orders := services.NewOrderService(db, orderRepo, restRepo)
	orders.Publisher = hub
	reviews := services.NewReviewService(db, reviewRepo, restRepo)
	profiles := services.NewProfileService(db)
	checkout := services.NewCheckoutService(carts, payments, orders, profiles, monitor, services.CheckoutTunables{
		ReadyTimeout:     cfg.CheckoutReadyTimeout,
		ProfileWait:      cfg.ProfileWaitTimeout,
		CartLoad:         cfg.CartLoadTimeout,
		SubmitTimeout:    cfg.SubmitTimeout,
		SubmitBackoff:    cfg.SubmitBackoff,
		MaxAttempts:      cfg.SubmitMaxAttempts,
		ProcessingSafety: cfg.ProcessingSafety,
	})

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, &routes.Deps{
		Cfg:         cfg,
		RestRepo:    restRepo,
		Restaurants: restaurants,
		Prefs:       prefs,
		Carts:       carts,
		Checkout:    checkout,
		Payments:    payments,
		Orders:      orders,
		Reviews:     reviews,
		Hub:         hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
