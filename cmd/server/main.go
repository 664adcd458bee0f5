package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"pizzeria/internal/api"
	"pizzeria/internal/auth"
	"pizzeria/internal/cache"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	venueTZ := os.Getenv("VENUE_TZ")
	if venueTZ == "" {
		venueTZ = "Europe/Paris"
	}
	loc, err := time.LoadLocation(venueTZ)
	if err != nil {
		log.Printf("Unknown VENUE_TZ %q, falling back to UTC", venueTZ)
		loc = time.UTC
	}

	redisClient := cache.NewRedisClient()
	if redisClient == nil {
		log.Println("Redis unavailable, catalog caching disabled")
	}
	catalogCache := cache.New(redisClient, 5*time.Minute)

	userRepo := repository.NewUserRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	jobRepo := repository.NewJobRepository(db)

	senderSvc := service.NewSenderService(loc)
	authSvc := service.NewAuthService(userRepo)
	reservationSvc := service.NewReservationService(reservationRepo, senderSvc, loc)
	productSvc := service.NewProductService(productRepo, catalogCache)
	stripeSvc := service.NewStripeService()
	orderSvc := service.NewOrderService(orderRepo, stripeSvc)
	wishlistSvc := service.NewWishlistService(wishlistRepo)
	jobSvc := service.NewJobService(jobRepo, orderRepo, senderSvc)

	authHandler := api.NewAuthHandler(authSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)
	productHandler := api.NewProductHandler(productSvc)
	orderHandler := api.NewOrderHandler(orderSvc)
	wishlistHandler := api.NewWishlistHandler(wishlistSvc)
	stripeHandler := api.NewStripeHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), orderSvc, stripeSvc, senderSvc, userRepo)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/products", productHandler.ListProducts).Methods("GET")
	r.HandleFunc("/api/products/type/{type}", productHandler.ListProductsByType).Methods("GET")
	r.HandleFunc("/api/products/{id:[0-9]+}", productHandler.GetProduct).Methods("GET")
	r.HandleFunc("/api/reservations/check/availability", reservationHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/reservations/slots/available", reservationHandler.GetAvailableSlots).Methods("GET")
	r.HandleFunc("/api/checkout/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.Middleware)
	user.HandleFunc("/reservations", reservationHandler.CreateReservation).Methods("POST")
	user.HandleFunc("/reservations/user/me", reservationHandler.GetUserReservations).Methods("GET")
	user.HandleFunc("/reservations/{id:[0-9]+}", reservationHandler.GetReservationByID).Methods("GET")
	user.HandleFunc("/reservations/{id:[0-9]+}", reservationHandler.UpdateReservation).Methods("PUT")
	user.HandleFunc("/reservations/{id:[0-9]+}", reservationHandler.CancelReservation).Methods("DELETE")
	user.HandleFunc("/orders", orderHandler.CreateOrder).Methods("POST")
	user.HandleFunc("/orders/user/me", orderHandler.GetUserOrders).Methods("GET")
	user.HandleFunc("/orders/{id:[0-9]+}", orderHandler.GetOrderByID).Methods("GET")
	user.HandleFunc("/wishlist", wishlistHandler.GetWishlist).Methods("GET")
	user.HandleFunc("/wishlist", wishlistHandler.AddToWishlist).Methods("POST")
	user.HandleFunc("/wishlist/{productId:[0-9]+}", wishlistHandler.RemoveFromWishlist).Methods("DELETE")
	user.HandleFunc("/checkout/create-session", stripeHandler.CreateCheckoutSession).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(auth.Middleware, auth.RequireRole("admin"))
	admin.HandleFunc("/reservations", reservationHandler.GetAllReservations).Methods("GET")
	admin.HandleFunc("/orders", orderHandler.GetAllOrders).Methods("GET")
	admin.HandleFunc("/orders/{id:[0-9]+}/cancel", orderHandler.CancelOrder).Methods("POST")
	admin.HandleFunc("/products", productHandler.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}", productHandler.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}", productHandler.DeleteProduct).Methods("DELETE")

	c := cron.New()
	c.AddFunc("@every 30m", func() {
		if err := jobSvc.SendUpcomingReminders(); err != nil {
			log.Printf("Reminder job failed: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.CancelStaleOrders(); err != nil {
			log.Printf("Stale order job failed: %v", err)
		}
	})
	c.Start()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Stripe-Signature"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
