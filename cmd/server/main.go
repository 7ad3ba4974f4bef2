package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/roshanmgr/venue-booking/internal/auth"
	"github.com/roshanmgr/venue-booking/internal/config"
	"github.com/roshanmgr/venue-booking/internal/database"
	"github.com/roshanmgr/venue-booking/internal/email"
	"github.com/roshanmgr/venue-booking/internal/handler"
	"github.com/roshanmgr/venue-booking/internal/middleware"
	"github.com/roshanmgr/venue-booking/internal/payment"
	"github.com/roshanmgr/venue-booking/internal/queue"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/router"
	"github.com/roshanmgr/venue-booking/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the cache and rate limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	notifications := repository.NewNotificationRepo(db)
	venues := repository.NewVenueRepo(db)
	programs := repository.NewProgramRepo(db)
	bookings := repository.NewBookingRepo(db)
	orders := repository.NewOrderRepo(db)
	donations := repository.NewDonationRepo(db)

	// Mail: real SMTP when configured, log-only otherwise.
	var mailer service.Mailer = email.LogSender{}
	if cfg.SMTPHost != "" {
		mailer = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	}

	// Services.
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	authSvc := service.NewAuthService(users, sessions, codec, mailer, cfg.BcryptCost)
	notifRouter := service.NewNotificationRouter(users, venues, bookings, notifications)
	notifSvc := service.NewNotificationService(notifications)
	esewa := payment.NewESewaClient(cfg.ESewaProductCode, cfg.ESewaSecret)

	// Handlers.
	authH := handler.NewAuthHandler(authSvc)
	notifH := handler.NewNotificationHandler(notifRouter, notifSvc)
	venueH := handler.NewVenueHandler(venues)
	programH := handler.NewProgramHandler(programs)
	bookingH := handler.NewBookingHandler(bookings, venues, users, notifRouter, mailer)
	orderH := handler.NewOrderHandler(orders, notifRouter)
	donationH := handler.NewDonationHandler(donations, notifRouter)
	paymentH := handler.NewPaymentHandler(esewa)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Identify(codec))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterPublic(e, venueH, programH, cacheMW)
	router.RegisterAuth(e, authH)
	router.RegisterNotifications(e, notifH)
	router.RegisterBookings(e, bookingH)
	router.RegisterOrders(e, orderH)
	router.RegisterDonations(e, donationH)
	router.RegisterPayments(e, paymentH)
	router.RegisterVenueAdmin(e, venueH, programH)

	// Audit consumer runs for the life of the process and reconnects on
	// broker failure.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
