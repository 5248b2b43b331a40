// Package main hotel reservation API.
//
// @title           Hotel Reservation API
// @version         1.0
// @description     Front-desk reservation service (rooms, guests, reservations, dashboard).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hotelreservation/app/echoServer"
	authctrl "hotelreservation/app/echoServer/controller/auth"
	dashboardctrl "hotelreservation/app/echoServer/controller/dashboard"
	healthctrl "hotelreservation/app/echoServer/controller/health"
	reservationctrl "hotelreservation/app/echoServer/controller/reservation"
	roomctrl "hotelreservation/app/echoServer/controller/room"
	"hotelreservation/config"
	authrepo "hotelreservation/repository/auth"
	dashboardrepo "hotelreservation/repository/dashboard"
	lockrepo "hotelreservation/repository/lock"
	reservationrepo "hotelreservation/repository/reservation"
	roomrepo "hotelreservation/repository/room"
	authsvc "hotelreservation/service/auth"
	dashboardsvc "hotelreservation/service/dashboard"
	reservationsvc "hotelreservation/service/reservation"
	roomsvc "hotelreservation/service/room"
	"hotelreservation/util/database"
	"hotelreservation/util/hash"
	"hotelreservation/util/mq"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}
	if cfg.SeedOnStart {
		pw, err := hash.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			log.Error("hash seed password", "err", err)
			os.Exit(1)
		}
		if err := db.Seed(ctx, pw); err != nil {
			log.Error("db seed failed", "err", err)
			os.Exit(1)
		}
		log.Info("database seeded")
	}

	// events and room locks are optional
	var pub mq.Publisher = mq.Nop{}
	if cfg.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitURL, cfg.ReservationExchange)
		if err != nil {
			log.Error("rabbitmq connect failed", "err", err)
			os.Exit(1)
		}
		pub = p
	}
	defer pub.Close()

	var locks lockrepo.Repo = lockrepo.Nop{}
	if cfg.RedisAddr != "" {
		locks = lockrepo.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	defer locks.Close()

	// repos
	ar := authrepo.New(db)
	rr := reservationrepo.New(db)
	rmr := roomrepo.New(db)
	dr := dashboardrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret, cfg.JWTTTL())
	rs := reservationsvc.New(db, rr, locks, pub, log, cfg.RoomLockTTL)
	rms := roomsvc.New(rmr)
	ds := dashboardsvc.New(dr)

	reconciler := reservationsvc.NewReconciler(rr)
	if n, err := reconciler.ReconcileRooms(ctx); err != nil {
		log.Error("reconcile room statuses", "err", err)
	} else if n > 0 {
		log.Info("room statuses reconciled", "updated", n)
	}
	if cfg.ReconcileInterval > 0 {
		go reservationsvc.RunReconciler(ctx, reconciler, cfg.ReconcileInterval, log)
	}

	// controllers
	authC := &authctrl.Controller{Svc: as, Log: log}
	reservationC := &reservationctrl.Controller{Svc: rs, Log: log}
	roomC := &roomctrl.Controller{Svc: rms, Log: log}
	dashboardC := &dashboardctrl.Controller{Svc: ds, Log: log}
	healthC := &healthctrl.Controller{DB: db}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e, echoServer.MiddlewareOpts{
		RateLimitRPS: cfg.RateLimitRPS,
		Log:          log,
		Validator:    validator.New(),
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Reservation: reservationC,
		Room:        roomC,
		Dashboard:   dashboardC,
		Health:      healthC,

		JWTSecret:    cfg.JWTSecret,
		AuthRequired: cfg.AuthRequired,
	})

	figure.NewFigure("HOTEL", "", true).Print()
	log.Info("starting server", "port", cfg.Port, "env", cfg.Env, "auth_required", cfg.AuthRequired)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("server stop timed out", "err", err)
	}
}
