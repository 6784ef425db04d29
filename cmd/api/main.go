package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	httpadp "github.com/MaasMateus/desafio-serasa/internal/adapter/http"
	"github.com/MaasMateus/desafio-serasa/internal/adapter/middleware"
	"github.com/MaasMateus/desafio-serasa/internal/adapter/repository/mysql"
	"github.com/MaasMateus/desafio-serasa/internal/auth"
	"github.com/MaasMateus/desafio-serasa/internal/config"
	loandomain "github.com/MaasMateus/desafio-serasa/internal/domain/loan"
	paymentdomain "github.com/MaasMateus/desafio-serasa/internal/domain/payment"
	userdomain "github.com/MaasMateus/desafio-serasa/internal/domain/user"
	"github.com/MaasMateus/desafio-serasa/internal/infrastructure/cache"
	"github.com/MaasMateus/desafio-serasa/internal/infrastructure/db"
	authuc "github.com/MaasMateus/desafio-serasa/internal/usecase/auth"
	loanuc "github.com/MaasMateus/desafio-serasa/internal/usecase/loan"
	"github.com/MaasMateus/desafio-serasa/internal/usecase/offer"
	"github.com/MaasMateus/desafio-serasa/internal/usecase/quote"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connection failed")
	}
	if err := gdb.AutoMigrate(&userdomain.User{}, &loandomain.Loan{}, &paymentdomain.Payment{}); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}

	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	requestBounds := quote.Bounds{
		Min: decimal.NewFromInt(cfg.RequestMinAmount),
		Max: decimal.NewFromInt(cfg.RequestMaxAmount),
	}
	confirmBounds := loanuc.Bounds{
		Min: decimal.NewFromInt(cfg.RequestMinAmount),
		Max: decimal.NewFromInt(cfg.ConfirmMaxAmount),
	}

	authUC := authuc.NewUsecase(users, tokens, log)
	offerUC := offer.NewUsecase(users)
	quoteUC := quote.NewUsecase(users, requestBounds, log)
	loanUC := loanuc.NewUsecase(loans, guow, confirmBounds, log)

	h := httpadp.NewHandler()
	authH := httpadp.NewAuthHandler(authUC)
	offerH := httpadp.NewOfferHandler(offerUC)
	loanH := httpadp.NewLoanHandler(quoteUC, loanUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.POST("/auth/register", authH.Register)
	e.POST("/auth/login", authH.Login)

	idemTTL := time.Duration(cfg.IdempTTLSecs) * time.Second
	authed := e.Group("", middleware.RequireAuth(tokens))
	authed.GET("/offers", offerH.ListOffers)
	authed.POST("/loans/quote", loanH.Quote)
	authed.GET("/loans", loanH.ListLoans)
	authed.GET("/loans/:loan_id", loanH.GetLoan)

	mutating := e.Group("", middleware.RequireAuth(tokens), middleware.Idempotency(rdb, idemTTL, log))
	mutating.POST("/loans", loanH.Confirm)
	mutating.POST("/loans/:loan_id/payments", loanH.PayInstallment)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
