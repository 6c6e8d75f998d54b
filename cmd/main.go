package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"media-platform/config"
	captchadomain "media-platform/domain/captcha"
	"media-platform/domain/recovery"
	"media-platform/domain/user"
	"media-platform/pkg/apperrors"
	"media-platform/pkg/captcha"
	"media-platform/pkg/logger"
	"media-platform/pkg/mailer"
	"media-platform/pkg/ratelimit"
	"media-platform/routes"
)

func main() {
	config.InitConfig()

	logger.Init(logger.Config{
		Level:       logger.Level(viper.GetString("LOG_LEVEL")),
		Environment: viper.GetString("ENVIRONMENT"),
		ServiceName: "media-platform",
	})
	log := logger.Get().WithComponent("main")

	config.InitDB()
	defer config.CloseDB()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(logger.Get())

	e.Use(logger.RequestLoggerMiddleware(logger.Get()))
	e.Use(logger.RecoveryMiddleware(logger.Get()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{viper.GetString("RESET_LINK_BASE_URL")},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentLength},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	recoveryService := recovery.NewService(
		user.NewSQLAccountStore(config.DB),
		mailer.FromConfig(),
		nil,
		recovery.Config{
			TokenTTL:     time.Duration(viper.GetInt("RESET_TOKEN_TTL_HOURS")) * time.Hour,
			ResetBaseURL: viper.GetString("RESET_LINK_BASE_URL"),
		},
	)
	limiter := ratelimit.New(
		viper.GetString("RATE_LIMIT_LOG_FILE"),
		viper.GetInt("RATE_LIMIT_MAX_ATTEMPTS"),
		time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_MINUTES"))*time.Minute,
		nil,
	)
	recoveryHandler := recovery.NewHandler(recoveryService, limiter)

	challengeStore := captcha.NewStore(
		time.Duration(viper.GetInt("CAPTCHA_TTL_SECONDS"))*time.Second,
		nil,
	)
	captchaHandler := captchadomain.NewHandler(challengeStore)

	routes.RegisterRoutes(e, recoveryHandler, captchaHandler)

	port := viper.GetString("PORT")
	log.Info("Starting server", logger.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server stopped", err)
	}
}
