package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/uniliving/backend/internal/config"
	"github.com/uniliving/backend/internal/database"
	"github.com/uniliving/backend/internal/handler"
	"github.com/uniliving/backend/internal/repository"
	"github.com/uniliving/backend/internal/router"
	"github.com/uniliving/backend/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns rate limiting and response
	// caching into no-ops.
	rdb := config.NewRedisClient()

	files, err := service.NewFileStore(cfg.StorageBase, cfg.MaxUploadMB*1024*1024, cfg.AllowedExts)
	if err != nil {
		log.Fatalf("file storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	props := repository.NewPropertyRepo(db)
	cats := repository.NewCategoryRepo(db)
	favs := repository.NewFavoriteRepo(db)
	images := repository.NewImageRepo(db)

	tokenSvc := service.NewTokenService(tokens)
	authSvc := service.NewAuthService(users, tokenSvc, service.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTIssuer:    cfg.JWTIssuer,
		JWTAudience:  cfg.JWTAudience,
		AccessTTLMin: cfg.AccessTTLMin,
		RefreshTTL:   time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		BcryptCost:   cfg.BcryptCost,
	})
	imageSvc := service.NewImageService(images, props, files)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Properties: handler.NewPropertyHandler(props, cats),
		Images:     handler.NewImageHandler(imageSvc, props, files),
		Categories: handler.NewCategoryHandler(cats),
		Favorites:  handler.NewFavoriteHandler(favs, props),
		Profile:    handler.NewProfileHandler(users, tokens),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
