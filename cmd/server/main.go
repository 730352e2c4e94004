package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"kaset/config"
	"kaset/database"
	"kaset/router"

	authCtrlImp "kaset/pkg/auth/controllerImp"

	cropCtrlImp "kaset/pkg/crop/controllerImp"
	cropRepoImp "kaset/pkg/crop/repositoryImp"

	eventCtrlImp "kaset/pkg/careevent/controllerImp"
	eventRepoImp "kaset/pkg/careevent/repositoryImp"

	healthCtrlImp "kaset/pkg/health/controllerImp"

	"kaset/pkg/lifecycle"
)

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Reference tables: built-in defaults unless a deployment overrides
	// them from files. A bad file is a warning, not a dead process.
	timelines := lifecycle.DefaultTimelines()
	if cfg.TimelineCSV != "" {
		if t, err := lifecycle.LoadTimelinesCSV(cfg.TimelineCSV); err != nil {
			log.Printf("[rules] timeline csv warn: %v", err)
		} else {
			timelines = t
		}
	}
	policy := lifecycle.DefaultPolicy()
	if cfg.PolicyCSV != "" {
		if p, err := lifecycle.LoadPolicyCSV(cfg.PolicyCSV); err != nil {
			log.Printf("[rules] policy csv warn: %v", err)
		} else {
			policy = p
		}
	}
	if cfg.PolicyXLSX != "" {
		if p, err := lifecycle.LoadPolicyXLSX(cfg.PolicyXLSX); err != nil {
			log.Printf("[rules] policy xlsx warn: %v", err)
		} else {
			policy = p
		}
	}
	eng := lifecycle.New(timelines, policy)

	// 4) Echo
	e := echo.New()
	e.Use(echoMiddleware.Recover())

	// 5) Repos/Controllers
	cropRepo := cropRepoImp.New(db)
	eventRepo := eventRepoImp.New(db)
	cropCtrl := cropCtrlImp.New(cropRepo, eng)
	eventCtrl := eventCtrlImp.New(cropRepo, eventRepo, eng)
	authCtrl := authCtrlImp.NewAuthController()
	hCtrl := healthCtrlImp.NewHealthCtrl(db)

	// 6) Router
	r := router.New(e, cropCtrl, eventCtrl, authCtrl, hCtrl)

	// 7) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
