package router

import (
	"github.com/labstack/echo/v4"

	"kaset/pkg/middleware"
)

func New(
	e *echo.Echo,
	cropCtrl interface {
		Create(echo.Context) error
		Get(echo.Context) error
		List(echo.Context) error
		Patch(echo.Context) error
		Delete(echo.Context) error
		Next(echo.Context) error
		Facts(echo.Context) error
	},
	eventCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
	},
	authCtrl interface {
		DevLogin(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.DevLogin())
	api := e.Group("")

	api.GET("/whoami", authCtrl.WhoAmI)
	api.GET("/devlogin", authCtrl.DevLogin)
	e.GET("/health", healthCtrl.Health)

	api.POST("/crops", cropCtrl.Create)
	api.GET("/crops", cropCtrl.List)
	api.GET("/crops/:id", cropCtrl.Get)
	api.PATCH("/crops/:id", cropCtrl.Patch)
	api.DELETE("/crops/:id", cropCtrl.Delete)

	// Derived views; ?as_of=YYYY-MM-DD replays any day deterministically.
	api.GET("/crops/:id/next", cropCtrl.Next)
	api.GET("/crops/:id/facts", cropCtrl.Facts)

	api.POST("/crops/:id/events", eventCtrl.Create)
	api.GET("/crops/:id/events", eventCtrl.List)

	return e
}
