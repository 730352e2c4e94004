package controller

import "github.com/labstack/echo/v4"

// AuthController is the dev-login shim; the product's real session layer
// replaces it in deployment.
type AuthController interface {
	DevLogin(c echo.Context) error
	WhoAmI(c echo.Context) error
}
