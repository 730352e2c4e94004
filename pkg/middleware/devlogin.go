package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DevLogin resolves the farmer uid from the FARM_UID cookie (or ?uid=) and
// stashes it on the context. Stand-in for the product's real session layer.
func DevLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := ""
			if ck, err := c.Cookie("FARM_UID"); err == nil { uid = ck.Value }
			if uid == "" {
				if q := c.QueryParam("uid"); q != "" {
					c.SetCookie(&http.Cookie{Name: "FARM_UID", Value: q, Path: "/"}); uid = q
				} else {
					uid = "F_DEV_DEFAULT"
					c.SetCookie(&http.Cookie{Name: "FARM_UID", Value: uid, Path: "/"})
				}
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}
