package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kaset/pkg/auth/controller"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// DevLogin hands out a farmer uid cookie for local development. Real session
// auth lives in the surrounding product, not here.
func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" { uid = "F_DEV_DEFAULT" }
	c.SetCookie(&http.Cookie{Name: "FARM_UID", Value: uid, Path: "/"})
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	v := c.Get("uid")
	uid, _ := v.(string)
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}
