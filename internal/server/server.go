package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/clouddrop/clouddrop/internal/account"
	"github.com/clouddrop/clouddrop/internal/database"
	"github.com/clouddrop/clouddrop/internal/model"
	"github.com/clouddrop/clouddrop/internal/server/middlewares"
	"github.com/clouddrop/clouddrop/internal/session"
	"github.com/clouddrop/clouddrop/pkg/digest"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version        string
	Database       database.Client
	NoRegistration bool
	Digest         digest.Digest
	// Session params
	SessionTTL time.Duration
	OnLogout   session.LogoutFunc
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		session.NewTabStore(),
		ctrl.SessionTTL,
		ctrl.OnLogout,
	)
	accounts := account.NewService(ctrl.Database, sessions, ctrl.Digest)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	//
	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		accounts: accounts,
		sessions: sessions,
	}
	if !ctrl.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login)
	restricted.POST("/auth/sign_out", auth.Logout)
	restricted.POST("/auth/update", auth.Update)
	restricted.POST("/auth/change_pw", auth.UpdatePassword)
	restricted.DELETE("/auth", auth.Delete)

	//
	// dashboard handlers
	//
	dashboard := &dashboard{}
	restricted.GET("/dashboard", dashboard.Show)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
