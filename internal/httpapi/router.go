// Package httpapi serves the optional debug HTTP surface of the meteo
// server. It never answers weather queries, those only travel over UDP.
package httpapi

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luma/meteo/storage"
	"github.com/luma/meteo/weather"
)

type Options struct {
	Cities weather.CitySet

	// Store holds live station readings. Nil when the feed is disabled.
	Store storage.Store

	Debug bool

	Log *zap.Logger
}

func NewRouter(options Options) *gin.Engine {
	gin.DisableConsoleColor()
	if options.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Access and error log in one, RFC3339 UTC timestamps.
	r.Use(ginzap.GinzapWithConfig(options.Log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs panics with their stack
	r.Use(ginzap.RecoveryWithZap(options.Log, true))

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.GET("/cities", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cities": options.Cities.Names()})
	})

	r.GET("/readings", func(c *gin.Context) {
		if options.Store == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("{}"))
			return
		}

		data, err := options.Store.Backup()
		if err != nil {
			options.Log.Error("Failed to back up readings", zap.Error(err))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	})

	return r
}
