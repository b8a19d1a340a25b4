package main

import (
	"log"
	"os"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/config"
	"github.com/LoanRangers/SelfServiceLoaningBackend/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })
	r.GET("/metrics", func(c *app.Ctx) { app.MetricsHandler().ServeHTTP(c.Writer, c.Request) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
