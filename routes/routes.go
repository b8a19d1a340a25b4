package routes

import (
	"time"

	"github.com/LoanRangers/SelfServiceLoaningBackend/app"
	"github.com/LoanRangers/SelfServiceLoaningBackend/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	authCtl := controllers.NewAuthController(a.Repo, a.AppSessions(), a.Config)
	itemCtl := controllers.NewItemController(a.Repo)
	loanCtl := controllers.NewLoanController(a.Repo)
	userCtl := controllers.NewUserController(a.Repo)
	auditCtl := controllers.NewAuditController(a.Repo)
	lookupCtl := controllers.NewLookupController(a.Repo)

	authMW := app.AuthRequired(a.Config.JWTSecret, a.AppSessions())
	seenMW := app.TouchLastSeen(a.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// OAuth login flow (public) + session endpoints
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.GET("/gitlab", authCtl.Login)
		auth.GET("/callback", authCtl.Callback)
	}
	authed := r.Group("/auth", authMW, seenMW)
	{
		authed.GET("/me", authCtl.Me)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// Items: catalog + loan lifecycle
	// ------------------------------
	items := r.Group("/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems)
		items.POST("", itemCtl.CreateItem)
		items.DELETE("/:id", itemCtl.DeleteItem)
		items.GET("/available", itemCtl.ListAvailable)
		items.GET("/unavailable", itemCtl.ListUnavailable)

		items.POST("/loan", loanCtl.Loan)
		items.POST("/return", loanCtl.Return)
		items.GET("/loans/history", loanCtl.History) // ?userId=&page=&size=
		items.GET("/loans/current", loanCtl.Current)

		items.POST("/:id/flags", lookupCtl.FlagItem)
		items.DELETE("/:id/flags/:flagId", lookupCtl.UnflagItem)
		items.GET("/:id/comments", lookupCtl.ListComments)
		items.POST("/:id/comments", lookupCtl.AddComment)
	}

	// ------------------------------
	// Lookup tables
	// ------------------------------
	categories := r.Group("/categories", authMW)
	{
		categories.GET("", lookupCtl.ListCategories)
		categories.POST("", lookupCtl.CreateCategory)
	}
	locations := r.Group("/locations", authMW)
	{
		locations.GET("", lookupCtl.ListLocations)
		locations.POST("", lookupCtl.UpsertLocation)
	}
	tags := r.Group("/tags", authMW)
	{
		tags.GET("", lookupCtl.ListTags)
		tags.POST("", lookupCtl.CreateTag)
	}
	qrcodes := r.Group("/qrcodes", authMW)
	{
		qrcodes.GET("", lookupCtl.ListQRCodes)
		qrcodes.POST("", lookupCtl.CreateQRCodes)
	}
	flags := r.Group("/flags", authMW)
	{
		flags.GET("", lookupCtl.ListFlags)
		flags.POST("", lookupCtl.CreateFlag)
	}

	// ------------------------------
	// Users + audit log
	// ------------------------------
	users := r.Group("/users", authMW)
	{
		users.GET("", userCtl.ListUsers)
	}
	auditlog := r.Group("/auditlog", authMW)
	{
		auditlog.GET("", auditCtl.ListAuditLogs)
	}
}
