package main

import (
	"github.com/healthscan/backend/internal/admin"
	"github.com/healthscan/backend/internal/analysis"
	"github.com/healthscan/backend/internal/blog"
	"github.com/healthscan/backend/internal/quota"
	"github.com/healthscan/backend/internal/router"
	"github.com/healthscan/backend/internal/settings"
	"github.com/healthscan/backend/internal/users"
)

// apiRoutes is the ordered dispatch table under /api/. Static paths come
// before parametrized ones so e.g. GET /api/blog never swallows
// /api/anonymous-scans lookups, and earlier rows win.
func apiRoutes(
	usersH *users.Handler,
	analysisH *analysis.Handler,
	quotaH *quota.Handler,
	blogH *blog.Handler,
	settingsH *settings.Handler,
	adminH *admin.Handler,
) []router.Route {
	return []router.Route{
		{Method: "POST", Pattern: "auth/register", Handler: usersH.Register},
		{Method: "POST", Pattern: "auth/login", Handler: usersH.Login},
		{Method: "GET", Pattern: "auth/me", Handler: usersH.Me},

		{Method: "POST", Pattern: "analyze", Handler: analysisH.Analyze},

		{Method: "GET", Pattern: "anonymous-scans", Handler: quotaH.AnonymousScans},
		{Method: "POST", Pattern: "anonymous-scans/use", Handler: quotaH.UseAnonymousScan},

		{Method: "GET", Pattern: "users/{id}/products", Handler: analysisH.History},
		{Method: "POST", Pattern: "users/{id}/credits/add", Handler: quotaH.AddCredits},
		{Method: "POST", Pattern: "users/{id}/credits/use", Handler: quotaH.UseCredits},

		{Method: "GET", Pattern: "blog", Handler: blogH.List},
		{Method: "GET", Pattern: "blog/{id}", Handler: blogH.Get},

		{Method: "GET", Pattern: "settings/ads", Handler: settingsH.GetAds},

		{Method: "GET", Pattern: "admin/dashboard", Handler: adminH.Dashboard},
		{Method: "GET", Pattern: "admin/users", Handler: adminH.Users},
		{Method: "GET", Pattern: "admin/blog", Handler: blogH.AdminList},
		{Method: "POST", Pattern: "admin/blog", Handler: blogH.AdminCreate},
		{Method: "GET", Pattern: "admin/blog/{id}", Handler: blogH.AdminGet},
		{Method: "PUT", Pattern: "admin/blog/{id}", Handler: blogH.AdminUpdate},
		{Method: "DELETE", Pattern: "admin/blog/{id}", Handler: blogH.AdminDelete},
		{Method: "GET", Pattern: "admin/settings/ads", Handler: settingsH.AdminGetAds},
		{Method: "POST", Pattern: "admin/settings/ads", Handler: settingsH.AdminSaveAds},
	}
}
