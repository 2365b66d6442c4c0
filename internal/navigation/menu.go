package navigation

import "github.com/BayiPanel/BayiPanel/internal/permission"

// DefaultMenu returns the navigation tree of the panel.
func DefaultMenu() []Entry {
	return []Entry{
		{Title: "Panel", URL: "/panel", Module: permission.ModulePanel},
		{Title: "Firmalar", URL: "/firmalar", Module: permission.ModuleCompanies},
		{Title: "Bayiler", URL: "/bayiler", Module: permission.ModuleDealers},
		{
			Title: "Sorgular",
			Children: []Entry{
				{Title: "Kilometre Hacker", URL: "/kilometre-hacker", Module: permission.ModuleMileage},
				{Title: "VIN Sorgu", URL: "/vin-sorgu", Module: permission.ModuleVIN},
			},
		},
		{
			Title: "Finans",
			Children: []Entry{
				{Title: "Bakiye Yönetimi", URL: "/bakiye", Module: permission.ModuleBalance},
				{Title: "Komisyon", URL: "/komisyon", Module: permission.ModuleCommission},
			},
		},
		{Title: "Cihaz Satış", URL: "/cihaz-satis", Module: permission.ModuleDeviceSales},
		{Title: "Raporlar", URL: "/raporlar", Module: permission.ModuleReports},
		{
			Title: "Yönetim",
			Children: []Entry{
				{Title: "Kullanıcılar", URL: "/kullanicilar", Module: permission.ModuleUsers},
				{Title: "Rol Yönetimi", URL: "/roller", Module: permission.ModuleRoles},
			},
		},
		{Title: "Blog", URL: "/blog", Module: permission.ModuleBlog},
		{Title: "Profil", URL: "/profil", Static: true},
		{Title: "Destek", URL: "/destek", Static: true},
	}
}
