package internal

import (
	"net/http"

	"workd/internal/controllers"
	"workd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/settings", http.HandlerFunc(apiController.Settings))
	routers.Get("/api/works", http.HandlerFunc(apiController.Works))
	routers.Get("/api/works/{id}", http.HandlerFunc(apiController.WorkDetail))
	routers.Get("/api/image/{id}/{file}", http.HandlerFunc(apiController.Image))
	routers.Get("/api/video/{id}/{file}", http.HandlerFunc(apiController.Video))
	routers.Get("/api/download/{id}/{platform}/{file}", http.HandlerFunc(apiController.Download))
	routers.Get("/api/search", http.HandlerFunc(apiController.Search))
	routers.Get("/api/categories", http.HandlerFunc(apiController.Categories))
	routers.Post("/api/like/{id}", http.HandlerFunc(apiController.Like))

	routers.Get("/api/admin/works", http.HandlerFunc(adminController.Works))
	routers.Post("/api/admin/works", http.HandlerFunc(adminController.Create))
	routers.Put("/api/admin/works/{id}", http.HandlerFunc(adminController.Update))
	routers.Delete("/api/admin/works/{id}", http.HandlerFunc(adminController.Delete))
	routers.Post("/api/admin/upload/{id}/{type}", http.HandlerFunc(adminController.Upload))
	routers.Delete("/api/admin/delete-file/{id}/{type}/{file}", http.HandlerFunc(adminController.DeleteFile))

	return routers
}
