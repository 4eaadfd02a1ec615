package routes

import (
	"github.com/gofiber/fiber/v2"

	"geogateway-backend/controllers"
	"geogateway-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, bhuvan *controllers.BhuvanController, kgis *controllers.KGISController) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Bhuvan gateway endpoints (uniform {data, error} envelope)
	api.Post("/thematic_statistics", bhuvan.ThematicStatistics)
	api.Post("/lulc_aoi_statistics", bhuvan.LULCAOIStatistics)
	api.Post("/lulc_polygon_statistics", bhuvan.LULCPolygonStatistics)
	api.Post("/lulc_bounding_box_statistics", bhuvan.LULCBoundingBoxStatistics)
	api.Post("/geoid_elevation", bhuvan.GeoidElevation)
	api.Post("/routing", bhuvan.Routing)
	api.Post("/postal_hospital_proximity", bhuvan.PostalHospitalProximity)
	api.Post("/village_geocoding", bhuvan.VillageGeocoding)
	api.Post("/village_geocoding/batch", bhuvan.VillageGeocodingBatch)
	api.Post("/village_reverse_geocoding", bhuvan.VillageReverseGeocoding)
	api.Post("/village_reverse_geocoding/batch", bhuvan.VillageReverseGeocodingBatch)

	// KGIS administrative hierarchy endpoints (provider-shaped payloads)
	kg := api.Group("/kgis")
	kg.Get("/test", kgis.Test)
	kg.Post("/admin-hierarchy", kgis.AdminHierarchy)
	kg.Post("/district-name", kgis.DistrictName)
	kg.Post("/location-details", kgis.LocationDetails)
	kg.Post("/hobli-code", kgis.HobliCode)
	kg.Post("/taluk-code", kgis.TalukCode)
	kg.Post("/distance-btw-pincodes", kgis.PinCodeDistance)
	kg.Post("/nearby-hierarchy", kgis.NearbyHierarchy)
	kg.Post("/geo-polygon-area", kgis.SurveyPolygon)

	// Audit browsing (JWT auth)
	audit := api.Group("/audit")
	audit.Use(middlewares.IsAuthenticatedHeader())
	audit.Get("/requests", controllers.ListApiRequests)
	audit.Get("/requests/:id", controllers.GetApiRequest)
}
