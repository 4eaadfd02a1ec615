package controllers

import (
	"encoding/json"

	"geogateway-backend/audit"
	"geogateway-backend/bhuvan"
	"geogateway-backend/middlewares"
	"geogateway-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// ApiResponse is the uniform envelope for the Bhuvan endpoints. Exactly one
// of the two fields is non-null.
type ApiResponse struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

func dataResponse(c *fiber.Ctx, payload any) error {
	return c.JSON(ApiResponse{Data: payload})
}

func errorResponse(c *fiber.Ctx, message string) error {
	return c.JSON(ApiResponse{Error: &message})
}

// BhuvanController orchestrates validate -> audit -> client call -> audit ->
// envelope for every Bhuvan endpoint.
type BhuvanController struct {
	Thematic  *bhuvan.ThematicClient
	LULC      *bhuvan.LULCClient
	Geoid     *bhuvan.GeoidClient
	Router    *bhuvan.RoutingClient
	Proximity *bhuvan.ProximityClient
	Geocode   *bhuvan.VillageGeocodeClient
	Reverse   *bhuvan.VillageReverseClient
	Audit     *audit.Recorder
}

// Request DTOs. Required coordinates are pointers: 0 is a valid latitude and
// must be distinguishable from an absent field.

type CoordinatesDTO struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (d CoordinatesDTO) toCoordinates() bhuvan.Coordinates {
	return bhuvan.Coordinates{Lat: *d.Lat, Lng: *d.Lng}
}

type ThematicDetailsDTO struct {
	Distcode string `json:"distcode" validate:"required,max=10"`
	Year     string `json:"year" validate:"max=10"`
}

type ThematicStatisticsRequest struct {
	Coordinates CoordinatesDTO     `json:"coordinates"`
	Details     ThematicDetailsDTO `json:"details"`
}

type GeometryWKTRequest struct {
	GeometryWKT string `json:"geometry_wkt" validate:"required"`
}

type PolygonCoordinatesRequest struct {
	CoordinatesList [][]float64 `json:"coordinates_list" validate:"required,min=3,dive,len=2"`
}

type BoundingBoxRequest struct {
	MinLng *float64 `json:"min_lng" validate:"required,gte=-180,lte=180"`
	MinLat *float64 `json:"min_lat" validate:"required,gte=-90,lte=90"`
	MaxLng *float64 `json:"max_lng" validate:"required,gte=-180,lte=180"`
	MaxLat *float64 `json:"max_lat" validate:"required,gte=-90,lte=90"`
}

type GeoidRequest struct {
	AreaID string `json:"area_id" validate:"required,max=50"`
	Datum  string `json:"datum" validate:"omitempty,oneof=geoid ellipsoid"`
	SE     string `json:"se" validate:"max=10"`
}

type RouteCoordinatesRequest struct {
	Start CoordinatesDTO `json:"start"`
	End   CoordinatesDTO `json:"end"`
}

type ProximityRequest struct {
	Coordinates CoordinatesDTO `json:"coordinates"`
	Theme       string         `json:"theme" validate:"omitempty,oneof=hospital postal all"`
	Buffer      int            `json:"buffer" validate:"omitempty,gt=0"`
}

type VillageNameRequest struct {
	VillageName string `json:"village_name" validate:"required,max=100"`
}

type VillageCoordinatesRequest struct {
	Coordinates CoordinatesDTO `json:"coordinates"`
}

type VillageBatchRequest struct {
	VillageNames []string `json:"village_names" validate:"required,min=1,dive,required,max=100"`
}

type ReverseBatchRequest struct {
	CoordinatesList []CoordinatesDTO `json:"coordinates_list" validate:"required,min=1"`
}

func (ct *BhuvanController) ThematicStatistics(c *fiber.Ctx) error {
	var req ThematicStatisticsRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/thematic_statistics")
	ct.Audit.SaveInput(&models.ThematicStatisticsInput{
		ApiRequestID: rec.ID,
		Lat:          *req.Coordinates.Lat,
		Lng:          *req.Coordinates.Lng,
		Distcode:     req.Details.Distcode,
		Year:         req.Details.Year,
	})

	result := ct.Thematic.GetStatistics(req.Coordinates.toCoordinates(), bhuvan.ThematicDetails{
		Distcode: req.Details.Distcode,
		Year:     req.Details.Year,
	})
	// This client reports provider failures as an embedded error key.
	if msg, ok := result["error"].(string); ok && msg != "" {
		ct.Audit.Fail(rec, msg)
		return errorResponse(c, msg)
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) LULCAOIStatistics(c *fiber.Ctx) error {
	var req GeometryWKTRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/lulc_aoi_statistics")
	ct.Audit.SaveInput(&models.LULCAOIStatisticsInput{
		ApiRequestID: rec.ID,
		GeometryWKT:  req.GeometryWKT,
	})

	result, err := ct.LULC.GetAOIStatistics(req.GeometryWKT)
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) LULCPolygonStatistics(c *fiber.Ctx) error {
	var req PolygonCoordinatesRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/lulc_polygon_statistics")
	if raw, err := json.Marshal(req.CoordinatesList); err == nil {
		ct.Audit.SaveInput(&models.LULCPolygonStatisticsInput{
			ApiRequestID:    rec.ID,
			CoordinatesList: datatypes.JSON(raw),
		})
	}

	coords := make([][2]float64, len(req.CoordinatesList))
	for i, pair := range req.CoordinatesList {
		coords[i] = [2]float64{pair[0], pair[1]}
	}
	result, err := ct.LULC.GetPolygonStatistics(coords)
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) LULCBoundingBoxStatistics(c *fiber.Ctx) error {
	var req BoundingBoxRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if *req.MinLng > *req.MaxLng || *req.MinLat > *req.MaxLat {
		return fiber.NewError(fiber.StatusBadRequest, "bounding box min must not exceed max")
	}

	rec := ct.Audit.Start("/lulc_bounding_box_statistics")
	ct.Audit.SaveInput(&models.LULCBoundingBoxStatisticsInput{
		ApiRequestID: rec.ID,
		MinLng:       *req.MinLng,
		MinLat:       *req.MinLat,
		MaxLng:       *req.MaxLng,
		MaxLat:       *req.MaxLat,
	})

	result, err := ct.LULC.GetBoundingBoxStatistics(*req.MinLng, *req.MinLat, *req.MaxLng, *req.MaxLat)
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) GeoidElevation(c *fiber.Ctx) error {
	var req GeoidRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/geoid_elevation")
	ct.Audit.SaveInput(&models.GeoidElevationInput{
		ApiRequestID: rec.ID,
		AreaID:       req.AreaID,
		Datum:        req.Datum,
		SE:           req.SE,
	})

	// The geoid client degrades to simulated data instead of failing.
	result := ct.Geoid.GetElevationData(req.AreaID, req.Datum, req.SE)
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) Routing(c *fiber.Ctx) error {
	var req RouteCoordinatesRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/routing")
	ct.Audit.SaveInput(&models.RoutingInput{
		ApiRequestID: rec.ID,
		StartLat:     *req.Start.Lat,
		StartLng:     *req.Start.Lng,
		EndLat:       *req.End.Lat,
		EndLng:       *req.End.Lng,
	})

	result := ct.Router.GetRoute(req.Start.toCoordinates(), req.End.toCoordinates())
	if result.Error != "" {
		ct.Audit.Fail(rec, result.Error)
		return errorResponse(c, result.Error)
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) PostalHospitalProximity(c *fiber.Ctx) error {
	var req ProximityRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Theme == "" {
		req.Theme = "all"
	}
	if req.Buffer == 0 {
		req.Buffer = 3000
	}

	rec := ct.Audit.Start("/postal_hospital_proximity")
	ct.Audit.SaveInput(&models.PostalHospitalProximityInput{
		ApiRequestID: rec.ID,
		Lat:          *req.Coordinates.Lat,
		Lng:          *req.Coordinates.Lng,
		Theme:        req.Theme,
		Buffer:       req.Buffer,
	})

	result, err := ct.Proximity.GetProximityData(req.Coordinates.toCoordinates(), req.Theme, req.Buffer)
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) VillageGeocoding(c *fiber.Ctx) error {
	var req VillageNameRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/village_geocoding")
	ct.Audit.SaveInput(&models.VillageGeocodingInput{
		ApiRequestID: rec.ID,
		VillageName:  req.VillageName,
	})

	result, err := ct.Geocode.GetVillageData(req.VillageName)
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) VillageGeocodingBatch(c *fiber.Ctx) error {
	var req VillageBatchRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/village_geocoding/batch")
	results := ct.Geocode.SearchVillages(req.VillageNames)
	ct.Audit.Succeed(rec, results)
	return dataResponse(c, results)
}

func (ct *BhuvanController) VillageReverseGeocoding(c *fiber.Ctx) error {
	var req VillageCoordinatesRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rec := ct.Audit.Start("/village_reverse_geocoding")
	ct.Audit.SaveInput(&models.VillageReverseGeocodingInput{
		ApiRequestID: rec.ID,
		Lat:          *req.Coordinates.Lat,
		Lng:          *req.Coordinates.Lng,
	})

	result, err := ct.Reverse.GetVillageAtLocation(req.Coordinates.toCoordinates())
	if err != nil {
		ct.Audit.Fail(rec, err.Error())
		return errorResponse(c, err.Error())
	}
	ct.Audit.Succeed(rec, result)
	return dataResponse(c, result)
}

func (ct *BhuvanController) VillageReverseGeocodingBatch(c *fiber.Ctx) error {
	var req ReverseBatchRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	coords := make([]bhuvan.Coordinates, len(req.CoordinatesList))
	for i, dto := range req.CoordinatesList {
		coords[i] = dto.toCoordinates()
	}

	rec := ct.Audit.Start("/village_reverse_geocoding/batch")
	results := ct.Reverse.GetVillagesForLocations(coords)
	ct.Audit.Succeed(rec, results)
	return dataResponse(c, results)
}
