package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApiRequest statuses. A record is created pending and moved exactly once to
// success or failed at the end of the same request.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ApiRequest is the audit record written for every handled request.
type ApiRequest struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	RequestID        string         `json:"request_id" gorm:"size:36;uniqueIndex"`
	Endpoint         string         `json:"endpoint" gorm:"size:50;not null;index:idx_api_request_endpoint_time,priority:1"`
	RequestTimestamp time.Time      `json:"request_timestamp" gorm:"autoCreateTime;index:idx_api_request_endpoint_time,priority:2"`
	Status           string         `json:"status" gorm:"size:20;default:pending"`
	ResponseData     datatypes.JSON `json:"response_data" gorm:"type:jsonb"`
	ErrorMessage     string         `json:"error_message" gorm:"type:text"`
}

func (r *ApiRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return nil
}

// Input records capture the validated parameters of one inbound request.
// Each owns a reference to exactly one ApiRequest and is never mutated.

type ThematicStatisticsInput struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ApiRequestID uint    `json:"api_request_id" gorm:"not null;index"`
	Lat          float64 `json:"lat" gorm:"not null;index:idx_thematic_stats_coords,priority:1"`
	Lng          float64 `json:"lng" gorm:"not null;index:idx_thematic_stats_coords,priority:2"`
	Distcode     string  `json:"distcode" gorm:"size:10;not null"`
	Year         string  `json:"year" gorm:"size:10"`
}

type LULCAOIStatisticsInput struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ApiRequestID uint   `json:"api_request_id" gorm:"not null;index"`
	GeometryWKT  string `json:"geometry_wkt" gorm:"type:text;not null"`
}

type LULCPolygonStatisticsInput struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	ApiRequestID    uint           `json:"api_request_id" gorm:"not null;index"`
	CoordinatesList datatypes.JSON `json:"coordinates_list" gorm:"type:jsonb;not null"`
}

type LULCBoundingBoxStatisticsInput struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ApiRequestID uint    `json:"api_request_id" gorm:"not null;index"`
	MinLng       float64 `json:"min_lng" gorm:"not null"`
	MinLat       float64 `json:"min_lat" gorm:"not null"`
	MaxLng       float64 `json:"max_lng" gorm:"not null"`
	MaxLat       float64 `json:"max_lat" gorm:"not null"`
}

type GeoidElevationInput struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ApiRequestID uint   `json:"api_request_id" gorm:"not null;index"`
	AreaID       string `json:"area_id" gorm:"size:50;not null"`
	Datum        string `json:"datum" gorm:"size:20;default:geoid"`
	SE           string `json:"se" gorm:"size:10;default:CDEM"`
}

type RoutingInput struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ApiRequestID uint    `json:"api_request_id" gorm:"not null;index"`
	StartLat     float64 `json:"start_lat" gorm:"not null;index:idx_routing_coords,priority:1"`
	StartLng     float64 `json:"start_lng" gorm:"not null;index:idx_routing_coords,priority:2"`
	EndLat       float64 `json:"end_lat" gorm:"not null;index:idx_routing_coords,priority:3"`
	EndLng       float64 `json:"end_lng" gorm:"not null;index:idx_routing_coords,priority:4"`
}

type PostalHospitalProximityInput struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ApiRequestID uint    `json:"api_request_id" gorm:"not null;index"`
	Lat          float64 `json:"lat" gorm:"not null;index:idx_proximity_coords,priority:1"`
	Lng          float64 `json:"lng" gorm:"not null;index:idx_proximity_coords,priority:2"`
	Theme        string  `json:"theme" gorm:"size:20;default:all"`
	Buffer       int     `json:"buffer" gorm:"default:3000"`
}

type VillageGeocodingInput struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ApiRequestID uint   `json:"api_request_id" gorm:"not null;index"`
	VillageName  string `json:"village_name" gorm:"size:100;not null"`
}

type VillageReverseGeocodingInput struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ApiRequestID uint    `json:"api_request_id" gorm:"not null;index"`
	Lat          float64 `json:"lat" gorm:"not null;index:idx_reverse_geocoding_coords,priority:1"`
	Lng          float64 `json:"lng" gorm:"not null;index:idx_reverse_geocoding_coords,priority:2"`
}
