package database

import (
	"fmt"

	"geogateway-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate applies idempotent schema migrations for the audit tables and
// the composite index used by the audit listing endpoint.
func AutoMigrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.ApiRequest{},
			&models.ThematicStatisticsInput{},
			&models.LULCAOIStatisticsInput{},
			&models.LULCPolygonStatisticsInput{},
			&models.LULCBoundingBoxStatisticsInput{},
			&models.GeoidElevationInput{},
			&models.RoutingInput{},
			&models.PostalHospitalProximityInput{},
			&models.VillageGeocodingInput{},
			&models.VillageReverseGeocodingInput{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_api_request_endpoint_time ON api_requests (endpoint, request_timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_thematic_stats_coords ON thematic_statistics_inputs (lat, lng)`,
			`CREATE INDEX IF NOT EXISTS idx_routing_coords ON routing_inputs (start_lat, start_lng, end_lat, end_lng)`,
			`CREATE INDEX IF NOT EXISTS idx_proximity_coords ON postal_hospital_proximity_inputs (lat, lng)`,
			`CREATE INDEX IF NOT EXISTS idx_reverse_geocoding_coords ON village_reverse_geocoding_inputs (lat, lng)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// Bounding-box sanity check, mirrored from the input model contract.
		check := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = 'lulc_bounding_box_statistics_inputs'::regclass
		  AND conname  = 'chk_bounding_box'
	) THEN
		ALTER TABLE lulc_bounding_box_statistics_inputs
		ADD CONSTRAINT chk_bounding_box
		CHECK (min_lat <= max_lat AND min_lng <= max_lng
		   AND min_lat >= -90 AND max_lat <= 90
		   AND min_lng >= -180 AND max_lng <= 180);
	END IF;
END $$;`
		if err := tx.Exec(check).Error; err != nil {
			return fmt.Errorf("check constraint migration failed: %w", err)
		}

		return nil
	})
}
