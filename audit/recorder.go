package audit

import (
	"encoding/json"
	"log/slog"

	"geogateway-backend/database"
	"geogateway-backend/models"

	"gorm.io/datatypes"
)

// Recorder writes the per-request audit trail. When the database is not
// connected every method degrades to a logged no-op, so request handling
// never depends on persistence being up.
type Recorder struct {
	log *slog.Logger
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Start creates a pending ApiRequest for the endpoint.
func (r *Recorder) Start(endpoint string) *models.ApiRequest {
	rec := &models.ApiRequest{Endpoint: endpoint, Status: models.StatusPending}
	if database.DB == nil {
		r.log.Debug("audit disabled, skipping record", "endpoint", endpoint)
		return rec
	}
	if err := database.DB.Create(rec).Error; err != nil {
		r.log.Error("failed to create audit record", "endpoint", endpoint, "error", err)
	}
	return rec
}

// SaveInput persists the validated parameters of the request. The input must
// carry ApiRequestID already; it is never updated afterwards.
func (r *Recorder) SaveInput(input any) {
	if database.DB == nil {
		return
	}
	if err := database.DB.Create(input).Error; err != nil {
		r.log.Error("failed to save input record", "error", err)
	}
}

// Succeed marks the record success and stores the response payload.
func (r *Recorder) Succeed(rec *models.ApiRequest, payload any) {
	rec.Status = models.StatusSuccess
	if raw, err := json.Marshal(map[string]any{"data": payload}); err == nil {
		rec.ResponseData = datatypes.JSON(raw)
	} else {
		r.log.Error("failed to marshal audit payload", "endpoint", rec.Endpoint, "error", err)
	}
	r.save(rec)
}

// Fail marks the record failed with the error message.
func (r *Recorder) Fail(rec *models.ApiRequest, message string) {
	rec.Status = models.StatusFailed
	rec.ErrorMessage = message
	r.save(rec)
}

func (r *Recorder) save(rec *models.ApiRequest) {
	if database.DB == nil {
		return
	}
	if err := database.DB.Save(rec).Error; err != nil {
		r.log.Error("failed to update audit record", "endpoint", rec.Endpoint, "error", err)
	}
}
