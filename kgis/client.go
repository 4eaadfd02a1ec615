// Package kgis wraps the KGIS generic webservices: administrative-hierarchy
// lookups for Karnataka (district/taluk/hobli/village codes, pincode
// distances, survey-number polygons). Responses are passed through
// provider-shaped; the only normalization is treating empty-string fields
// as absent.
package kgis

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"geogateway-backend/config"
	"geogateway-backend/utils"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(cfg config.KGISSettings, log *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// AdminHierarchyRequest identifies an administrative unit by department,
// application and unit code.
type AdminHierarchyRequest struct {
	DeptCode  int    `json:"deptcode" validate:"required"`
	ApplnCode int    `json:"applncode" validate:"required"`
	Code      int    `json:"code" validate:"required"`
	Type      string `json:"type" validate:"required"`
}

type AdminHierarchyResponse struct {
	DistrictName *string `json:"districtName,omitempty"`
	DistrictCode *string `json:"districtCode,omitempty"`
	TalukName    *string `json:"talukName,omitempty"`
	TalukCode    *string `json:"talukCode,omitempty"`
	HobliName    *string `json:"hobliName,omitempty"`
	HobliCode    *string `json:"hobliCode,omitempty"`
	VillageName  *string `json:"villageName,omitempty"`
	VillageCode  *string `json:"villageCode,omitempty"`
	Message      *string `json:"message,omitempty"`
}

type DistrictNameRequest struct {
	DistrictName string `json:"districtname" validate:"required"`
}

type DistrictNameResponse struct {
	DistrictCode *string `json:"districtCode,omitempty"`
	Message      *string `json:"message,omitempty"`
}

type LocationDetailsRequest struct {
	Coordinates string `json:"coordinates" validate:"required"`
	Type        string `json:"type" validate:"required"`
	AOI         string `json:"aoi"`
}

type LocationDetailsResponse struct {
	Message         *string `json:"message,omitempty"`
	Type            *string `json:"type,omitempty"`
	DistrictCode    *string `json:"districtCode,omitempty"`
	DistrictName    *string `json:"districtName,omitempty"`
	TownCode        *string `json:"townCode,omitempty"`
	TownName        *string `json:"townName,omitempty"`
	ZoneCode        *string `json:"zoneCode,omitempty"`
	ZoneName        *string `json:"zoneName,omitempty"`
	WardCode        *string `json:"wardCode,omitempty"`
	WardName        *string `json:"wardName,omitempty"`
	LGDWardCode     *string `json:"LGD_WardCode,omitempty"`
	HobliCode       *string `json:"hobliCode,omitempty"`
	HobliName       *string `json:"hobliName,omitempty"`
	VillageCode     *string `json:"villageCode,omitempty"`
	VillageName     *string `json:"villageName,omitempty"`
	LGDVillageCode  *string `json:"LGD_VillageCode,omitempty"`
	TalukCode       *string `json:"talukCode,omitempty"`
	TalukName       *string `json:"talukName,omitempty"`
	SurveyNum       *string `json:"surveynum,omitempty"`
}

type HobliCodeRequest struct {
	HobliName string `json:"hobliname" validate:"required"`
}

type HobliCodeResponse struct {
	DistrictName *string `json:"districtName,omitempty"`
	DistrictCode *string `json:"districtCode,omitempty"`
	TalukName    *string `json:"talukName,omitempty"`
	TalukCode    *string `json:"talukCode,omitempty"`
	HobliName    *string `json:"hobliName,omitempty"`
	HobliCode    *string `json:"hobliCode,omitempty"`
	Message      *string `json:"message,omitempty"`
}

type TalukCodeRequest struct {
	TalukName string `json:"talukname" validate:"required"`
}

type TalukCodeResponse struct {
	DistrictName *string `json:"districtName,omitempty"`
	DistrictCode *string `json:"districtCode,omitempty"`
	TalukName    *string `json:"talukName,omitempty"`
	TalukCode    *string `json:"talukCode,omitempty"`
	Message      *string `json:"message,omitempty"`
}

type PinCodeDistanceRequest struct {
	Pincodes string `json:"pincodes" validate:"required"`
}

type PinCodeDistanceResponse struct {
	KeyMsg   *string `json:"keymsg,omitempty"`
	Distance *string `json:"distance,omitempty"`
}

type NearbyHierarchyRequest struct {
	Coordinates string `json:"coordinates" validate:"required"`
	Distance    string `json:"distance" validate:"required"`
	Type        string `json:"type" validate:"required"`
	AOI         string `json:"aoi"`
}

type NearbyHierarchyResponse struct {
	DistrictName *string `json:"districtName,omitempty"`
	DistrictCode *string `json:"districtCode,omitempty"`
	Message      *string `json:"message,omitempty"`
}

type GeometricPolygonRequest struct {
	VillageID int    `json:"village_id" validate:"required"`
	SurveyNo  int    `json:"survey_no" validate:"required"`
	CoordType string `json:"coord_type" validate:"required"`
}

type PolygonItem struct {
	Message string `json:"message"`
	Geom    string `json:"geom"`
}

type GeometricPolygonResponse struct {
	Polygons []PolygonItem `json:"polygons"`
}

// call hits a generic webservice endpoint and decodes the first element of
// the JSON array the provider wraps every response in.
func (c *Client) call(endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	resp, err := c.http.Get(u)
	if err != nil {
		return fmt.Errorf("Request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Request failed: status %d", resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return fmt.Errorf("Unexpected error: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("Unexpected error: empty response")
	}
	if err := json.Unmarshal(items[0], out); err != nil {
		return fmt.Errorf("Unexpected error: %w", err)
	}
	// Empty strings in provider payloads mean "absent".
	utils.NilEmptyStrings(out)
	return nil
}

func (c *Client) AdminHierarchy(req AdminHierarchyRequest) (*AdminHierarchyResponse, error) {
	params := url.Values{
		"deptcode":  {fmt.Sprint(req.DeptCode)},
		"applncode": {fmt.Sprint(req.ApplnCode)},
		"code":      {fmt.Sprint(req.Code)},
		"type":      {req.Type},
	}
	var out AdminHierarchyResponse
	if err := c.call("kgisadminhierarchy", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DistrictName resolves a district name to its code. When the provider
// leaves districtCode empty the message field takes its place, matching the
// upstream contract.
func (c *Client) DistrictName(req DistrictNameRequest) (*DistrictNameResponse, error) {
	var out DistrictNameResponse
	if err := c.call("districtname", url.Values{"districtname": {req.DistrictName}}, &out); err != nil {
		return nil, err
	}
	if out.DistrictCode == nil && out.Message != nil {
		out.DistrictCode = out.Message
	}
	return &out, nil
}

func (c *Client) LocationDetails(req LocationDetailsRequest) (*LocationDetailsResponse, error) {
	params := url.Values{
		"coordinates": {req.Coordinates},
		"type":        {req.Type},
	}
	if req.AOI != "" {
		params.Set("aoi", req.AOI)
	}
	var out LocationDetailsResponse
	if err := c.call("getlocationdetails", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HobliCode(req HobliCodeRequest) (*HobliCodeResponse, error) {
	var out HobliCodeResponse
	if err := c.call("hoblicode", url.Values{"hobliname": {req.HobliName}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TalukCode(req TalukCodeRequest) (*TalukCodeResponse, error) {
	var out TalukCodeResponse
	if err := c.call("talukcode", url.Values{"talukname": {req.TalukName}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PinCodeDistance(req PinCodeDistanceRequest) (*PinCodeDistanceResponse, error) {
	var out PinCodeDistanceResponse
	if err := c.call("getDistanceBtwPincode", url.Values{"pincodes": {req.Pincodes}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NearbyHierarchy(req NearbyHierarchyRequest) (*NearbyHierarchyResponse, error) {
	params := url.Values{
		"coordinates": {req.Coordinates},
		"distance":    {req.Distance},
		"type":        {req.Type},
		"aoi":         {req.AOI},
	}
	var out NearbyHierarchyResponse
	if err := c.call("nearbyadminhierarchy", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GeomForSurveyNumber fetches the geometric polygons recorded for a survey
// number. Any failure collapses to an empty polygon list rather than an
// error.
func (c *Client) GeomForSurveyNumber(req GeometricPolygonRequest) *GeometricPolygonResponse {
	out := &GeometricPolygonResponse{Polygons: []PolygonItem{}}

	u := fmt.Sprintf("%s/geomForSurveyNum/%d/%d/%s", c.baseURL, req.VillageID, req.SurveyNo, url.PathEscape(req.CoordType))
	resp, err := c.http.Get(u)
	if err != nil {
		c.log.Error("survey polygon request failed", "error", err)
		return out
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("survey polygon request failed", "status", resp.StatusCode)
		return out
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out
	}
	var polygons []PolygonItem
	if err := json.Unmarshal(body, &polygons); err != nil {
		c.log.Error("survey polygon response unparsable", "error", err)
		return out
	}
	out.Polygons = polygons
	return out
}
