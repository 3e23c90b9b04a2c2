package model

import "time"

// ImageRef points at one uploaded image in the object store. URL is the
// public (or presigned) form handed to clients; ObjectKey is what the
// best-effort cascade delete works from.
type ImageRef struct {
	ObjectKey string `json:"object_key" bson:"object_key"`
	URL       string `json:"url" bson:"url"`
}

// SurveyRecord is one CCTV infrastructure survey submission.
// RFPNo, PoleNo, LocationName and PoliceStation are required; everything
// else is optional and filled in as surveyors collect data on site.
type SurveyRecord struct {
	ID string `json:"id" bson:"_id,omitempty"`

	// Required identifiers
	RFPNo         string `json:"rfp_no" bson:"rfp_no"`
	PoleNo        string `json:"pole_no" bson:"pole_no"`
	LocationName  string `json:"location_name" bson:"location_name"`
	PoliceStation string `json:"police_station" bson:"police_station"`

	// Location
	Zone      string   `json:"zone,omitempty" bson:"zone,omitempty"`
	Ward      string   `json:"ward,omitempty" bson:"ward,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`

	// Infrastructure measurements
	PoleHeightM  *float64 `json:"pole_height_m,omitempty" bson:"pole_height_m,omitempty"`
	CableLengthM *float64 `json:"cable_length_m,omitempty" bson:"cable_length_m,omitempty"`
	FiberLengthM *float64 `json:"fiber_length_m,omitempty" bson:"fiber_length_m,omitempty"`

	// Camera counts
	FixedCameras *int `json:"fixed_cameras,omitempty" bson:"fixed_cameras,omitempty"`
	PTZCameras   *int `json:"ptz_cameras,omitempty" bson:"ptz_cameras,omitempty"`
	ANPRCameras  *int `json:"anpr_cameras,omitempty" bson:"anpr_cameras,omitempty"`
	TotalCameras *int `json:"total_cameras,omitempty" bson:"total_cameras,omitempty"`

	// Analytics flags
	HasANPR  *bool `json:"has_anpr,omitempty" bson:"has_anpr,omitempty"`
	HasFRS   *bool `json:"has_frs,omitempty" bson:"has_frs,omitempty"`
	HasCrowd *bool `json:"has_crowd,omitempty" bson:"has_crowd,omitempty"`

	Remarks string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	Images  []ImageRef `json:"images,omitempty" bson:"images,omitempty"`

	// Ownership
	OwnerUID   string `json:"owner_uid" bson:"owner_uid"`
	OwnerPhone string `json:"owner_phone" bson:"owner_phone"`
	OwnerName  string `json:"owner_name" bson:"owner_name"`

	// Audit fields (server-assigned)
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RecordPatch is the explicit field-level update shape. Nil means "leave
// unchanged"; a set pointer replaces the stored value. Required identifiers
// may be corrected but never cleared (validated before merge).
type RecordPatch struct {
	RFPNo         *string `json:"rfp_no,omitempty" bson:"rfp_no,omitempty"`
	PoleNo        *string `json:"pole_no,omitempty" bson:"pole_no,omitempty"`
	LocationName  *string `json:"location_name,omitempty" bson:"location_name,omitempty"`
	PoliceStation *string `json:"police_station,omitempty" bson:"police_station,omitempty"`

	Zone      *string  `json:"zone,omitempty" bson:"zone,omitempty"`
	Ward      *string  `json:"ward,omitempty" bson:"ward,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`

	PoleHeightM  *float64 `json:"pole_height_m,omitempty" bson:"pole_height_m,omitempty"`
	CableLengthM *float64 `json:"cable_length_m,omitempty" bson:"cable_length_m,omitempty"`
	FiberLengthM *float64 `json:"fiber_length_m,omitempty" bson:"fiber_length_m,omitempty"`

	FixedCameras *int `json:"fixed_cameras,omitempty" bson:"fixed_cameras,omitempty"`
	PTZCameras   *int `json:"ptz_cameras,omitempty" bson:"ptz_cameras,omitempty"`
	ANPRCameras  *int `json:"anpr_cameras,omitempty" bson:"anpr_cameras,omitempty"`
	TotalCameras *int `json:"total_cameras,omitempty" bson:"total_cameras,omitempty"`

	HasANPR  *bool `json:"has_anpr,omitempty" bson:"has_anpr,omitempty"`
	HasFRS   *bool `json:"has_frs,omitempty" bson:"has_frs,omitempty"`
	HasCrowd *bool `json:"has_crowd,omitempty" bson:"has_crowd,omitempty"`

	Remarks *string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	Images  *[]ImageRef `json:"images,omitempty" bson:"images,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *RecordPatch) IsEmpty() bool {
	return p.RFPNo == nil && p.PoleNo == nil && p.LocationName == nil &&
		p.PoliceStation == nil && p.Zone == nil && p.Ward == nil &&
		p.Latitude == nil && p.Longitude == nil && p.PoleHeightM == nil &&
		p.CableLengthM == nil && p.FiberLengthM == nil &&
		p.FixedCameras == nil && p.PTZCameras == nil && p.ANPRCameras == nil &&
		p.TotalCameras == nil && p.HasANPR == nil && p.HasFRS == nil &&
		p.HasCrowd == nil && p.Remarks == nil && p.Images == nil
}

// RecordFilter narrows listing queries.
type RecordFilter struct {
	OwnerUID      string
	PoliceStation string
	Page          int
	PageSize      int
}
