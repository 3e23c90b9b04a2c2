package model

import "strings"

type CreateRecordReq struct {
	RFPNo         string `json:"rfp_no" validate:"required,min=1,max=50"`
	PoleNo        string `json:"pole_no" validate:"required,min=1,max=50"`
	LocationName  string `json:"location_name" validate:"required,min=1,max=200"`
	PoliceStation string `json:"police_station" validate:"required,min=1,max=100"`

	Zone      string   `json:"zone" validate:"omitempty,max=50"`
	Ward      string   `json:"ward" validate:"omitempty,max=50"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`

	PoleHeightM  *float64 `json:"pole_height_m" validate:"omitempty,gte=0"`
	CableLengthM *float64 `json:"cable_length_m" validate:"omitempty,gte=0"`
	FiberLengthM *float64 `json:"fiber_length_m" validate:"omitempty,gte=0"`

	FixedCameras *int `json:"fixed_cameras" validate:"omitempty,gte=0"`
	PTZCameras   *int `json:"ptz_cameras" validate:"omitempty,gte=0"`
	ANPRCameras  *int `json:"anpr_cameras" validate:"omitempty,gte=0"`
	TotalCameras *int `json:"total_cameras" validate:"omitempty,gte=0"`

	HasANPR  *bool `json:"has_anpr"`
	HasFRS   *bool `json:"has_frs"`
	HasCrowd *bool `json:"has_crowd"`

	Remarks string `json:"remarks" validate:"omitempty,max=2000"`
}

func (r *CreateRecordReq) Validate() error {
	r.RFPNo = strings.TrimSpace(r.RFPNo)
	r.PoleNo = strings.TrimSpace(r.PoleNo)
	r.LocationName = strings.TrimSpace(r.LocationName)
	r.PoliceStation = strings.TrimSpace(r.PoliceStation)
	r.Zone = strings.TrimSpace(r.Zone)
	r.Ward = strings.TrimSpace(r.Ward)
	r.Remarks = strings.TrimSpace(r.Remarks)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// ToRecord builds the stored document with ownership stamped from the session.
func (r *CreateRecordReq) ToRecord(sess *Session) *SurveyRecord {
	return &SurveyRecord{
		RFPNo:         r.RFPNo,
		PoleNo:        r.PoleNo,
		LocationName:  r.LocationName,
		PoliceStation: r.PoliceStation,
		Zone:          r.Zone,
		Ward:          r.Ward,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		PoleHeightM:   r.PoleHeightM,
		CableLengthM:  r.CableLengthM,
		FiberLengthM:  r.FiberLengthM,
		FixedCameras:  r.FixedCameras,
		PTZCameras:    r.PTZCameras,
		ANPRCameras:   r.ANPRCameras,
		TotalCameras:  r.TotalCameras,
		HasANPR:       r.HasANPR,
		HasFRS:        r.HasFRS,
		HasCrowd:      r.HasCrowd,
		Remarks:       r.Remarks,
		OwnerUID:      sess.UserID,
		OwnerPhone:    sess.Phone,
		OwnerName:     sess.Name,
	}
}
