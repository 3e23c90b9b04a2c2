package model

import "strings"

// UpdateRecordReq wraps a RecordPatch for PATCH /records/:id. Required
// identifiers may be corrected but not blanked out.
type UpdateRecordReq struct {
	Patch RecordPatch
}

func (r *UpdateRecordReq) Validate() error {
	p := &r.Patch

	for _, f := range []*string{p.RFPNo, p.PoleNo, p.LocationName, p.PoliceStation} {
		if f == nil {
			continue
		}
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return &ErrorDetail{Code: "bad_request", Message: "required fields cannot be cleared"}
		}
	}
	for _, f := range []*string{p.Zone, p.Ward, p.Remarks} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}

	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return &ErrorDetail{Code: "bad_request", Message: "latitude out of range"}
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return &ErrorDetail{Code: "bad_request", Message: "longitude out of range"}
	}
	for _, f := range []*float64{p.PoleHeightM, p.CableLengthM, p.FiberLengthM} {
		if f != nil && *f < 0 {
			return &ErrorDetail{Code: "bad_request", Message: "measurements must be non-negative"}
		}
	}
	for _, f := range []*int{p.FixedCameras, p.PTZCameras, p.ANPRCameras, p.TotalCameras} {
		if f != nil && *f < 0 {
			return &ErrorDetail{Code: "bad_request", Message: "camera counts must be non-negative"}
		}
	}

	if p.IsEmpty() {
		return &ErrorDetail{Code: "bad_request", Message: "patch contains no fields"}
	}
	return nil
}
