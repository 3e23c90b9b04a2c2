package model

import "strings"

type ExportReq struct {
	RecordIDs []string `json:"record_ids" validate:"required,min=1,max=500,dive,required"`
	Profile   string   `json:"profile" validate:"omitempty,oneof=full client"`
	BatchSize int      `json:"batch_size" validate:"omitempty,gte=1,lte=10"`
}

func (r *ExportReq) Validate() error {
	r.Profile = strings.ToLower(strings.TrimSpace(r.Profile))
	for i := range r.RecordIDs {
		r.RecordIDs[i] = strings.TrimSpace(r.RecordIDs[i])
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.Profile == "" {
		r.Profile = ExportProfileFull
	}
	if r.BatchSize == 0 {
		r.BatchSize = DefaultExportBatchSize
	}
	return nil
}

// ExportFailure identifies one record that could not be rendered. The two
// fields are the human-facing identifiers surveyors use to find the form.
type ExportFailure struct {
	RFPNo  string `json:"rfp_no"`
	PoleNo string `json:"pole_no"`
	Reason string `json:"reason,omitempty"`
}

type ExportSummary struct {
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []ExportFailure `json:"failures,omitempty"`
}
