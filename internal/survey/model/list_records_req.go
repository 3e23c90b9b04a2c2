package model

import "strings"

type ListRecordsReq struct {
	PoliceStation string `query:"police_station" validate:"omitempty,max=100"`
	Page          int    `query:"page" validate:"omitempty,gte=1"`
	PageSize      int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

func (r *ListRecordsReq) Validate() error {
	r.PoliceStation = strings.TrimSpace(r.PoliceStation)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.Page == 0 {
		r.Page = 1
	}
	if r.PageSize == 0 {
		r.PageSize = DefaultPageSize
	}
	return nil
}

type ListRecordsResponse struct {
	Records []*SurveyRecord `json:"records"`
	Page    int             `json:"page"`
	Total   int64           `json:"total"`
}
