package export

import (
	"fmt"
	"time"

	"sitesurvey/internal/survey/model"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Survey Records"

// maxImageColumns caps the hyperlink columns; records rarely carry more than
// three site photos.
const maxImageColumns = 3

var excelHeaders = []string{
	"RFP No", "Pole No", "Location", "Police Station", "Zone", "Ward",
	"Latitude", "Longitude", "Pole Height (m)", "Cable Length (m)",
	"Fiber Length (m)", "Fixed Cameras", "PTZ Cameras", "ANPR Cameras",
	"Total Cameras", "ANPR", "FRS", "Crowd", "Remarks", "Surveyed By",
	"Surveyor Phone", "Surveyed On",
	"Image 1", "Image 2", "Image 3",
}

// BuildWorkbook renders all records into one spreadsheet, one row per
// record, with image references as hyperlink cells.
func BuildWorkbook(records []*model.SurveyRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), excelSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "1265BE", Underline: "single"},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(excelSheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(excelSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.RFPNo, rec.PoleNo, rec.LocationName, rec.PoliceStation,
			rec.Zone, rec.Ward,
			floatCell(rec.Latitude), floatCell(rec.Longitude),
			floatCell(rec.PoleHeightM), floatCell(rec.CableLengthM),
			floatCell(rec.FiberLengthM),
			intCell(rec.FixedCameras), intCell(rec.PTZCameras),
			intCell(rec.ANPRCameras), intCell(rec.TotalCameras),
			formatBool(rec.HasANPR), formatBool(rec.HasFRS), formatBool(rec.HasCrowd),
			rec.Remarks, rec.OwnerName, rec.OwnerPhone,
			rec.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(excelSheet, cell, v); err != nil {
				return nil, err
			}
		}

		for j, img := range rec.Images {
			if j >= maxImageColumns {
				break
			}
			cell, err := excelize.CoordinatesToCellName(len(values)+j+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(excelSheet, cell, fmt.Sprintf("Image %d", j+1)); err != nil {
				return nil, err
			}
			if err := f.SetCellHyperLink(excelSheet, cell, img.URL, "External"); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(excelSheet, cell, cell, linkStyle); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
