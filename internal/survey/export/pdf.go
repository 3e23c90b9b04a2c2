package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sitesurvey/internal/survey/model"

	"github.com/go-pdf/fpdf"
)

const (
	pdfLabelWidth = 60
	pdfRowHeight  = 8
	pdfImageWidth = 120
)

// PDFRenderer renders one survey record to an A4 document with a running
// page footer. The profile selects the field subset; "client" drops internal
// measurements, ownership, and remarks.
type PDFRenderer struct {
	Profile string
	Images  ImageFetcher
	Logger  *slog.Logger
}

func NewPDFRenderer(profile string, images ImageFetcher, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{
		Profile: profile,
		Images:  images,
		Logger:  logger,
	}
}

func (r *PDFRenderer) Render(ctx context.Context, rec *model.SurveyRecord) (string, []byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "CCTV Infrastructure Site Survey", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, rec.LocationName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, row := range r.fieldRows(rec) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(pdfLabelWidth, pdfRowHeight, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, pdfRowHeight, row[1], "1", 1, "L", false, 0, "")
	}

	r.drawImages(ctx, pdf, rec)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfFileName(rec), buf.Bytes(), nil
}

func (r *PDFRenderer) fieldRows(rec *model.SurveyRecord) [][2]string {
	rows := [][2]string{
		{"RFP No", rec.RFPNo},
		{"Pole No", rec.PoleNo},
		{"Location", rec.LocationName},
		{"Police Station", rec.PoliceStation},
		{"Zone", rec.Zone},
		{"Ward", rec.Ward},
		{"Latitude", formatFloat(rec.Latitude)},
		{"Longitude", formatFloat(rec.Longitude)},
		{"Total Cameras", formatInt(rec.TotalCameras)},
	}

	if r.Profile != model.ExportProfileClient {
		rows = append(rows,
			[2]string{"Pole Height (m)", formatFloat(rec.PoleHeightM)},
			[2]string{"Cable Length (m)", formatFloat(rec.CableLengthM)},
			[2]string{"Fiber Length (m)", formatFloat(rec.FiberLengthM)},
			[2]string{"Fixed Cameras", formatInt(rec.FixedCameras)},
			[2]string{"PTZ Cameras", formatInt(rec.PTZCameras)},
			[2]string{"ANPR Cameras", formatInt(rec.ANPRCameras)},
			[2]string{"ANPR Analytics", formatBool(rec.HasANPR)},
			[2]string{"FRS Analytics", formatBool(rec.HasFRS)},
			[2]string{"Crowd Analytics", formatBool(rec.HasCrowd)},
			[2]string{"Remarks", rec.Remarks},
			[2]string{"Surveyed By", rec.OwnerName},
			[2]string{"Surveyor Phone", rec.OwnerPhone},
		)
	}

	rows = append(rows, [2]string{"Surveyed On", rec.CreatedAt.Format(time.RFC1123)})
	return rows
}

// drawImages embeds each linked image on its own page. A fetch failure or
// unsupported format skips that image only; the record still renders.
func (r *PDFRenderer) drawImages(ctx context.Context, pdf *fpdf.Fpdf, rec *model.SurveyRecord) {
	if r.Images == nil {
		return
	}

	for i, ref := range rec.Images {
		data, err := r.Images.Fetch(ctx, ref.URL)
		if err != nil {
			if r.Logger != nil {
				r.Logger.Warn("image fetch skipped", "rfp_no", rec.RFPNo, "url", ref.URL, "error", err)
			}
			continue
		}

		imgType := imageType(data)
		if imgType == "" {
			if r.Logger != nil {
				r.Logger.Warn("unsupported image format skipped", "rfp_no", rec.RFPNo, "url", ref.URL)
			}
			continue
		}

		name := fmt.Sprintf("img_%s_%d", rec.ID, i)
		opt := fpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 8, fmt.Sprintf("Site Image %d", i+1), "", 1, "L", false, 0, "")
		pdf.ImageOptions(name, (210-pdfImageWidth)/2, pdf.GetY(), pdfImageWidth, 0, true, opt, 0, "")
	}
}

func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

func pdfFileName(rec *model.SurveyRecord) string {
	return fmt.Sprintf("%s_%s.pdf", sanitizeName(rec.RFPNo), sanitizeName(rec.PoleNo))
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "record"
	}
	return b.String()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "Yes"
	}
	return "No"
}
