package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sitesurvey/internal/survey/export"
	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/service"

	"github.com/labstack/echo/v4"
)

const (
	zipContentType  = "application/zip"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PostExportPDF handles POST /exports/pdf. The rendered PDFs come back as
// one zip archive; per-record failures are skipped from the archive but
// reported in export_summary.json and the summary headers.
func (h *Handler) PostExportPDF(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ExportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	records, err := h.Records.RecordsForExport(c.Request().Context(), sess, req.RecordIDs)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	if len(records) == 0 {
		code, body := httpError(service.ErrNotFound)
		return c.JSON(code, body)
	}

	var buf bytes.Buffer
	sink := export.NewZipSink(&buf)
	runner := &export.Runner{
		Renderer:   export.NewPDFRenderer(req.Profile, h.Images, h.Logger),
		Sink:       sink,
		BatchSize:  req.BatchSize,
		BatchDelay: h.ExportBatchDelay,
		Logger:     h.Logger,
	}

	result := runner.Run(c.Request().Context(), records, func(completed, total int) {
		h.Logger.Debug("export progress", "completed", completed, "total", total, "user_id", sess.UserID)
	})

	summary := model.ExportSummary{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Failures:  result.Failures,
	}
	if summaryJSON, err := json.MarshalIndent(summary, "", "  "); err == nil {
		_ = sink.Write("export_summary.json", summaryJSON)
	}

	if err := sink.Close(); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	h.Logger.Info("pdf export completed",
		"user_id", sess.UserID,
		"profile", req.Profile,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)

	name := fmt.Sprintf("survey_export_%s.zip", time.Now().Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Response().Header().Set("X-Export-Succeeded", strconv.Itoa(result.Succeeded))
	c.Response().Header().Set("X-Export-Failed", strconv.Itoa(result.Failed))
	return c.Blob(http.StatusOK, zipContentType, buf.Bytes())
}

// PostExportExcel handles POST /exports/excel: one workbook, one row per
// record, hyperlinked image columns.
func (h *Handler) PostExportExcel(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ExportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	records, err := h.Records.RecordsForExport(c.Request().Context(), sess, req.RecordIDs)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	if len(records) == 0 {
		code, body := httpError(service.ErrNotFound)
		return c.JSON(code, body)
	}

	workbook, err := export.BuildWorkbook(records)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	h.Logger.Info("excel export completed", "user_id", sess.UserID, "records", len(records))

	name := fmt.Sprintf("survey_export_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, workbook)
}
