package handler

import (
	"net/http"

	"sitesurvey/internal/survey/model"

	"github.com/labstack/echo/v4"
)

// PostRecord handles POST /records
func (h *Handler) PostRecord(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.CreateRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	rec, err := h.Records.CreateRecord(c.Request().Context(), sess, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusCreated, rec)
}

// GetRecords handles GET /records
func (h *Handler) GetRecords(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ListRecordsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	resp, err := h.Records.ListRecords(c.Request().Context(), sess, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAdminRecords handles GET /admin/records, the flattened all-users view.
func (h *Handler) GetAdminRecords(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var req model.ListRecordsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid parameters"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	resp, err := h.Records.ListAllRecords(c.Request().Context(), sess, req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRecord handles GET /records/:id
func (h *Handler) GetRecord(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	rec, err := h.Records.GetRecord(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, rec)
}

// PatchRecord handles PATCH /records/:id
func (h *Handler) PatchRecord(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	var patch model.RecordPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}

	req := model.UpdateRecordReq{Patch: patch}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	rec, err := h.Records.PatchRecord(c.Request().Context(), sess, c.Param("id"), req)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, rec)
}

// DeleteRecord handles DELETE /records/:id
func (h *Handler) DeleteRecord(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Records.DeleteRecord(c.Request().Context(), sess, c.Param("id")); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// PostRecordImage handles POST /records/:id/images (multipart upload)
func (h *Handler) PostRecordImage(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "image file required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	defer file.Close()

	ref, err := h.Records.AttachImage(
		c.Request().Context(),
		sess,
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get(echo.HeaderContentType),
		file,
		fileHeader.Size,
	)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusCreated, ref)
}
