package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"goeda/app"
	"goeda/domain/eda"
	apperrors "goeda/internal/errors"
	"goeda/internal/profiling"
)

// UploadResponse describes a stored upload
type UploadResponse struct {
	Filename   string    `json:"filename"`
	SizeMB     float64   `json:"size_mb"`
	UploadedAt time.Time `json:"uploaded_at"`
	Message    string    `json:"message"`
}

// DatasetListItem is one entry of the dataset listing
type DatasetListItem struct {
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	DerivedFrom      string    `json:"derived_from,omitempty"`
	SizeMB           float64   `json:"size_mb"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// DatasetListResponse is the dataset listing
type DatasetListResponse struct {
	Datasets []DatasetListItem `json:"datasets"`
	Count    int               `json:"count"`
}

// ColumnRemovalRequest names the columns to drop from a stored dataset
type ColumnRemovalRequest struct {
	Filename        string   `json:"filename"`
	ColumnsToRemove []string `json:"columns_to_remove"`
}

func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			respondError(c, apperrors.FileTooLarge(s.maxBytes, err))
			return
		}
		respondError(c, apperrors.InvalidInput("no file uploaded in form field \"file\""))
		return
	}
	defer file.Close()

	rec, err := s.datasets.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{
		Filename:   rec.Filename,
		SizeMB:     rec.SizeMB(),
		UploadedAt: rec.UploadedAt,
		Message:    "File uploaded successfully",
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	result, err := s.analysis.Analyze(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleColumns(c *gin.Context) {
	info, err := s.analysis.Columns(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleRemoveColumns(c *gin.Context) {
	var req ColumnRemovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if req.Filename == "" {
		respondError(c, apperrors.InvalidInput("filename is required"))
		return
	}

	result, err := s.datasets.RemoveColumns(c.Request.Context(), req.Filename, req.ColumnsToRemove)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListDatasets(c *gin.Context) {
	records, err := s.datasets.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(records))
}

func (s *Server) handleDerivedDatasets(c *gin.Context) {
	records, err := s.datasets.Derived(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(records))
}

func listResponse(records []*eda.DatasetRecord) DatasetListResponse {
	items := make([]DatasetListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, DatasetListItem{
			Filename:         rec.Filename,
			OriginalFilename: rec.OriginalFilename,
			DerivedFrom:      rec.DerivedFrom,
			SizeMB:           rec.SizeMB(),
			UploadedAt:       rec.UploadedAt,
		})
	}
	return DatasetListResponse{Datasets: items, Count: len(items)}
}

func (s *Server) handleDeleteDataset(c *gin.Context) {
	if err := s.datasets.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePreview(c *gin.Context) {
	rows := profiling.DefaultPreviewRows
	if raw := c.Query("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperrors.InvalidInput("rows must be an integer"))
			return
		}
		rows = n
	}

	preview, err := s.analysis.Preview(c.Request.Context(), c.Param("filename"), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (s *Server) handleReport(c *gin.Context) {
	format := app.ReportFormat(c.DefaultQuery("format", string(app.ReportMarkdown)))
	body, err := s.analysis.Report(c.Request.Context(), c.Param("filename"), format)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if format == app.ReportHTML {
		contentType = "text/html; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, body)
}
