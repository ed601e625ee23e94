// Review HTTP handlers.
//
// This file exposes REST endpoints for review resources:
//   - POST   /generate-report  (run the review pipeline; authenticated)
//   - POST   /generate-pdf     (render + upload an artifact; authenticated)
//   - GET    /reviews          (list, paginated, ETag support)
//   - GET    /reviews/{id}     (single review)
//   - DELETE /reviews/{id}     (delete with storage cleanup; authenticated)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/analysis"
	"github.com/bodegaresearch/go-review-backend/internal/domain"
	"github.com/bodegaresearch/go-review-backend/internal/pdf"
	"github.com/bodegaresearch/go-review-backend/internal/repo"
	"github.com/bodegaresearch/go-review-backend/internal/services"
	"github.com/bodegaresearch/go-review-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ReviewService defines review lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReviewService interface {
	// Generate runs the full pipeline and persists the finished review.
	Generate(ctx context.Context, projectName string, notes domain.RawNotes, image *services.ImageUpload) (*domain.Review, error)
	// RenderArtifact renders, uploads, and returns the URL of one artifact.
	RenderArtifact(ctx context.Context, id string, kind pdf.Kind) (string, error)
	// ListPage returns a page of reviews and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Review, int64, error)
	// Get fetches a single review by ID.
	Get(ctx context.Context, id string) (*domain.Review, error)
	// Delete removes a review and its storage objects.
	Delete(ctx context.Context, id string) error
}

// LeadService defines the lead intake operation consumed by HTTP handlers.
type LeadService interface {
	// Submit validates and persists a lead and dispatches the notification.
	Submit(ctx context.Context, in services.LeadInput) (*domain.Lead, <-chan struct{}, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for reviews and leads.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	reviewSvc ReviewService
	leadSvc   LeadService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(reviewSvc ReviewService, leadSvc LeadService) *Handlers {
	return &Handlers{reviewSvc: reviewSvc, leadSvc: leadSvc}
}

//
// DTOs
//

// GeneratePDFRequest is the JSON payload for rendering an artifact.
type GeneratePDFRequest struct {
	// ReviewID identifies the review to render.
	ReviewID string `json:"reviewId" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Type is the artifact kind: "infographic" or "report".
	Type string `json:"type" binding:"required" example:"infographic"`
}

// GeneratePDFResponse carries the uploaded artifact location.
type GeneratePDFResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Type     string `json:"type"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListReviewsResponse wraps a page of reviews and pagination information.
type ListReviewsResponse struct {
	Reviews    []domain.Review `json:"reviews"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// fileNameFromURL extracts the object file name from an artifact URL,
// dropping any signing query string.
func fileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}

//
// Handlers
//

// GenerateReport godoc
// @ID          generateReport
// @Summary     Generate a review
// @Description Runs the full pipeline: optional brand image upload, AI analysis, weighted scoring, and persistence. Returns the finished review.
// @Tags        Reviews
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
//
// @Param       projectName  formData  string  true   "Project display name"
// @Param       rawNotes     formData  string  true   "Analyst notes as a JSON object"
// @Param       brandImage   formData  file    false  "Brand image (optional)"
//
// @Success     200  {object}  handlers.SuccessResponse{data=domain.Review}
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Analysis failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /generate-report [post]
func (h *Handlers) GenerateReport(c *gin.Context) {
	projectName := strings.TrimSpace(c.PostForm("projectName"))
	rawNotes := c.PostForm("rawNotes")
	if rawNotes == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rawNotes is required")
		return
	}
	var notes domain.RawNotes
	if err := json.Unmarshal([]byte(rawNotes), &notes); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rawNotes must be a JSON object")
		return
	}

	var image *services.ImageUpload
	if fh, err := c.FormFile("brandImage"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "brand image is unreadable")
			return
		}
		defer f.Close()
		image = &services.ImageUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		}
	}

	rev, err := h.reviewSvc.Generate(c.Request.Context(), projectName, notes, image)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrValidation):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, analysis.ErrUpstream), errors.Is(err, analysis.ErrParse):
			fail(c, http.StatusBadGateway, ErrCodeAnalysisFailed, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, rev)
}

// GeneratePDF godoc
// @ID          generatePDF
// @Summary     Render a review artifact
// @Description Renders the requested PDF (public infographic or private report), uploads it to object storage, and returns its URL. Reports get a time-limited signed URL.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.GeneratePDFRequest  true  "Render request"
//
// @Success     200  {object}  handlers.SuccessResponse{data=handlers.GeneratePDFResponse}
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Render failed"
// @Router      /generate-pdf [post]
func (h *Handlers) GeneratePDF(c *gin.Context) {
	var req GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reviewId and type are required")
		return
	}
	if _, err := uuid.Parse(req.ReviewID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}
	kind := pdf.Kind(req.Type)
	if !kind.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `type must be "infographic" or "report"`)
		return
	}

	artifactURL, err := h.reviewSvc.RenderArtifact(c.Request.Context(), req.ReviewID, kind)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidKind):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrReviewNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRenderFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, GeneratePDFResponse{
		URL:      artifactURL,
		FileName: fileNameFromURL(artifactURL),
		Type:     string(kind),
	})
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List reviews (paginated)
// @Description Returns a page of reviews, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Reviews
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.SuccessResponse{data=handlers.ListReviewsResponse}
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.reviewSvc.(*services.ReviewService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ReviewsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"reviews:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	// Fetch page.
	items, total, err := h.reviewSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListReviewsResponse{
		Reviews: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetReview godoc
// @ID          getReview
// @Summary     Get a single review
// @Description Returns one review with its analysis payload and artifact URLs.
// @Tags        Reviews
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {object} handlers.SuccessResponse{data=domain.Review}
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reviews/{id} [get]
func (h *Handlers) GetReview(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	rev, err := h.reviewSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rev)
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Description Removes a review row and, best effort, its stored objects (brand image, infographic, report).
// @Tags        Reviews
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Review ID (UUID)"  format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	if err := h.reviewSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
