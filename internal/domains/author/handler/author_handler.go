package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/author/service"
	bookModel "book-catalog/internal/domains/book/model"
	"book-catalog/internal/shared/response"
	"book-catalog/internal/shared/utils"
	"book-catalog/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// Create handles POST /v1/authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid author payload", err)
		return
	}

	dob, err := req.ParsedDateOfBirth()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_of_birth must be YYYY-MM-DD")
		return
	}

	a, err := h.service.Create(c.Request.Context(), req.Name, dob)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, a.ToResponse())
}

// GetByID handles GET /v1/authors/:id
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid author id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse())
}

// Update handles PUT /v1/authors/:id
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid author id")
		return
	}

	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid author payload", err)
		return
	}

	dob, err := req.ParsedDateOfBirth()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_of_birth must be YYYY-MM-DD")
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req.Name, dob)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse())
}

// Search handles GET /v1/authors
func (h *AuthorHandler) Search(c *gin.Context) {
	filter, ok := h.parseSearchFilter(c)
	if !ok {
		return
	}

	authors, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]*model.AuthorResponse, 0, len(authors))
	for i := range authors {
		items = append(items, authors[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: utils.TotalPages(total, filter.PageSize),
	})
}

func (h *AuthorHandler) parseSearchFilter(c *gin.Context) (model.SearchFilter, bool) {
	filter := model.SearchFilter{
		Page:     0,
		PageSize: defaultPageSize,
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "page must be a non-negative integer")
			return filter, false
		}
		filter.Page = page
	}
	if v := c.Query("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > maxPageSize {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "page_size must be between 1 and 100")
			return filter, false
		}
		filter.PageSize = size
	}

	if v := c.Query("name"); v != "" {
		filter.Name = &v
	}
	if v := c.Query("book_title"); v != "" {
		filter.BookTitle = &v
	}
	if v := c.Query("date_of_birth_from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_of_birth_from must be YYYY-MM-DD")
			return filter, false
		}
		filter.DateOfBirthFrom = &from
	}
	if v := c.Query("date_of_birth_to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "date_of_birth_to must be YYYY-MM-DD")
			return filter, false
		}
		filter.DateOfBirthTo = &to
	}
	if v := c.Query("publication_status"); v != "" {
		status, err := bookModel.ParsePublicationStatus(v)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "publication_status must be published or unpublished")
			return filter, false
		}
		s := string(status)
		filter.PublicationStatus = &s
	}

	return filter, true
}

// writeError maps service errors to the API envelope. Unknown failures are
// logged and surfaced without internal detail.
func (h *AuthorHandler) writeError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("author request failed", err)
		response.ErrorResponse(c, status, "INTERNAL_ERROR", "internal error")
		return
	}
	response.ErrorResponse(c, status, model.ToErrorCode(err), err.Error())
}
