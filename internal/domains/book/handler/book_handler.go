package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authorModel "book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/book/model"
	"book-catalog/internal/domains/book/service"
	"book-catalog/internal/shared/response"
	"book-catalog/internal/shared/utils"
	"book-catalog/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{
		service: svc,
	}
}

// Create handles POST /v1/books
func (h *BookHandler) Create(c *gin.Context) {
	in, ok := h.bindBookRequest(c)
	if !ok {
		return
	}

	bw, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, bw.ToResponse())
}

// GetByID handles GET /v1/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid book id")
		return
	}

	bw, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, bw.ToResponse())
}

// Update handles PUT /v1/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid book id")
		return
	}

	in, ok := h.bindBookRequest(c)
	if !ok {
		return
	}

	bw, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, bw.ToResponse())
}

// GetBooksByAuthor handles GET /v1/authors/:id/books
func (h *BookHandler) GetBooksByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid author id")
		return
	}

	books, err := h.service.GetBooksByAuthor(c.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, authorModel.ErrAuthorNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, "AUTHOR_NOT_FOUND", err.Error())
			return
		}
		h.writeError(c, err)
		return
	}

	items := make([]*model.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, books[i].ToResponse())
	}
	response.Success(c, http.StatusOK, items)
}

// Search handles GET /v1/books
func (h *BookHandler) Search(c *gin.Context) {
	filter, ok := h.parseSearchFilter(c)
	if !ok {
		return
	}

	books, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]*model.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, books[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: utils.TotalPages(total, filter.PageSize),
	})
}

func (h *BookHandler) bindBookRequest(c *gin.Context) (service.CreateBookInput, bool) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return service.CreateBookInput{}, false
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid book payload", err)
		return service.CreateBookInput{}, false
	}

	status, err := model.ParsePublicationStatus(req.PublicationStatus)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "publication_status must be published or unpublished")
		return service.CreateBookInput{}, false
	}

	authorIDs, err := req.ParsedAuthorIDs()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "author_ids must be valid UUIDs")
		return service.CreateBookInput{}, false
	}

	return service.CreateBookInput{
		Title:             req.Title,
		Price:             *req.Price,
		PublicationStatus: status,
		AuthorIDs:         authorIDs,
	}, true
}

func (h *BookHandler) parseSearchFilter(c *gin.Context) (model.SearchFilter, bool) {
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

	if v := c.Query("title"); v != "" {
		filter.Title = &v
	}
	if v := c.Query("author_name"); v != "" {
		filter.AuthorName = &v
	}
	if v := c.Query("price_from"); v != "" {
		from, err := strconv.ParseInt(v, 10, 64)
		if err != nil || from < 0 {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "price_from must be a non-negative integer")
			return filter, false
		}
		filter.PriceFrom = &from
	}
	if v := c.Query("price_to"); v != "" {
		to, err := strconv.ParseInt(v, 10, 64)
		if err != nil || to < 0 {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "price_to must be a non-negative integer")
			return filter, false
		}
		filter.PriceTo = &to
	}
	if v := c.Query("publication_status"); v != "" {
		status, err := model.ParsePublicationStatus(v)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "publication_status must be published or unpublished")
			return filter, false
		}
		filter.PublicationStatus = &status
	}

	return filter, true
}

// writeError maps service errors to the API envelope. Unknown failures are
// logged and surfaced without internal detail.
func (h *BookHandler) writeError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("book request failed", err)
		response.ErrorResponse(c, status, "INTERNAL_ERROR", "internal error")
		return
	}
	response.ErrorResponse(c, status, model.ToErrorCode(err), err.Error())
}
