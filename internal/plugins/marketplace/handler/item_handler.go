package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/repository"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/service"
)

// ItemHandler 상품 핸들러
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler 상품 핸들러 생성
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// ListItems 상품 목록 조회
// @Summary 상품 목록
// @Tags marketplace
// @Router /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := &repository.ItemListParams{
		Location: c.Query("location"),
		Keyword:  c.Query("keyword"),
		Page:     1,
		Limit:    20,
	}

	if status := c.Query("status"); status != "" {
		s := domain.ItemStatus(status)
		params.Status = &s
	}
	if minPrice, err := strconv.ParseInt(c.Query("min_price"), 10, 64); err == nil {
		params.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseInt(c.Query("max_price"), 10, 64); err == nil {
		params.MaxPrice = &maxPrice
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	items, meta, err := h.itemService.ListItems(params)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch items", err)
		return
	}

	common.SuccessWithMeta(c, items, meta)
}

// GetItem 상품 상세 조회
// @Summary 상품 상세
// @Tags marketplace
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	item, err := h.itemService.GetItem(id)
	if err != nil {
		common.FailResponse(c, err, "Failed to fetch item")
		return
	}

	common.SuccessResponse(c, item)
}

// CreateItem 상품 등록
// @Summary 상품 등록
// @Tags marketplace
// @Security BearerAuth
// @Router /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req domain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sellerID := middleware.GetMemberID(c)
	item, err := h.itemService.CreateItem(sellerID, &req)
	if err != nil {
		common.FailResponse(c, err, "Failed to create item")
		return
	}

	common.CreatedResponse(c, item)
}

// UpdateStatus 상품 상태 변경
// @Summary 상품 상태 변경
// @Tags marketplace
// @Security BearerAuth
// @Router /items/{id}/status [patch]
func (h *ItemHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sellerID := middleware.GetMemberID(c)
	if err := h.itemService.UpdateStatus(id, sellerID, &req); err != nil {
		common.FailResponse(c, err, "Failed to update status")
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true})
}

// ListMyItems 내 판매 상품 목록
// @Summary 내 상품 목록
// @Tags marketplace
// @Security BearerAuth
// @Router /my/items [get]
func (h *ItemHandler) ListMyItems(c *gin.Context) {
	sellerID := middleware.GetMemberID(c)

	page, limit := 1, 20
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	items, meta, err := h.itemService.ListMyItems(sellerID, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch items", err)
		return
	}

	common.SuccessWithMeta(c, items, meta)
}
