package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/service"
)

// ==================== ItemController 商品 ====================

// ItemController 商品 / 子分类接口
type ItemController struct {
	catalog *service.CatalogService
}

// NewItemController 创建商品控制器
func NewItemController(catalog *service.CatalogService) *ItemController {
	return &ItemController{catalog: catalog}
}

// List 商品列表
// @Summary 商品列表
// @Description query_params 为 JSON：categories / designers / stores / subcategories / search / price / sort
// @Tags Items
// @Produce json
// @Security ApiKeyAuth
// @Param query_params query string false "过滤条件 JSON"
// @Param page query int false "页码"
// @Success 200 {object} dto.Page[dto.ItemResponse]
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Router /items/ [get]
func (ctl *ItemController) List(c *gin.Context) {
	items, err := ctl.catalog.ListItems(c.Request.Context(), c.Query("query_params"))
	if errors.Is(err, service.ErrInvalidQueryParams) {
		badRequest(c, "Malformed query_params.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	page, ok := paginate(c, dto.NewItemList(items), DefaultPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page)
}

// Featured 推荐商品
// @Summary 推荐商品
// @Description 没有推荐商品时返回价格最高的 10 个
// @Tags Items
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.Page[dto.ItemResponse]
// @Router /items/featured [get]
func (ctl *ItemController) Featured(c *gin.Context) {
	items, err := ctl.catalog.FeaturedItems(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	page, ok := paginate(c, dto.NewItemList(items), DefaultPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail 商品详情
// @Summary 商品详情
// @Tags Items
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "商品 ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /items/{id}/ [get]
func (ctl *ItemController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := ctl.catalog.GetItem(c.Request.Context(), id)
	if errors.Is(err, service.ErrItemNotFound) {
		notFound(c, "Not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemResponse(item))
}

// SubCategories 被商品引用的子分类及尺码
// @Summary 子分类列表
// @Tags Items
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SubCategoryListResponse
// @Router /subcategories/ [get]
func (ctl *ItemController) SubCategories(c *gin.Context) {
	list, err := ctl.catalog.ListSubCategories(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubCategoryListResponse{Results: list})
}
