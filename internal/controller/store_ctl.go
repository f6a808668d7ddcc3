package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/service"
)

// StoreController 店铺接口
type StoreController struct {
	stores *service.StoreService
}

// NewStoreController 创建店铺控制器
func NewStoreController(stores *service.StoreService) *StoreController {
	return &StoreController{stores: stores}
}

// List 店铺列表
// @Summary 店铺列表
// @Description lat / lon / radius 同时提供时按距离（英里）过滤
// @Tags Stores
// @Produce json
// @Security ApiKeyAuth
// @Param lat query number false "纬度"
// @Param lon query number false "经度"
// @Param radius query number false "半径（英里）"
// @Param page query int false "页码"
// @Success 200 {object} dto.Page[dto.StoreResponse]
// @Failure 400 {object} dto.MessageResponse
// @Router /stores/ [get]
func (ctl *StoreController) List(c *gin.Context) {
	geo, err := query.ParseGeoParams(c.Query("lat"), c.Query("lon"), c.Query("radius"))
	if err != nil {
		badRequest(c, "lat, lon and radius must be numbers.")
		return
	}

	stores, err := ctl.stores.ListStores(c.Request.Context(), geo)
	if err != nil {
		serverError(c, err)
		return
	}

	page, ok := paginate(c, dto.NewStoreList(stores), DefaultPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail 店铺详情
// @Summary 店铺详情
// @Tags Stores
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "店铺 ID"
// @Success 200 {object} dto.StoreResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /stores/{id}/ [get]
func (ctl *StoreController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	store, err := ctl.stores.GetStore(c.Request.Context(), id)
	if errors.Is(err, service.ErrStoreNotFound) {
		notFound(c, "Not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStoreResponse(store))
}

// Items 店铺商品
// @Summary 店铺商品
// @Tags Stores
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "店铺 ID"
// @Param page query int false "页码"
// @Success 200 {object} dto.Page[dto.ItemResponse]
// @Failure 404 {object} dto.MessageResponse
// @Router /stores/{id}/items/ [get]
func (ctl *StoreController) Items(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := ctl.stores.ListStoreItems(c.Request.Context(), id)
	if errors.Is(err, service.ErrStoreNotFound) {
		notFound(c, "Not found.")
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
