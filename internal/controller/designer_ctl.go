package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/service"
)

// DesignerController 设计师接口
type DesignerController struct {
	designers *service.DesignerService
}

// NewDesignerController 创建设计师控制器
func NewDesignerController(designers *service.DesignerService) *DesignerController {
	return &DesignerController{designers: designers}
}

// List 设计师列表，每页 20 条
// @Summary 设计师列表
// @Tags Designers
// @Produce json
// @Security ApiKeyAuth
// @Param name query string false "名称（模糊匹配）"
// @Param category query string false "m / w"
// @Param lat query number false "纬度"
// @Param lon query number false "经度"
// @Param radius query number false "半径（英里）"
// @Param page query int false "页码"
// @Success 200 {object} dto.Page[dto.DesignerResponse]
// @Failure 400 {object} dto.MessageResponse
// @Router /designers/ [get]
func (ctl *DesignerController) List(c *gin.Context) {
	geo, err := query.ParseGeoParams(c.Query("lat"), c.Query("lon"), c.Query("radius"))
	if err != nil {
		badRequest(c, "lat, lon and radius must be numbers.")
		return
	}

	params := &query.DesignerParams{
		Name:     c.Query("name"),
		Category: model.DesignerCategory(c.Query("category")),
		Geo:      geo,
	}
	designers, err := ctl.designers.ListDesigners(c.Request.Context(), params)
	if err != nil {
		serverError(c, err)
		return
	}

	page, ok := paginate(c, dto.NewDesignerList(designers), DesignersPageSize)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail 设计师详情
// @Summary 设计师详情
// @Tags Designers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "设计师 ID"
// @Success 200 {object} dto.DesignerResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /designers/{id}/ [get]
func (ctl *DesignerController) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	designer, err := ctl.designers.GetDesigner(c.Request.Context(), id)
	if errors.Is(err, service.ErrDesignerNotFound) {
		notFound(c, "Not found.")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDesignerResponse(designer))
}

// Items 设计师商品
// @Summary 设计师商品
// @Tags Designers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "设计师 ID"
// @Param page query int false "页码"
// @Success 200 {object} dto.Page[dto.ItemResponse]
// @Failure 404 {object} dto.MessageResponse
// @Router /designers/{id}/items/ [get]
func (ctl *DesignerController) Items(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := ctl.designers.ListDesignerItems(c.Request.Context(), id)
	if errors.Is(err, service.ErrDesignerNotFound) {
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
