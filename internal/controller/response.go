package controller

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brickandmortr_server/internal/api/dto"
)

// ==================== 分页 ====================

// 各列表的每页条数
const (
	DefaultPageSize   = 10
	DesignersPageSize = 20
)

const pageQueryParam = "page"

// paginate 按 page 参数切片，页码非法时写入 404 并返回 false
func paginate[T any](c *gin.Context, results []T, pageSize int) (*dto.Page[T], bool) {
	count := len(results)
	numPages := int(math.Ceil(float64(count) / float64(pageSize)))
	if numPages < 1 {
		numPages = 1
	}

	page := 1
	if raw := c.Query(pageQueryParam); raw != "" {
		if raw == "last" {
			page = numPages
		} else {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > numPages {
				notFound(c, "Invalid page.")
				return nil, false
			}
			page = n
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > count {
		end = count
	}

	out := &dto.Page[T]{
		Count:   count,
		Results: results[start:end],
	}
	if out.Results == nil {
		out.Results = []T{}
	}
	if page < numPages {
		next := pageURL(c, page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		out.Previous = &prev
	}
	return out, true
}

// pageURL 当前请求的绝对地址，替换 page 参数；第一页去掉 page 参数
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del(pageQueryParam)
	} else {
		q.Set(pageQueryParam, strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ==================== 响应辅助 ====================

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.MessageResponse{Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	message(c, http.StatusBadRequest, msg)
}

func notFound(c *gin.Context, msg string) {
	message(c, http.StatusNotFound, msg)
}

// serverError 记录错误，只给客户端通用信息
func serverError(c *gin.Context, err error) {
	zap.S().Errorf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	_ = c.Error(err)
	message(c, http.StatusInternalServerError, "Internal server error.")
}

// parseID 解析路径中的 ID，非法时按不存在处理
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		notFound(c, "Not found.")
		return 0, false
	}
	return id, true
}
