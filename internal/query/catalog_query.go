package query

import (
	"errors"
	"strconv"
	"strings"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/pkg/utils"
)

// ErrMalformedGeo lat / lon / radius 不是合法数字
var ErrMalformedGeo = errors.New("lat, lon and radius must be numbers")

// GeoParams 地理位置过滤条件
type GeoParams struct {
	Lat    float64
	Lon    float64
	Radius float64 // 英里
}

// ParseGeoParams 三个参数任一为空时返回 nil（不过滤），任一格式错误时报错
func ParseGeoParams(lat, lon, radius string) (*GeoParams, error) {
	lat, lon, radius = strings.TrimSpace(lat), strings.TrimSpace(lon), strings.TrimSpace(radius)
	if lat == "" || lon == "" || radius == "" {
		return nil, nil
	}

	var geo GeoParams
	var err error
	if geo.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return nil, ErrMalformedGeo
	}
	if geo.Lon, err = strconv.ParseFloat(lon, 64); err != nil {
		return nil, ErrMalformedGeo
	}
	if geo.Radius, err = strconv.ParseFloat(radius, 64); err != nil {
		return nil, ErrMalformedGeo
	}
	return &geo, nil
}

// Contains 店铺是否在范围内
func (g *GeoParams) Contains(store *model.Store) bool {
	return utils.WithinRadius(g.Lon, g.Lat, store.Lon, store.Lat, g.Radius)
}

// FilterStoresWithin 保留范围内的店铺，geo 为 nil 时原样返回
func FilterStoresWithin(stores []model.Store, geo *GeoParams) []model.Store {
	if geo == nil {
		return stores
	}
	out := make([]model.Store, 0, len(stores))
	for i := range stores {
		if geo.Contains(&stores[i]) {
			out = append(out, stores[i])
		}
	}
	return out
}

// DesignerParams 设计师列表过滤条件
type DesignerParams struct {
	Name     string
	Category model.DesignerCategory
	Geo      *GeoParams
}

// FilterDesigners 过滤设计师
// stocked 为附近店铺有货的设计师 ID 集合，仅在 Geo 生效时使用
func FilterDesigners(designers []model.Designer, params *DesignerParams, stocked map[int64]struct{}) []model.Designer {
	out := make([]model.Designer, 0, len(designers))
	for _, d := range designers {
		if params.Geo != nil {
			if _, ok := stocked[d.ID]; !ok {
				continue
			}
		}
		if params.Name != "" && !utils.FuzzyMatch(params.Name, d.Name) {
			continue
		}
		if params.Category != "" && d.Category != params.Category {
			continue
		}
		out = append(out, d)
	}
	return out
}
