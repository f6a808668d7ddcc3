package utils

import "math"

// EarthRadiusMiles 地球半径（英里）
const EarthRadiusMiles = 3956

// HaversineMiles 计算两点之间的大圆距离（英里），参数为十进制角度
func HaversineMiles(lon1, lat1, lon2, lat2 float64) float64 {
	lon1, lat1, lon2, lat2 = toRadians(lon1), toRadians(lat1), toRadians(lon2), toRadians(lat2)

	dlon := lon2 - lon1
	dlat := lat2 - lat1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	// 浮点误差可能让 a 略大于 1
	c := 2 * math.Asin(math.Sqrt(math.Min(1, a)))
	return c * EarthRadiusMiles
}

// WithinRadius 判断两点距离是否在半径内（含边界）
func WithinRadius(lon1, lat1, lon2, lat2, radiusMiles float64) bool {
	return HaversineMiles(lon1, lat1, lon2, lat2) <= radiusMiles
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
