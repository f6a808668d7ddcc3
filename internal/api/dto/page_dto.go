package dto

// Page 分页响应
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// MessageResponse 通用消息响应，错误也用这个结构
type MessageResponse struct {
	Message string `json:"message"`
}
