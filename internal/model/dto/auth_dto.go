package dto

// ========== Auth 相关 DTO ==========

// LoginRequest 模拟第三方登录请求，DeviceID 为空时按客户端 IP 限制并发
type LoginRequest struct {
	Provider string `path:"provider"`
	DeviceID string `json:"device_id"`
}

// LoginResponse 登录成功响应，Next 为下一个引导页面
type LoginResponse struct {
	UserID      string `json:"user_id"`
	Provider    string `json:"provider"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Next        string `json:"next"`
}
