package dto

type AuthResponse struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type VaultResponse struct {
	PropertyID uint32 `json:"property_id"`
	Address    string `json:"address"`
	Balance    string `json:"balance"`
}

type AccountResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}
