package dto

type AuthTokenRequest struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
	Proof     string `json:"proof"` // hex(HMAC-SHA256(secret, "<address>:<timestamp>"))
}

type RegisterPropertyRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Amounts are decimal strings: JSON numbers lose precision above 2^53,
// uint64 amounts do not fit.
type FundRequest struct {
	Amount string `json:"amount"`
}

type WithdrawRequest struct {
	Amount string `json:"amount"`
}
