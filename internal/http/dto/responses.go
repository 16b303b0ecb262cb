package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ProofPayloadResponse struct {
	Payload string `json:"payload"`
}

type PaymentInfoResponse struct {
	PropertyID    int64  `json:"property_id"`
	WalletAddress string `json:"wallet_address"`
	Memo          string `json:"memo"`
	AmountTON     string `json:"amount_ton"`
	Status        string `json:"status"`
}

type ToggleStatusResponse struct {
	PropertyID     int64 `json:"property_id"`
	BookingAllowed bool  `json:"booking_allowed"`
}
