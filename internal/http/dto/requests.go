package dto

type MintPropertyRequest struct {
	MetadataURI string `json:"metadata_uri"`
}

type CreateBookingRequest struct {
	StartDate int64 `json:"start_date"` // unix seconds
	EndDate   int64 `json:"end_date"`
}

type ConfirmBookingRequest struct {
	PriceTON string `json:"price_ton"` // decimal TON, e.g. "1.5"
}

type PayBookingRequest struct {
	AmountTON string `json:"amount_ton"`
	TxRef     string `json:"tx_ref,omitempty"` // on-chain tx hash when driven by the indexer
}

type ReservePropertyRequest struct {
	StartDate int64 `json:"start_date"`
	EndDate   int64 `json:"end_date"`
}

type SetWithdrawWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type DisconnectWalletRequest struct {
	WalletID string `json:"wallet_id"`
}
