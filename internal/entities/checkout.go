package entities

type CheckoutSessionRequest struct {
	OrderID int `json:"order_id"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"id"`
	URL       string `json:"url"`
}
