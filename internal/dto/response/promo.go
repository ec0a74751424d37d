package response

// PromoVerifyResponse answers the promo code check on the booking form.
type PromoVerifyResponse struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount"`
	FinalAmount    float64 `json:"final_amount"`
	Message        string  `json:"message"`
}
