package trade

type TradeRequestBody struct {
	Symbol   string `json:"symbol"`
	Type     string `json:"type"`
	Quantity int64  `json:"quantity"`
}
