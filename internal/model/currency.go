package model

// Currency is an ISO 4217 currency referenced by sales records.
type Currency struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
