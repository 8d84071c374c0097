package models

// ReferencePrice is one row from the historical new-price table: a trim
// level as it was sold new in a given model year, with its list price.
type ReferencePrice struct {
	ModelName string `json:"model_name"`
	Year      int    `json:"year"`
	Price     int    `json:"price"`
}
