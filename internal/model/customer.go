package model

// Customer is a row of the customer table as served by the API.
// Every key is always present in the JSON projection; Email and Phone
// serialize as null when unset.
type Customer struct {
	ID           int64   `json:"id"`
	CustomerName string  `json:"customer_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
}

// CustomerInput holds the mutable customer fields after validation.
type CustomerInput struct {
	CustomerName string
	Email        *string
	Phone        *string
}
