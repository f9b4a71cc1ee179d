package types

// BillingDetails is the billing snapshot captured at checkout time. It is
// stored verbatim on the rental so later disputes see what the renter entered,
// even if the profile changes afterwards.
type BillingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}
