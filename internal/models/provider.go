package models

// Provider is a service-provider profile as served by the backend. A profile
// is linked to at most one user account through UserID.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Service      string  `json:"service"`
	Location     string  `json:"location"`
	UserID       string  `json:"userId,omitempty"`
	Available    bool    `json:"available"`
	WorkingHours string  `json:"workingHours,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Price        float64 `json:"price,omitempty"`
}
