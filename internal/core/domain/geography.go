package domain

import "time"

// Constituency is a geographic voting district.
type Constituency struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Booth is a physical voting location inside a constituency.
type Booth struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ConstituencyID string    `json:"constituency_id"`
	Address        string    `json:"address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
