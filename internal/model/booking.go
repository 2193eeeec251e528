package model

import "time"

// InterestGeneral is the default "Interested In" choice of the booking form.
const InterestGeneral = "general"

// BookingInquiry is a "Secure Your Spot" request sent from the booking form.
//
// Interest is either InterestGeneral or the ID of a catalog service or package.
// AccountEmail is filled in by the server when the client is signed in, so
// the owner can later list their own inquiries. ClientID is the browser that
// sent the form; it is never sent back over the API.
type BookingInquiry struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"clientName"`
	Phone        string    `json:"phone"`
	DogName      string    `json:"dogName"`
	BreedAge     string    `json:"breedAge"`
	Interest     string    `json:"interest"`
	Dates        string    `json:"dates"`
	Details      string    `json:"details"`
	AccountEmail string    `json:"accountEmail,omitempty"`
	ClientID     string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
