package model

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBooking is what a caller supplies; the store assigns ID and CreatedAt.
type NewBooking struct {
	UserID  string
	Service string
	Date    string
	Time    string
}

type Slot struct {
	ID   string `json:"id"`
	Time string `json:"time"`
}
