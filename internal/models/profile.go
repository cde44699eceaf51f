package models

import "time"

type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Theme     string    `json:"theme"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
