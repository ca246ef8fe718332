package api

import (
	"time"

	"github.com/starford/folio/internal/models"
)

// Card is the card resource as exchanged over the API.
type Card = models.Card

// Settings is the settings resource as exchanged over the API.
type Settings = models.Settings

// DeleteCardRequest is the request body for deleting a card.
type DeleteCardRequest struct {
	ID string `json:"id" example:"3f2c5d0e-9a7b-4c11-8e2f-6d1b0a9c7e55" validate:"required"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Card deleted" validate:"required"`
}

// LoginRequest is the request body for the admin login.
type LoginRequest struct {
	Username string `json:"username" example:"admin" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message   string    `json:"message" example:"Login successful" validate:"required"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// UploadResponse is returned after a successful image upload.
type UploadResponse struct {
	ImagePath string `json:"imagePath" example:"/uploads/1717171717171-cover.png" validate:"required"`
}
