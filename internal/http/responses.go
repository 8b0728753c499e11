package http

import (
	"time"

	"contacts-api/internal/domain"
)

const birthdayLayout = "2006-01-02"

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Avatar    string `json:"avatar"`
}

type ContactResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	PhoneNum  string `json:"phone_num"`
	Birthday  string `json:"birthday"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		Avatar:    u.Avatar,
	}
}

func contactToResponse(c domain.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		PhoneNum:  c.PhoneNum,
		Birthday:  c.Birthday.Format(birthdayLayout),
	}
}

func contactsToResponse(contacts []domain.Contact) []ContactResponse {
	resp := make([]ContactResponse, len(contacts))
	for i := range contacts {
		resp[i] = contactToResponse(contacts[i])
	}
	return resp
}
