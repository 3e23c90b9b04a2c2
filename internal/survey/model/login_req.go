package model

import "strings"

type LoginReq struct {
	Phone    string `json:"phone" validate:"required,min=4,max=20"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

func (r *LoginReq) Validate() error {
	r.Phone = strings.TrimSpace(r.Phone)
	// Password is deliberately not trimmed; whitespace may be part of it.

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type LoginResponse struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresAt string `json:"expires_at"`
}
