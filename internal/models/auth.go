package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload. Subject carries the user id.
type JWTClaims struct {
	UserID string   `json:"uid"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest captures the login form. UseCookie selects between the
// httpOnly session cookie and showing the raw token for bearer clients.
type LoginRequest struct {
	Email     string `form:"email" json:"email" validate:"required,email"`
	Password  string `form:"password" json:"password" validate:"required,min=4"`
	UseCookie bool   `form:"use_cookie" json:"use_cookie"`
	IP        string `form:"-" json:"-"`
	UserAgent string `form:"-" json:"-"`
}

// LoginResponse is returned to bearer-token clients.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo is the public identity shape exposed to clients and views.
type UserInfo struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}
