package model

import "time"

// Session is the client-held proof of a logged-in identity.
type Session struct {
	Token         string `json:"-"`
	Role          Role   `json:"role"`
	IdentityLabel string `json:"identity_label"`
}

// TokenInfo is what can be read from a bearer token without verifying it.
// It is informational only; the portal never expires a session itself.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LoginRequest is the login form shared by all three roles.
// RollNo is only sent by students.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=4,max=128"`
	RollNo   string `json:"rollNo,omitempty" form:"rollNo" binding:"omitempty,max=32"`
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// StudentRegisterRequest is the student self-registration form.
type StudentRegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=128"`
	RollNo   string `json:"rollNo" form:"rollNo" binding:"required,max=32"`
}

// TeacherRegisterRequest is the teacher self-registration form.
type TeacherRegisterRequest struct {
	Name      string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" binding:"required,email,max=255"`
	Password  string `json:"password" form:"password" binding:"required,min=6,max=128"`
	TeacherID string `json:"teacherId" form:"teacherId" binding:"required,max=32"`
}

// MessageResponse is the generic `{message}` body many mutations return.
type MessageResponse struct {
	Message string `json:"message"`
}
