package model

import "time"

// Notice is a school-wide announcement.
type Notice struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateNoticeRequest is the admin notice form.
type CreateNoticeRequest struct {
	Title   string `json:"title" form:"title" binding:"required,min=2,max=200"`
	Content string `json:"content" form:"content" binding:"required,min=2,max=5000"`
}
