package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Subjects decodes either a JSON array of subjects or a single
// comma-separated string.
type Subjects []string

func (s *Subjects) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = splitSubjects(joined)
	return nil
}

func splitSubjects(joined string) []string {
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TeacherInfo is the profile block nested under a teacher account.
type TeacherInfo struct {
	TeacherID   string   `json:"teacherId,omitempty"`
	TeacherName string   `json:"teacherName"`
	Gender      string   `json:"gender,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Country     string   `json:"country,omitempty"`
	Caste       string   `json:"caste,omitempty"`
	Subjects    Subjects `json:"subjects,omitempty"`
	Designation string   `json:"designation,omitempty"`
	Program     string   `json:"program,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// Teacher is a teacher account as returned by the backend.
type Teacher struct {
	ID          string       `json:"_id"`
	Email       string       `json:"email"`
	TeacherInfo *TeacherInfo `json:"teacherInfo,omitempty"`
}

// DisplayName prefers the profile name and falls back to the email.
func (t Teacher) DisplayName() string {
	if t.TeacherInfo != nil && t.TeacherInfo.TeacherName != "" {
		return t.TeacherInfo.TeacherName
	}
	return t.Email
}

// TeacherProfileForm is the one-time multipart profile registration.
type TeacherProfileForm struct {
	TeacherName string `form:"teacherName" binding:"required,min=2,max=100"`
	Gender      string `form:"gender" binding:"omitempty,max=16"`
	DateOfBirth string `form:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `form:"phoneNumber" binding:"omitempty,max=20"`
	State       string `form:"state" binding:"omitempty,max=64"`
	Country     string `form:"country" binding:"omitempty,max=64"`
	City        string `form:"city" binding:"omitempty,max=64"`
	Address     string `form:"address" binding:"omitempty,max=255"`
	Caste       string `form:"caste" binding:"omitempty,max=32"`
	Subjects    string `form:"subjects" binding:"omitempty,max=255"`
	Designation string `form:"designation" binding:"omitempty,max=64"`
	Program     string `form:"program" binding:"omitempty,max=32"`
}

// Fields returns the form values in a stable order for multipart encoding.
func (f TeacherProfileForm) Fields() [][2]string {
	return [][2]string{
		{"teacherName", f.TeacherName},
		{"gender", f.Gender},
		{"dateOfBirth", f.DateOfBirth},
		{"phoneNumber", f.PhoneNumber},
		{"state", f.State},
		{"country", f.Country},
		{"city", f.City},
		{"address", f.Address},
		{"caste", f.Caste},
		{"subjects", f.Subjects},
		{"designation", f.Designation},
		{"program", f.Program},
	}
}
