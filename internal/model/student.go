package model

import "net/url"

// StudentInfo is the profile block the backend nests under a student account.
type StudentInfo struct {
	StudentName string     `json:"studentName"`
	RollNo      string     `json:"rollNo,omitempty"`
	FatherName  string     `json:"fatherName,omitempty"`
	MotherName  string     `json:"motherName,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	Caste       string     `json:"caste,omitempty"`
	Program     string     `json:"program,omitempty"`
	Section     string     `json:"section,omitempty"`
	Semester    FlexString `json:"semester,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
}

// Student is a student account as returned by the backend.
type Student struct {
	ID          string       `json:"_id"`
	Email       string       `json:"email"`
	RollNo      string       `json:"rollNo,omitempty"`
	StudentInfo *StudentInfo `json:"studentInfo,omitempty"`
}

// DisplayName prefers the profile name and falls back to the email.
func (s Student) DisplayName() string {
	if s.StudentInfo != nil && s.StudentInfo.StudentName != "" {
		return s.StudentInfo.StudentName
	}
	return s.Email
}

// StudentProfileForm is the multipart profile update a student submits.
// The optional image travels as a separate file part.
type StudentProfileForm struct {
	StudentName string `form:"studentName" binding:"required,min=2,max=100"`
	Program     string `form:"program" binding:"omitempty,max=32"`
	Section     string `form:"section" binding:"omitempty,max=8"`
	Semester    string `form:"semester" binding:"omitempty,max=4"`
	FatherName  string `form:"fatherName" binding:"omitempty,max=100"`
	MotherName  string `form:"motherName" binding:"omitempty,max=100"`
	Gender      string `form:"gender" binding:"omitempty,max=16"`
	DateOfBirth string `form:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `form:"phoneNumber" binding:"omitempty,max=20"`
	Address     string `form:"address" binding:"omitempty,max=255"`
	City        string `form:"city" binding:"omitempty,max=64"`
	State       string `form:"state" binding:"omitempty,max=64"`
	Country     string `form:"country" binding:"omitempty,max=64"`
	Caste       string `form:"caste" binding:"omitempty,max=32"`
}

// Fields returns the form values in a stable order for multipart encoding.
func (f StudentProfileForm) Fields() [][2]string {
	return [][2]string{
		{"studentName", f.StudentName},
		{"program", f.Program},
		{"section", f.Section},
		{"semester", f.Semester},
		{"fatherName", f.FatherName},
		{"motherName", f.MotherName},
		{"gender", f.Gender},
		{"dateOfBirth", f.DateOfBirth},
		{"phoneNumber", f.PhoneNumber},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"country", f.Country},
		{"caste", f.Caste},
	}
}

// ClassFilter narrows students or timetables to one class section.
type ClassFilter struct {
	Program  string `form:"program" json:"program" binding:"required,max=32"`
	Semester string `form:"semester" json:"semester" binding:"required,max=4"`
	Section  string `form:"section" json:"section" binding:"required,max=8"`
}

// Query renders the filter as backend query parameters.
func (f ClassFilter) Query() url.Values {
	q := url.Values{}
	q.Set("program", f.Program)
	q.Set("semester", f.Semester)
	q.Set("section", f.Section)
	return q
}
