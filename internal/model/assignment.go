package model

// Assignment is coursework a teacher published for a class section.
type Assignment struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Program     string     `json:"program,omitempty"`
	Semester    FlexString `json:"semester,omitempty"`
	Section     string     `json:"section,omitempty"`
	DueDate     string     `json:"dueDate"`
	Description string     `json:"description,omitempty"`
	FileURL     string     `json:"fileUrl,omitempty"`
}

// UploadAssignmentForm is the multipart assignment upload; the attachment
// travels as the "file" part.
type UploadAssignmentForm struct {
	Title       string `form:"title" binding:"required,min=2,max=200"`
	Subject     string `form:"subject" binding:"required,max=64"`
	Program     string `form:"program" binding:"required,max=32"`
	Semester    string `form:"semester" binding:"required,max=4"`
	Section     string `form:"section" binding:"required,max=8"`
	DueDate     string `form:"dueDate" binding:"required,datetime=2006-01-02"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

// Fields returns the form values in a stable order for multipart encoding.
func (f UploadAssignmentForm) Fields() [][2]string {
	return [][2]string{
		{"title", f.Title},
		{"subject", f.Subject},
		{"program", f.Program},
		{"semester", f.Semester},
		{"section", f.Section},
		{"dueDate", f.DueDate},
		{"description", f.Description},
	}
}
