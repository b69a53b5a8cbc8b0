package model

// AttendanceStatus is the mark a teacher gives a student for one lecture.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "Present"
	AttendanceAbsent    AttendanceStatus = "Absent"
	AttendanceNotMarked AttendanceStatus = "Not Marked"
)

// AttendanceRecord is one entry of a student's own attendance.
type AttendanceRecord struct {
	ID      string           `json:"_id,omitempty"`
	Date    string           `json:"date"`
	Subject string           `json:"subject"`
	Status  AttendanceStatus `json:"status"`
}

// AttendanceSummary counts a student's records by status.
type AttendanceSummary struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	NotMarked int `json:"not_marked"`
}

// Summarize counts attendance records for the dashboard chart.
func Summarize(records []AttendanceRecord) AttendanceSummary {
	s := AttendanceSummary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case AttendancePresent:
			s.Present++
		case AttendanceAbsent:
			s.Absent++
		case AttendanceNotMarked:
			s.NotMarked++
		}
	}
	return s
}

// AttendanceMark is one student's mark inside a batch.
type AttendanceMark struct {
	StudentID string           `json:"studentId" binding:"required,max=64"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=Present Absent 'Not Marked'"`
}

// MarkAttendanceRequest is the teacher's batch attendance submission.
type MarkAttendanceRequest struct {
	Program  string           `json:"program" binding:"required,max=32"`
	Semester string           `json:"semester" binding:"required,max=4"`
	Section  string           `json:"section" binding:"required,max=8"`
	Subject  string           `json:"subject" binding:"required,max=64"`
	Date     string           `json:"date" binding:"required,datetime=2006-01-02"`
	Students []AttendanceMark `json:"students" binding:"required,min=1,dive"`
}
