package model

// ExamTypes are the examination rounds results are published for.
var ExamTypes = []string{"CT-I", "CT-II", "CT-III", "PUT"}

// Result is one subject mark for one exam.
type Result struct {
	ID            string     `json:"_id"`
	Subject       string     `json:"subject"`
	ExamType      string     `json:"examType"`
	MarksObtained FlexString `json:"marksObtained"`
	TotalMarks    FlexString `json:"totalMarks,omitempty"`
	Attendance    string     `json:"attendance,omitempty"`
}

// ResultEntry is one student's row in a teacher's batch upload.
type ResultEntry struct {
	Student       string  `json:"student" binding:"required,max=64"`
	MarksObtained float64 `json:"marksObtained" binding:"min=0,max=1000"`
	Attendance    string  `json:"attendance" binding:"omitempty,oneof=Present Absent NA"`
}

// UploadResultsRequest is the teacher's batch result form.
type UploadResultsRequest struct {
	Subject  string        `json:"subject" binding:"required,max=64"`
	ExamType string        `json:"examType" binding:"required,oneof=CT-I CT-II CT-III PUT"`
	Results  []ResultEntry `json:"results" binding:"required,min=1,dive"`
}

// ResultRow is the per-student payload the backend expects.
type ResultRow struct {
	Student       string  `json:"student"`
	Subject       string  `json:"subject"`
	ExamType      string  `json:"examType"`
	MarksObtained float64 `json:"marksObtained"`
	Attendance    string  `json:"attendance"`
}

// Rows expands the form into the backend's flat result rows. A missing
// attendance is sent as "NA".
func (r UploadResultsRequest) Rows() []ResultRow {
	rows := make([]ResultRow, 0, len(r.Results))
	for _, e := range r.Results {
		attendance := e.Attendance
		if attendance == "" {
			attendance = "NA"
		}
		rows = append(rows, ResultRow{
			Student:       e.Student,
			Subject:       r.Subject,
			ExamType:      r.ExamType,
			MarksObtained: e.MarksObtained,
			Attendance:    attendance,
		})
	}
	return rows
}
