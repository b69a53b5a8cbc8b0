package model

// LeaveStatus is the review state of a leave application.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Leave is a student's leave application.
type Leave struct {
	ID        string      `json:"_id"`
	Reason    string      `json:"reason"`
	FromDate  string      `json:"fromDate"`
	ToDate    string      `json:"toDate"`
	Status    LeaveStatus `json:"status"`
	Applicant *Student    `json:"applicant,omitempty"`
}

// ApplyLeaveRequest is the student leave form.
type ApplyLeaveRequest struct {
	Reason   string `json:"reason" form:"reason" binding:"required,min=3,max=1000"`
	FromDate string `json:"fromDate" form:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate   string `json:"toDate" form:"toDate" binding:"required,datetime=2006-01-02"`
}

// UpdateLeaveStatusRequest is the admin approve/reject action.
type UpdateLeaveStatusRequest struct {
	Status LeaveStatus `json:"status" form:"status" binding:"required,oneof=Approved Rejected Pending"`
}

// InOrder reports whether the leave does not end before it starts.
// Both dates are validated as YYYY-MM-DD, which orders lexically.
func (r ApplyLeaveRequest) InOrder() bool {
	return r.ToDate >= r.FromDate
}
