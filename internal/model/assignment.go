package model

import "time"

// Assignment records the custody of an item by an employee for a time span.
type Assignment struct {
	ID                 int64      `json:"id"`
	ItemID             int64      `json:"item_id"`
	EmployeeID         int64      `json:"employee_id"`
	AssignedBy         int64      `json:"assigned_by"`
	AssignmentDate     time.Time  `json:"assignment_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	Status             string     `json:"status"`
	Condition          string     `json:"condition"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	ItemName           string `json:"item_name,omitempty"`
	ItemSerialNumber   string `json:"item_serial_number,omitempty"`
	EmployeeName       string `json:"employee_name,omitempty"`
	EmployeeDepartment string `json:"employee_department,omitempty"`
	AssignedByName     string `json:"assigned_by_name,omitempty"`
}

// Assignment statuses.
const (
	AssignmentActive   = "Active"
	AssignmentReturned = "Returned"
	AssignmentOverdue  = "Overdue"
)

// ValidAssignmentStatus reports whether s is a known assignment status.
func ValidAssignmentStatus(s string) bool {
	return s == AssignmentActive || s == AssignmentReturned || s == AssignmentOverdue
}

// Item conditions recorded on assignment and return.
const (
	ConditionExcellent = "Excellent"
	ConditionGood      = "Good"
	ConditionFair      = "Fair"
	ConditionPoor      = "Poor"
)

// ValidCondition reports whether c is a known condition rating.
func ValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// StatusAfterReturn returns the item status resulting from a return in the
// given condition: Fair and Poor send the item to repair, anything else
// makes it available again.
func StatusAfterReturn(condition string) string {
	if condition == ConditionFair || condition == ConditionPoor {
		return StatusUnderRepair
	}
	return StatusAvailable
}
