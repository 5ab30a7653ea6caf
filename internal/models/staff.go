package models

import (
	"github.com/shopspring/decimal"
)

// Role is a staff member's position in the school.
type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleAssistant Role = "assistant"
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
)

// StaffMember is someone the school pays. Teachers are paid out of their
// wallet balance; everybody else draws a fixed salary.
type StaffMember struct {
	ID     string          `json:"id"` // RowKey
	Name   string          `json:"name" validate:"required,notblank"`
	Role   Role            `json:"role" validate:"required,oneof=teacher assistant admin staff"`
	Wallet decimal.Decimal `json:"wallet" validate:"gte=0"`
	Salary decimal.Decimal `json:"salary" validate:"gte=0"`
}

// IsTeacher reports whether the member is paid from a wallet.
func (s StaffMember) IsTeacher() bool {
	return s.Role == RoleTeacher
}

// DueAmount is the full amount owed to the member for one period.
func (s StaffMember) DueAmount() decimal.Decimal {
	if s.IsTeacher() {
		return s.Wallet
	}
	return s.Salary
}
