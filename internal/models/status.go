package models

// PaymentStatus is the derived payment state of a subject within a period.
type PaymentStatus string

const (
	StatusUnpaid          PaymentStatus = "unpaid"
	StatusPartial         PaymentStatus = "partially_paid"
	StatusPaid            PaymentStatus = "paid"
	StatusUserAlreadyPaid PaymentStatus = "user_already_paid"
)

// IsPaid reports whether nothing more is owed for the period.
func (s PaymentStatus) IsPaid() bool {
	return s == StatusPaid || s == StatusUserAlreadyPaid
}

// Warning is the banner shown next to a payment form for a subject.
type Warning string

const (
	WarningNone          Warning = ""
	WarningAlreadyPaid   Warning = "already_paid"
	WarningPartiallyPaid Warning = "partially_paid"
)
