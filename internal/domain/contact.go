package domain

import "time"

// Contact is a personal contact record owned by a single user.
type Contact struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	PhoneNum  string
	Birthday  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactUpdate carries the mutable subset of a contact.
type ContactUpdate struct {
	Email    string
	PhoneNum string
}

// BirthdayIn returns the contact's birthday in the given year at midnight UTC.
// Feb 29 birthdays fall on Mar 1 in non-leap years.
func (c Contact) BirthdayIn(year int) time.Time {
	return time.Date(year, c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
}
