package models

import (
	"fmt"
	"strings"
	"time"
)

// ChatLog records a single chat interaction handled by the backend. It keeps the role the user chatted
// as, the query, the assistant's answer and the time the interaction happened.
type ChatLog struct {
	ID        string
	Role      Role
	Query     string
	Response  string
	Timestamp time.Time

	// Context carries optional additional context, such as the course or topic the query relates to.
	Context map[string]string
}

// Preference holds the chatbot preferences of the page visitor.
type Preference struct {
	DefaultRole         Role
	Theme               string
	EnableNotifications bool
}

// Role represents the role a user chats as.
type Role string

const (
	// RoleAdmin represents an LMS administrator.
	RoleAdmin Role = "admin"
	// RoleStudent represents a student. This is the default role.
	RoleStudent Role = "student"
	// RoleLecturer represents a lecturer.
	RoleLecturer Role = "lecturer"
)

// Roles lists every known role in the order they are presented to the user.
var Roles = []Role{RoleAdmin, RoleStudent, RoleLecturer}

// DefaultPreference is used when no preference has been stored yet.
var DefaultPreference = Preference{
	DefaultRole:         RoleStudent,
	Theme:               "light",
	EnableNotifications: true,
}

// ParseRole converts s to a known Role. Empty or unknown values resolve to RoleStudent, and ok reports
// whether s named a known role.
func ParseRole(s string) (role Role, ok bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleStudent, RoleLecturer:
		return r, true
	default:
		return RoleStudent, false
	}
}

// Label returns the human readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleStudent:
		return "Student"
	case RoleLecturer:
		return "Lecturer"
	default:
		return string(r)
	}
}

func (c ChatLog) String() string {
	return fmt.Sprintf("(%s) - %s", c.Role, c.Timestamp.Format(time.RFC3339))
}
