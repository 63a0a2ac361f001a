package domain

import "time"

type School struct {
	ID        string
	Name      string
	CreatedBy string // subject of the founding director
	CreatedAt time.Time
}

type Classroom struct {
	ID        string
	SchoolID  string
	Name      string
	Grade     string
	CreatedAt time.Time
}
