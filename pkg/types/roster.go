package types

import "time"

type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusArchived ProgramStatus = "archived"
)

// Program is one after-school program run by the operator. Documents may be
// scoped to a program, and students are enrolled in exactly one.
type Program struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name" form:"name"`
	Status    ProgramStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `db:"updated_at" json:"updatedAt"`
}

// Student is a roster entry. Guardians are the usual recipients of signing
// instances for minors.
type Student struct {
	ID            string    `db:"id" json:"id"`
	ProgramID     string    `db:"program_id" json:"programId" form:"program_id"`
	FirstName     string    `db:"first_name" json:"firstName" form:"first_name"`
	LastName      string    `db:"last_name" json:"lastName" form:"last_name"`
	GuardianName  *string   `db:"guardian_name" json:"guardianName" form:"guardian_name"`
	GuardianEmail *string   `db:"guardian_email" json:"guardianEmail" form:"guardian_email"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// AttendanceRecord is one check-in for a student on a given day.
type AttendanceRecord struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"studentId" form:"student_id"`
	ProgramID  string    `db:"program_id" json:"programId" form:"program_id"`
	Date       time.Time `db:"date" json:"date"`
	Present    bool      `db:"present" json:"present" form:"present"`
	RecordedBy string    `db:"recorded_by" json:"recordedBy" form:"recorded_by"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
