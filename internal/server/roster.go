package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/utils"
	"inkwell/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.programRepo.Programs(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, programs)
}

func (s *Service) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	name := strings.TrimSpace(r.PostForm.Get("name"))
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	program := &types.Program{
		ID:     utils.NanoID(),
		Name:   name,
		Status: types.ProgramStatusActive,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.programRepo.Create(ctx, program); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, program)
}

func (s *Service) handleListStudents(w http.ResponseWriter, r *http.Request) {
	programID := r.URL.Query().Get("program_id")

	var (
		students []types.Student
		err      error
	)
	if programID != "" {
		students, err = s.studentRepo.StudentsByProgram(r.Context(), programID)
	} else {
		students, err = s.studentRepo.Students(r.Context())
	}
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, students)
}

func (s *Service) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	var student types.Student
	if err := decoder.Decode(&student, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	if student.FirstName == "" || student.LastName == "" || student.ProgramID == "" {
		s.respondError(w, http.StatusBadRequest, "first_name, last_name and program_id are required")
		return
	}
	student.ID = utils.NanoID()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.programRepo.Program(ctx, student.ProgramID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	if err := s.studentRepo.Create(ctx, &student); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, student)
}

func (s *Service) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := flow.Param(r.Context(), "studentID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.studentRepo.Student(ctx, studentID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	if err := s.studentRepo.Delete(ctx, studentID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.Users(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, users)
}

func (s *Service) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	studentID := flow.Param(r.Context(), "studentID")

	if _, err := s.studentRepo.Student(r.Context(), studentID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	records, err := s.attendanceRepo.ByStudent(r.Context(), studentID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, records)
}

func (s *Service) handleProgramAttendance(w http.ResponseWriter, r *http.Request) {
	programID := flow.Param(r.Context(), "programID")

	if _, err := s.programRepo.Program(r.Context(), programID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	records, err := s.attendanceRepo.ByProgramAndDate(r.Context(), programID, date)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, records)
}

func (s *Service) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	var record types.AttendanceRecord
	if err := decoder.Decode(&record, r.PostForm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	if record.StudentID == "" || record.ProgramID == "" {
		s.respondError(w, http.StatusBadRequest, "student_id and program_id are required")
		return
	}

	record.ID = utils.NanoID()
	record.Date = time.Now()
	if v := r.PostForm.Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		record.Date = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.studentRepo.Student(ctx, record.StudentID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	if err := s.attendanceRepo.Create(ctx, &record); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, record)
}
