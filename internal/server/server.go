package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/registry"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/tracker"
	"inkwell/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	registry *registry.Service
	tracker  *tracker.Service
	files    *storage.DocumentStorage

	programRepo    *store.ProgramRepository
	studentRepo    *store.StudentRepository
	attendanceRepo *store.AttendanceRepository
	userRepo       *store.UserRepository

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	registrySvc *registry.Service,
	trackerSvc *tracker.Service,
	files *storage.DocumentStorage,
	programRepo *store.ProgramRepository,
	studentRepo *store.StudentRepository,
	attendanceRepo *store.AttendanceRepository,
	userRepo *store.UserRepository,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,

		registry: registrySvc,
		tracker:  trackerSvc,
		files:    files,

		programRepo:    programRepo,
		studentRepo:    studentRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,

		cookie: securecookie.New(hashKey, blockKey),

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	// Registry
	r.HandleFunc("/documents", s.handleCreateDocument, http.MethodPost)
	r.HandleFunc("/documents", s.handleListDocuments, http.MethodGet)
	r.HandleFunc("/documents/:documentID", s.handleGetDocument, http.MethodGet)
	r.HandleFunc("/documents/:documentID", s.handleDeleteDocument, http.MethodDelete)
	r.HandleFunc("/documents/:documentID/status", s.handleSetDocumentStatus, http.MethodPost)
	r.HandleFunc("/documents/:documentID/file", s.handleUploadDocumentFile, http.MethodPost)
	r.HandleFunc("/documents/:documentID/file", s.handleDownloadDocumentFile, http.MethodGet)

	// Tracker
	r.HandleFunc("/documents/:documentID/instances", s.handleCreateInstance, http.MethodPost)
	r.HandleFunc("/documents/:documentID/instances", s.handleListInstances, http.MethodGet)
	r.HandleFunc("/documents/:documentID/status-counts", s.handleStatusCounts, http.MethodGet)
	r.HandleFunc("/instances/:instanceID/send", s.handleSendDocument, http.MethodPost)
	r.HandleFunc("/instances/:instanceID/remind", s.handleSendReminder, http.MethodPost)
	r.HandleFunc("/instances/:instanceID/activity", s.handleInstanceActivity, http.MethodGet)

	// Reporting
	r.HandleFunc("/reports/analytics", s.handleAnalytics, http.MethodGet)
	r.HandleFunc("/reports/status", s.handleStatusReport, http.MethodGet)
	r.HandleFunc("/search/recipients", s.handleSearchRecipients, http.MethodGet)

	// Public signing callback, reached through emailed access links
	r.HandleFunc("/sign/:instanceID/:token", s.handleSignView, http.MethodGet)
	r.HandleFunc("/sign/:instanceID/:token", s.handleSignSubmit, http.MethodPost)

	// Roster
	r.HandleFunc("/programs", s.handleListPrograms, http.MethodGet)
	r.HandleFunc("/programs", s.handleCreateProgram, http.MethodPost)
	r.HandleFunc("/students", s.handleListStudents, http.MethodGet)
	r.HandleFunc("/students", s.handleCreateStudent, http.MethodPost)
	r.HandleFunc("/students/:studentID", s.handleDeleteStudent, http.MethodDelete)
	r.HandleFunc("/users", s.handleListUsers, http.MethodGet)
	r.HandleFunc("/students/:studentID/attendance", s.handleStudentAttendance, http.MethodGet)
	r.HandleFunc("/programs/:programID/attendance", s.handleProgramAttendance, http.MethodGet)
	r.HandleFunc("/attendance", s.handleRecordAttendance, http.MethodPost)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
