// Package httpapi exposes the service over HTTP: CSV uploads per entity, the
// two hiring reports, table dumps, and two small embedded HTML pages for
// driving uploads by hand.
//
// Routes:
//
//	GET  /                                    → landing page
//	GET  /fileupload                          → upload form
//	GET  /healthcheck                         → liveness
//	POST /api/v1/uploadfile/{file_type}       → ingest a CSV
//	GET  /api/v1/getquarteremployees/{year}   → quarterly hiring pivot
//	GET  /api/v1/listofids                    → department totals
//	GET  /api/v1/getfile/{file_type}          → table dump, ordered by id
package httpapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hiringapi/internal/apperror"
	"hiringapi/internal/ingest"
	"hiringapi/internal/report"
	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
)

// Server routes API and UI requests. Construct with NewServer; the zero value
// is not usable.
type Server struct {
	repo   storage.Repository
	pipe   *ingest.Pipeline
	logger *log.Logger
	router *mux.Router
	tmpl   *template.Template
}

// NewServer wires the handler set against a repository and an ingest
// pipeline. The logger receives server-side detail for failures whose client
// response is deliberately generic.
func NewServer(repo storage.Repository, pipe *ingest.Pipeline, logger *log.Logger) *Server {
	s := &Server{
		repo:   repo,
		pipe:   pipe,
		logger: logger,
		router: mux.NewRouter(),
		// Parse the embedded templates at init time.
		tmpl: template.Must(template.New("index").Parse(indexHTML)),
	}
	template.Must(s.tmpl.New("fileupload").Parse(fileuploadHTML))
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/fileupload", s.handleUploadPage).Methods(http.MethodGet)
	s.router.HandleFunc("/healthcheck", s.handleHealthcheck).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/uploadfile/{file_type}", s.handleUploadFile).Methods(http.MethodPost)
	api.HandleFunc("/getquarteremployees/{year}", s.handleQuarterEmployees).Methods(http.MethodGet)
	api.HandleFunc("/listofids", s.handleListOfIDs).Methods(http.MethodGet)
	api.HandleFunc("/getfile/{file_type}", s.handleGetFile).Methods(http.MethodGet)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.tmpl.ExecuteTemplate(w, "index", schema.Names()); err != nil {
		s.logger.Printf("httpapi: index template: %v", err)
	}
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	if err := s.tmpl.ExecuteTemplate(w, "fileupload", schema.Names()); err != nil {
		s.logger.Printf("httpapi: fileupload template: %v", err)
	}
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "OK")
}

// handleUploadFile ingests a multipart CSV for the entity named in the path.
// Validation rejections are not errors: the valid partition persists and the
// response is still 201.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	fileType := mux.Vars(r)["file_type"]

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeUploadError(w, fileType, apperror.New(apperror.CodeValidation, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	res, err := s.pipe.Ingest(r.Context(), fileType, file)
	if err != nil {
		s.writeUploadError(w, fileType, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"file_type": res.Entity,
		"status":    "success",
		"message": fmt.Sprintf("%d rows inserted, %d rejected, %d skipped",
			res.Inserted, res.Invalid, res.Skipped),
	})
}

func (s *Server) handleQuarterEmployees(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "year must be an integer",
		})
		return
	}

	counts, err := s.repo.QuarterCounts(r.Context(), year)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": report.PivotQuarters(counts)})
}

func (s *Server) handleListOfIDs(w http.ResponseWriter, r *http.Request) {
	sums, err := s.repo.DepartmentHireSums(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": sums})
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	fileType := mux.Vars(r)["file_type"]

	contract, err := schema.Lookup(fileType)
	if err != nil {
		s.writeUploadError(w, fileType, err)
		return
	}

	recs, err := s.repo.SelectAll(r.Context(), contract)
	if err != nil {
		s.logger.Printf("httpapi: getfile %s: %v", fileType, err)
		s.writeUploadError(w, fileType, apperror.New(apperror.CodeInternal, "query failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_type": contract.Name,
		"data":      recs,
	})
}

// writeUploadError emits the {file_type, status, message} envelope. Every
// client-visible failure is a 400 by contract; only the message varies, and
// internal detail never leaves the server.
func (s *Server) writeUploadError(w http.ResponseWriter, fileType string, err error) {
	msg := err.Error()
	switch apperror.GetCode(err) {
	case apperror.CodeValidation, apperror.CodeNotFound:
	default:
		s.logger.Printf("httpapi: %s: %v", fileType, err)
		msg = "internal error"
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"file_type": fileType,
		"status":    "error",
		"message":   msg,
	})
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	s.logger.Printf("httpapi: report query: %v", err)
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"status":  "error",
		"message": "query failed",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// indexHTML is an embedded, minimal page with vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string

//go:embed fileupload.tmpl.html
var fileuploadHTML string
