package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/doccompose/internal/importer"
	"github.com/dgallion1/doccompose/internal/pipeline"
	"github.com/dgallion1/doccompose/internal/preview"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const mediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleMerge accepts an ordered multipart upload and queues a merge job.
// The first file is the designated output document; the merge appends the
// rest to it in upload order.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	maxTotal := s.cfg.MaxUploadBytes*int64(s.cfg.MaxMergeInputs) + 10*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxTotal)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxMergeInputs {
		jsonError(w, fmt.Sprintf("too many inputs (max %d)", s.cfg.MaxMergeInputs), http.StatusBadRequest)
		return
	}

	inputs := make([]pipeline.InputFile, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !importer.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+filename, http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		inputs = append(inputs, pipeline.InputFile{Name: filename, Data: data})
	}

	outputName := r.FormValue("output_name")
	if outputName == "" {
		outputName = fmt.Sprintf("merged-%s.docx", pipeline.ContentHashHex(inputs[0].Data)[:8])
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:         uuid.NewString(),
		OutputName: sanitizeFilename(outputName),
		Status:     pipeline.StatusQueued,
		Phase:      "queued",
		Options: pipeline.MergeOptions{
			Title:      r.FormValue("title"),
			HeaderText: r.FormValue("header_text"),
			FooterText: r.FormValue("footer_text"),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetInputs(inputs)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":      job.ID,
		"output_name": job.OutputName,
		"status":      job.Status,
		"poll_url":    fmt.Sprintf("/api/merge/%s/status", job.ID),
	})
}

func (s *Server) handleMergeStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":      snap.ID,
		"output_name": snap.OutputName,
		"status":      snap.Status,
		"phase":       snap.Phase,
		"progress":    snap.Progress,
	})
}

func (s *Server) handleMergeResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}

	f, err := s.orchestrator.Results().Open(job.ID)
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "result expired", http.StatusGone)
			return
		}
		jsonError(w, "failed to open result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	snap := job.Snapshot()
	w.Header().Set("Content-Type", mediaTypeDocx)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.OutputName))
	io.Copy(w, f)
}

func (s *Server) handleMergeOutline(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}

	f, err := s.orchestrator.Results().Open(job.ID)
	if err != nil {
		jsonError(w, "result unavailable: "+err.Error(), http.StatusGone)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		jsonError(w, "failed to read result", http.StatusInternalServerError)
		return
	}

	snap := job.Snapshot()
	title := snap.Options.Title
	if title == "" {
		title = strings.TrimSuffix(snap.OutputName, ".docx")
	}
	doc, err := preview.Outline(data, title)
	if err != nil {
		jsonError(w, "failed to build outline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	if snap := job.Snapshot(); snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s, not completed", snap.Status), http.StatusConflict)
		return nil, false
	}
	return job, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
