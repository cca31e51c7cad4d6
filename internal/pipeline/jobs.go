package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a merge job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusLoading   JobStatus = "loading"
	StatusComposing JobStatus = "composing"
	StatusFinishing JobStatus = "finishing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// InputFile is one uploaded merge input. Order matters: it decides both the
// order of content in the output and the concrete ids assigned during
// composition.
type InputFile struct {
	Name string
	Data []byte
}

// MergeOptions are the per-job knobs the upload form can set.
type MergeOptions struct {
	Title      string `json:"title,omitempty"`
	HeaderText string `json:"header_text,omitempty"`
	FooterText string `json:"footer_text,omitempty"`
}

// Job tracks the state of a single merge.
type Job struct {
	mu sync.Mutex

	ID         string       `json:"job_id"`
	OutputName string       `json:"output_name"`
	Status     JobStatus    `json:"status"`
	Phase      string       `json:"phase"`
	Options    MergeOptions `json:"options"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputs []InputFile
	errors []string
}

// Progress tracks merge progress and result statistics.
type Progress struct {
	TotalInputs   int      `json:"total_inputs"`
	InputsFolded  int      `json:"inputs_folded"`
	Footnotes     int      `json:"footnotes"`
	Relationships int      `json:"relationships"`
	Charts        int      `json:"charts"`
	ResultBytes   int64    `json:"result_bytes"`
	Errors        []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and returns their ids so associated stored
// results can be removed as well.
func (s *JobStore) Cleanup() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var expired []string
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetInputs stores the ordered input files for processing.
func (j *Job) SetInputs(inputs []InputFile) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inputs = inputs
	j.Progress.TotalInputs = len(inputs)
}

// Inputs returns the ordered input files.
func (j *Job) Inputs() []InputFile {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// IncrInputsFolded atomically increments the folded-input count.
func (j *Job) IncrInputsFolded() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.InputsFolded++
	j.UpdatedAt = time.Now()
}

// SetResultStats records the statistics of the finished merge.
func (j *Job) SetResultStats(footnotes, relationships, charts int, resultBytes int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Footnotes = footnotes
	j.Progress.Relationships = relationships
	j.Progress.Charts = charts
	j.Progress.ResultBytes = resultBytes
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string       `json:"job_id"`
	OutputName string       `json:"output_name"`
	Status     JobStatus    `json:"status"`
	Phase      string       `json:"phase"`
	Options    MergeOptions `json:"options"`
	Progress   Progress     `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		OutputName: j.OutputName,
		Status:     j.Status,
		Phase:      j.Phase,
		Options:    j.Options,
		Progress: Progress{
			TotalInputs:   j.Progress.TotalInputs,
			InputsFolded:  j.Progress.InputsFolded,
			Footnotes:     j.Progress.Footnotes,
			Relationships: j.Progress.Relationships,
			Charts:        j.Progress.Charts,
			ResultBytes:   j.Progress.ResultBytes,
			Errors:        errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
