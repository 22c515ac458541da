package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a compile job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusScanning  JobStatus = "scanning"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one asynchronous compile request.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	Format Format `json:"format"`
	Title  string `json:"title"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Error  string    `json:"error,omitempty"`
	Reason string    `json:"reason,omitempty"`

	Blocks int `json:"blocks"`

	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	text     string
	artifact *Artifact
}

// NewJob creates a queued job for text.
func NewJob(format Format, text, title string) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Format:      format,
		Title:       title,
		Status:      StatusQueued,
		Phase:       "queued",
		ContentHash: ContentHashHex([]byte(text)),
		CreatedAt:   now,
		UpdatedAt:   now,
		text:        text,
	}
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs older than the TTL. Jobs still queued or
// running are kept regardless of age.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Done() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetBlocks records how many blocks the scanner produced.
func (j *Job) SetBlocks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Blocks = n
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a message and a short reason code.
func (j *Job) Fail(phase, reason string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = phase
	j.Reason = reason
	j.Error = err.Error()
	j.text = ""
	j.UpdatedAt = time.Now()
}

// Complete stores the artifact and marks the job completed. The input text
// is released.
func (j *Job) Complete(a Artifact) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.artifact = &a
	j.text = ""
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Text returns the input text to compile.
func (j *Job) Text() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.text
}

// Artifact returns the finished artifact once the job has completed.
func (j *Job) Artifact() (Artifact, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.artifact == nil {
		return Artifact{}, false
	}
	return *j.artifact, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Format      Format    `json:"format"`
	Title       string    `json:"title"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Error       string    `json:"error,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Blocks      int       `json:"blocks"`
	Filename    string    `json:"filename,omitempty"`
	Size        int       `json:"size,omitempty"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:          j.ID,
		Format:      j.Format,
		Title:       j.Title,
		Status:      j.Status,
		Phase:       j.Phase,
		Error:       j.Error,
		Reason:      j.Reason,
		Blocks:      j.Blocks,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.artifact != nil {
		snap.Filename = j.artifact.Filename
		snap.Size = len(j.artifact.Data)
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
