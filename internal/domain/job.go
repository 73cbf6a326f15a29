package domain

import "time"

// JobStatus enumerates code-generation job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "CODE_QUEUED"
	JobStatusRunning   JobStatus = "CODE_RUNNING"
	JobStatusSucceeded JobStatus = "CODE_READY"
	JobStatusFailed    JobStatus = "CODE_FAILED"
)

// Job is the video job record the pipeline reads its inputs from and writes
// its artifact onto.
type Job struct {
	ID                string
	ScriptID          string
	Status            JobStatus
	AspectRatio       string
	TargetDuration    int
	ImageURLs         []string
	Audio             *AudioDescriptor
	PreviousCode      string
	IterationFeedback string
	GeneratedCode     string
	UsedFallback      bool
	ErrorMessage      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Request converts the stored job into a pipeline request.
func (j *Job) Request() GenerationRequest {
	req := GenerationRequest{
		JobID:          j.ID,
		ScriptID:       j.ScriptID,
		ImageURLs:      append([]string(nil), j.ImageURLs...),
		Audio:          j.Audio,
		AspectRatio:    j.AspectRatio,
		TargetDuration: j.TargetDuration,
	}
	if j.PreviousCode != "" && j.IterationFeedback != "" {
		req.Iteration = &Iteration{PreviousCode: j.PreviousCode, Feedback: j.IterationFeedback}
	}
	return req
}
