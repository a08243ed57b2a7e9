package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
	"nearby-places/internal/excel"
	"nearby-places/internal/models"
)

// Sheet names used by batch workbooks.
const (
	QueriesSheet = "Queries"
	ResultsSheet = "Results"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

type Result struct {
	Rows     int    `json:"rows"`
	Queries  int    `json:"queries"`
	Sheet    string `json:"sheet"`
	Output   string `json:"-"`
	Filename string `json:"filename"`
}

// Snapshot is a consistent, lock-free copy of a job's state.
type Snapshot struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Logs      []string  `json:"logs"`
	Error     string    `json:"error,omitempty"`
	Result    *Result   `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Job struct {
	mu        sync.RWMutex
	id        string
	status    Status
	logs      []string
	progress  int // 0-100
	result    *Result
	err       string
	createdAt time.Time
	done      chan struct{}
}

func newJob() *Job {
	return &Job{
		id:        uuid.New().String(),
		status:    StatusRunning,
		logs:      []string{},
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
}

func (j *Job) ID() string {
	return j.id
}

// Done is closed once the job has finished, successfully or not.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) Log(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.appendLog(msg)
}

func (j *Job) appendLog(msg string) {
	ts := time.Now().Format("15:04:05")
	j.logs = append(j.logs, fmt.Sprintf("[%s] %s", ts, msg))
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if total > 0 {
		j.progress = int(float64(current) / float64(total) * 100)
	}
	if msg != "" {
		j.appendLog(msg)
	}
}

func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s := Snapshot{
		ID:        j.id,
		Status:    j.status,
		Progress:  j.progress,
		Logs:      append([]string(nil), j.logs...),
		Error:     j.err,
		CreatedAt: j.createdAt,
	}
	if j.result != nil {
		r := *j.result
		s.Result = &r
	}
	return s
}

func (j *Job) fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusError
	j.err = msg
	j.logs = append(j.logs, "[ERROR] "+msg)
}

func (j *Job) succeed(res *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusDone
	j.appendLog("Batch completed.")
	j.result = res
	j.progress = 100
}

// Store keeps batch jobs in memory for the lifetime of the process.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	outputDir string
	log       *zap.Logger
}

func NewStore(outputDir string, log *zap.Logger) *Store {
	return &Store{
		jobs:      make(map[string]*Job),
		outputDir: outputDir,
		log:       log,
	}
}

func (s *Store) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

// Start registers a job that ranks the Queries sheet of inputPath against
// catalog and runs it in the background.
func (s *Store) Start(inputPath string, catalog []models.GeoPoint, k int) *Job {
	job := newJob()

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	go s.process(job, inputPath, catalog, k)
	return job
}

func (s *Store) process(job *Job, inputPath string, catalog []models.GeoPoint, k int) {
	log := s.log.With(zap.String("job_id", job.id))
	defer close(job.done)
	defer func() {
		if r := recover(); r != nil {
			log.Error("batch job panicked", zap.Any("panic", r))
			job.fail(fmt.Sprintf("panic: %v", r))
		}
	}()

	job.Log(fmt.Sprintf("Reading workbook %s", filepath.Base(inputPath)))

	f, err := excel.OpenFile(inputPath)
	if err != nil {
		s.failJob(log, job, fmt.Sprintf("open workbook: %v", err))
		return
	}
	defer f.Close()

	queries, err := excel.ReadQueries(f, QueriesSheet)
	if err != nil {
		s.failJob(log, job, fmt.Sprintf("read sheet %s: %v", QueriesSheet, err))
		return
	}
	job.Log(fmt.Sprintf("%d query points read.", len(queries)))

	start := time.Now()
	rows, err := calculator.RankBatch(queries, catalog, k, job.SetProgress, job.Log)
	if err != nil {
		s.failJob(log, job, fmt.Sprintf("rank: %v", err))
		return
	}
	job.Log(fmt.Sprintf("Ranking took %s", time.Since(start)))

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.failJob(log, job, fmt.Sprintf("create output dir: %v", err))
		return
	}
	outputPath := filepath.Join(s.outputDir, job.id+"_results.xlsx")
	job.Log("Writing result workbook...")
	if err := excel.WriteResult(outputPath, rows, ResultsSheet); err != nil {
		s.failJob(log, job, fmt.Sprintf("write results: %v", err))
		return
	}

	job.succeed(&Result{
		Rows:     len(rows),
		Queries:  len(queries),
		Sheet:    ResultsSheet,
		Output:   outputPath,
		Filename: filepath.Base(outputPath),
	})
	log.Info("batch job completed",
		zap.Int("queries", len(queries)),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Store) failJob(log *zap.Logger, job *Job, msg string) {
	log.Warn("batch job failed", zap.String("reason", msg))
	job.fail(msg)
}
