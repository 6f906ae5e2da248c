// Package workload reads the tasks and exams handed to the planner. It is
// the read side for callers that keep their homework and exams in files or
// send them over the API; the planner itself only sees model values.
package workload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/studyplan/core/model"
)

// TaskRecord is the wire form of a task. Dates are YYYY-MM-DD.
type TaskRecord struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Subject       string `json:"subject" yaml:"subject"`
	Deadline      string `json:"deadline" yaml:"deadline"`
	EstimatedTime int    `json:"estimated_time" yaml:"estimated_time"`
	Status        string `json:"status,omitempty" yaml:"status,omitempty"`
}

// ExamRecord is the wire form of an exam. An absent estimated time means the
// default revision budget; an explicit one must be positive.
type ExamRecord struct {
	ID            string `json:"id" yaml:"id"`
	Subject       string `json:"subject" yaml:"subject"`
	Date          string `json:"date" yaml:"date"`
	EstimatedTime *int   `json:"estimated_time,omitempty" yaml:"estimated_time,omitempty"`
}

// Document is a complete planner input.
type Document struct {
	// Reference selects the week; empty means today.
	Reference string       `json:"reference,omitempty" yaml:"reference,omitempty"`
	Tasks     []TaskRecord `json:"tasks" yaml:"tasks"`
	Exams     []ExamRecord `json:"exams" yaml:"exams"`
}

// Workload is a decoded Document.
type Workload struct {
	Reference time.Time
	Tasks     []model.Task
	Exams     []model.Exam
}

// Load reads a YAML or JSON document from path.
func Load(path string) (Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workload{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Decode(f, ext)
}

// Decode reads a document in the given format ("yaml", "yml" or "json").
func Decode(r io.Reader, format string) (Workload, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Workload{}, fmt.Errorf("decode workload: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Workload{}, fmt.Errorf("decode workload: %w", err)
		}
	default:
		return Workload{}, fmt.Errorf("unsupported workload format: %s", format)
	}
	return doc.Workload(time.Now())
}

// Workload converts the document. now is used when Reference is empty.
// Unparseable dates and unknown statuses are reported as invalid tasks,
// exams or reference dates so callers can tell them apart from I/O failures.
func (d Document) Workload(now time.Time) (Workload, error) {
	w := Workload{Reference: model.Day(now)}
	if d.Reference != "" {
		ref, err := model.ParseDate(d.Reference)
		if err != nil {
			return Workload{}, fmt.Errorf("%w %q: %w", model.ErrInvalidDate, d.Reference, err)
		}
		w.Reference = ref
	}
	for _, r := range d.Tasks {
		t, err := r.Task()
		if err != nil {
			return Workload{}, err
		}
		w.Tasks = append(w.Tasks, t)
	}
	for _, r := range d.Exams {
		e, err := r.Exam()
		if err != nil {
			return Workload{}, err
		}
		w.Exams = append(w.Exams, e)
	}
	return w, nil
}

// Task converts the record. Status defaults to pending.
func (r TaskRecord) Task() (model.Task, error) {
	deadline, err := model.ParseDate(r.Deadline)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w %q: %w", model.ErrInvalidTask, r.ID, err)
	}
	status := model.TaskStatus(r.Status)
	if status == "" {
		status = model.TaskPending
	}
	t := model.Task{
		ID:            r.ID,
		Name:          r.Name,
		Subject:       r.Subject,
		Deadline:      deadline,
		EstimatedTime: r.EstimatedTime,
		Status:        status,
	}
	return t, t.Validate()
}

// Exam converts the record.
func (r ExamRecord) Exam() (model.Exam, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Exam{}, fmt.Errorf("%w %q: %w", model.ErrInvalidExam, r.ID, err)
	}
	e := model.Exam{ID: r.ID, Subject: r.Subject, Date: date}
	if r.EstimatedTime != nil {
		if *r.EstimatedTime <= 0 {
			return model.Exam{}, fmt.Errorf("%w %q: estimated time must be positive, got %d", model.ErrInvalidExam, r.ID, *r.EstimatedTime)
		}
		e.EstimatedTime = *r.EstimatedTime
	}
	return e, e.Validate()
}
