/*
Package session holds the single user session of the web front end: the
staged files, the stage being shown, the status line, a pending alert and
the last analysis result.

State is safe for concurrent use. Every operation takes the lock for its
whole duration, so handlers never observe a half-applied reset or replace.
*/
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"finsight/src/pkg/failure"
	"finsight/src/pkg/statement"
	"finsight/src/pkg/upload"
)

type Stage string

const (
	StageUpload    Stage = "upload"
	StagePreview   Stage = "preview"
	StageAnalyzing Stage = "analyzing"
	StageEncrypted Stage = "encrypted"
	StageResults   Stage = "results"
)

var (
	ErrAnalysisRunning = errors.New("an analysis is already running")
	ErrNothingStaged   = errors.New("no file is staged")
)

type StatusLevel string

const (
	StatusNone  StatusLevel = ""
	StatusError StatusLevel = "error"
	StatusInfo  StatusLevel = "info"
)

type Status struct {
	Message string      `json:"message"`
	Level   StatusLevel `json:"level"`
}

// Snapshot is a consistent copy of the session for rendering a page.
type Snapshot struct {
	Stage      Stage            `json:"stage"`
	Status     Status           `json:"status"`
	Previews   []upload.Preview `json:"previews"`
	Analyzing  bool             `json:"analyzing"`
	HasResult  bool             `json:"has_result"`
	AnalysisID string           `json:"analysis_id,omitempty"`
	Alert      string           `json:"alert,omitempty"`
}

type State struct {
	mutex      sync.Mutex
	stage      Stage
	pending    upload.Set
	status     Status
	alert      string
	analyzing  bool
	result     *statement.AnalysisResult
	analysisID string
}

func New() *State {
	return &State{stage: StageUpload}
}

/*
AddFiles stages the candidates. Invalid ones are skipped and the last
validation message becomes the error status. The preview is shown as soon
as anything is staged.
*/
func (s *State) AddFiles(candidates ...upload.Candidate) (added int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	added, lastFailure := s.pending.Add(candidates...)
	if lastFailure != nil {
		s.status = Status{Message: lastFailure.Message, Level: StatusError}
	}
	if s.pending.Len() > 0 && !s.analyzing {
		s.stage = StagePreview
	}

	tl.Log(tl.Info1, palette.Cyan, "Staged %s of %s files (%s pending)", added, len(candidates), s.pending.Len())
	return added
}

// Remove drops one staged file. Removing the last one cancels the upload.
func (s *State) Remove(index int) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.analyzing || !s.pending.Remove(index) {
		return false
	}
	if s.pending.Len() == 0 {
		s.cancelLocked()
	}
	return true
}

// Cancel clears the staged files and the status line and shows the upload area.
func (s *State) Cancel() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.analyzing {
		return
	}
	s.cancelLocked()
}

func (s *State) cancelLocked() {
	s.pending.Clear()
	s.status = Status{}
	s.stage = StageUpload
}

/*
BeginAnalysis marks an analysis as running and returns the file to send:
the first staged one. It fails with ErrAnalysisRunning while another
analysis runs and with ErrNothingStaged when there is nothing to send.
*/
func (s *State) BeginAnalysis() (upload.Candidate, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.analyzing {
		return upload.Candidate{}, ErrAnalysisRunning
	}
	candidate, ok := s.pending.First()
	if !ok {
		return upload.Candidate{}, ErrNothingStaged
	}

	s.analyzing = true
	s.stage = StageAnalyzing
	return candidate, nil
}

/*
Replace stores a successful result as a whole, under a new analysis id, and
clears the staged files. It returns the id.
*/
func (s *State) Replace(result statement.AnalysisResult) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.result = &result
	s.analysisID = uuid.NewString()
	s.pending.Clear()
	s.analyzing = false
	s.stage = StageResults

	tl.Log(tl.Notice, palette.GreenBold, "%s '%s'", "Stored analysis", s.analysisID)
	return s.analysisID
}

/*
MarkEncrypted ends the running analysis on the encrypted-document path: the
staged file is dropped and the recovery view is shown. A previous result is
kept.
*/
func (s *State) MarkEncrypted() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pending.Clear()
	s.analyzing = false
	s.stage = StageEncrypted
}

// Fail raises a blocking alert and resets the whole session, previous result included.
func (s *State) Fail(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.resetLocked()
	s.alert = message

	tl.Log(tl.Warning, palette.Yellow, "%s: '%s'", "Analysis failed", message)
}

// Finish routes the outcome of an analysis to Replace, MarkEncrypted or Fail.
func (s *State) Finish(result statement.AnalysisResult, analysisFailure *failure.Failure) {
	switch {
	case analysisFailure == nil:
		s.Replace(result)
	case analysisFailure.Is(failure.KindEncryptedDocument):
		s.MarkEncrypted()
	default:
		s.Fail(analysisFailure.Message)
	}
}

// SwitchToScreenshot leaves the encrypted view and asks for an image instead.
func (s *State) SwitchToScreenshot() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.analyzing {
		return
	}
	s.stage = StageUpload
	if s.pending.Len() > 0 {
		s.stage = StagePreview
	}
	s.status = Status{Message: failure.MessageUploadScreenshot, Level: StatusInfo}
}

/*
Reset returns to the initial upload state and forgets the last result. It
does nothing while an analysis runs; that analysis ends the session state
through Finish.
*/
func (s *State) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.analyzing {
		return
	}
	s.resetLocked()
}

func (s *State) resetLocked() {
	s.pending.Clear()
	s.result = nil
	s.analysisID = ""
	s.status = Status{}
	s.analyzing = false
	s.stage = StageUpload
}

// Alert queues a blocking message for the next page render.
func (s *State) Alert(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.alert = message
}

// TakeAlert returns the pending alert and clears it.
func (s *State) TakeAlert() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	alert := s.alert
	s.alert = ""
	return alert
}

// Result returns a copy of the last result, or nil when there is none.
func (s *State) Result() (*statement.AnalysisResult, string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.result == nil {
		return nil, ""
	}
	result := *s.result
	return &result, s.analysisID
}

// Candidate returns the staged file at index.
func (s *State) Candidate(index int) (upload.Candidate, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.pending.At(index)
}

// Analyzing reports whether an analysis is in flight without touching the alert.
func (s *State) Analyzing() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.analyzing
}

/*
Snapshot copies everything a page needs, taking the pending alert with it
so it is shown once.
*/
func (s *State) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	candidates := s.pending.Candidates()
	previews := make([]upload.Preview, 0, len(candidates))
	for index, candidate := range candidates {
		previews = append(previews, upload.NewPreview(index, candidate))
	}

	snapshot := Snapshot{
		Stage:      s.stage,
		Status:     s.status,
		Previews:   previews,
		Analyzing:  s.analyzing,
		HasResult:  s.result != nil,
		AnalysisID: s.analysisID,
		Alert:      s.alert,
	}
	s.alert = ""
	return snapshot
}
