package session

import (
	"time"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/security"
)

// State is everything the page needs to render for one session.
type State struct {
	ID         string
	FileName   string
	Upload     []byte
	Credential security.Credential
	Query      analysis.Query
	Report     *analysis.Report
	Err        *errors.AppError
	UpdatedAt  time.Time
}

// HasUpload reports whether a dataset has been uploaded.
func (s *State) HasUpload() bool { return len(s.Upload) > 0 }

// HasCredential reports whether an API key has been entered.
func (s *State) HasCredential() bool { return !s.Credential.IsZero() }

// Ready reports whether both inputs are present.
func (s *State) Ready() bool { return s.HasUpload() && s.HasCredential() }

// ClearResult drops the previous report and error.
func (s *State) ClearResult() {
	s.Report = nil
	s.Err = nil
}
