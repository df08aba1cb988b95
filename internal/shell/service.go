// Package shell owns the per-browser session: the selected document type, the
// uploaded file, the extraction result and the preview state.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/akolanti/DocForm/internal/apiClient"
	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/internal/metrics"
	"github.com/akolanti/DocForm/internal/transform"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/akolanti/DocForm/internal/viewer"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/google/uuid"
)

// Extractor is the part of the extraction service the shell depends on.
type Extractor interface {
	ProcessDocument(ctx context.Context, file upload.File, docType documentModel.DocumentType) (apiClient.Extraction, error)
	DocumentTypes(ctx context.Context) ([]string, error)
}

type ServiceConfig struct {
	Store     store.SessionStore
	Extractor Extractor
	Spooler   *upload.Spooler
}

type inflightUpload struct {
	id     string
	cancel context.CancelFunc
}

type Service struct {
	store     store.SessionStore
	extractor Extractor
	spooler   *upload.Spooler
	logger    *logger_i.Logger

	mu       sync.Mutex
	inflight map[string]inflightUpload
	locks    map[string]*sessionLock
}

// sessionLock serializes the updates of one session. refs counts the holders
// and waiters; the entry is dropped when it reaches zero.
type sessionLock struct {
	sync.Mutex
	refs int
}

func InitService(cfg ServiceConfig) *Service {
	return &Service{
		store:     cfg.Store,
		extractor: cfg.Extractor,
		spooler:   cfg.Spooler,
		logger:    logger_i.NewLogger("shell"),
		inflight:  make(map[string]inflightUpload),
		locks:     make(map[string]*sessionLock),
	}
}

// NewSessionID returns an id usable as session cookie and spool file name.
func NewSessionID() string {
	return uuid.NewString()
}

// Session returns the stored session, or a fresh one when the id is unknown.
func (s *Service) Session(ctx context.Context, sessionID string) sessionModel.Session {
	if session, ok := s.store.GetSession(ctx, sessionID); ok {
		return session
	}
	return sessionModel.New(sessionID)
}

// update runs fn on the session under the session lock and saves the result.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*sessionModel.Session) error) (sessionModel.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session := s.Session(ctx, sessionID)
	if err := fn(&session); err != nil {
		return session, err
	}
	session.UpdatedAt = time.Now()
	if err := s.store.SaveSession(ctx, session); err != nil {
		return session, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// lockSession takes the session lock and returns the func releasing it.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, sessionID)
		}
	}
}

// SelectDocumentType changes the type used by the next upload. The current
// result is left alone.
func (s *Service) SelectDocumentType(ctx context.Context, sessionID, docType string) (sessionModel.Session, error) {
	t, err := documentModel.ParseDocumentType(docType)
	if err != nil {
		return s.Session(ctx, sessionID), err
	}
	return s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		session.DocumentType = t
		return nil
	})
}

// DocumentTypes asks the extraction service and falls back to the local list.
func (s *Service) DocumentTypes(ctx context.Context) []string {
	types, err := s.extractor.DocumentTypes(ctx)
	if err != nil || len(types) == 0 {
		s.logger.FromContext(ctx).Warn("using local document types", "err", err)
		return documentModel.DocumentTypeNames()
	}
	return types
}

// Upload replaces the session's document with file and runs the extraction.
// A newer upload of the same session cancels this one; its result is then
// dropped and ErrSuperseded returned.
func (s *Service) Upload(ctx context.Context, sessionID string, file upload.File) (sessionModel.Session, error) {
	log := s.logger.FromContext(ctx)
	start := time.Now()

	uploadID := uuid.NewString()
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.register(sessionID, uploadID, cancel)

	var inspectErr error
	session, err := s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		// a newer upload registered in the meantime owns the file and the state
		if !s.isCurrent(sessionID, uploadID) {
			return errorModel.ErrSuperseded
		}
		var info viewer.Info
		info, inspectErr = s.spool(sessionID, file)
		session.File = &sessionModel.FileMeta{Name: file.Name, Size: file.Size, Pages: info.Pages, PageWidth: info.PageWidth}
		session.Status = sessionModel.StatusUploading
		session.UploadID = uploadID
		session.Records = nil
		session.Tokens = nil
		session.Error = ""
		session.Viewer.Select()
		if inspectErr != nil {
			session.Viewer.Fail(nil)
		}
		return nil
	})
	if inspectErr != nil {
		log.Warn("preview unavailable", "file", file.Name, "err", inspectErr)
	}
	switch {
	case errors.Is(err, errorModel.ErrSuperseded):
		log.Info("upload superseded before extraction", "uploadId", uploadID)
		metrics.CountUpload("superseded")
		return session, err
	case err != nil:
		s.release(sessionID, uploadID)
		return session, err
	}
	docType := session.DocumentType

	log.Info("extracting document", "file", file.Name, "type", docType, "uploadId", uploadID)
	records, tokens, extractErr := s.extract(uploadCtx, file, docType)

	session, superseded, err := s.finish(ctx, sessionID, uploadID, records, tokens, extractErr)
	switch {
	case superseded:
		log.Info("dropping superseded upload result", "uploadId", uploadID)
		metrics.CountUpload("superseded")
		return session, errorModel.ErrSuperseded
	case err != nil:
		return session, err
	case extractErr != nil:
		log.Warn("extraction failed", "err", extractErr, "message", session.Error)
		metrics.CountUpload("failure")
		metrics.CaptureExtractionMetrics("failure", time.Since(start))
		return session, extractErr
	}

	metrics.CountUpload("success")
	metrics.CaptureExtractionMetrics("success", time.Since(start))
	log.Info("extraction stored", "records", len(records), "took", time.Since(start))
	return session, nil
}

func (s *Service) extract(ctx context.Context, file upload.File, docType documentModel.DocumentType) ([]documentModel.ModelRecord, *documentModel.TokenUsage, error) {
	ext, err := s.extractor.ProcessDocument(ctx, file, docType)
	if err != nil {
		return nil, nil, err
	}
	records, err := transform.TransformPayload(ext.Data, docType)
	if err != nil {
		return nil, nil, err
	}
	return records, ext.Tokens, nil
}

// finish stores the outcome unless a newer upload took over the session.
func (s *Service) finish(ctx context.Context, sessionID, uploadID string, records []documentModel.ModelRecord,
	tokens *documentModel.TokenUsage, extractErr error) (sessionModel.Session, bool, error) {

	if !s.release(sessionID, uploadID) {
		return s.Session(ctx, sessionID), true, nil
	}

	// the request context may be gone by now, the outcome is still saved
	saveCtx := context.WithoutCancel(ctx)
	session, err := s.update(saveCtx, sessionID, func(session *sessionModel.Session) error {
		if session.UploadID != uploadID {
			return errorModel.ErrSuperseded
		}
		if extractErr != nil {
			session.Status = sessionModel.StatusFailure
			session.Error = errorModel.UserMessage(extractErr)
			return nil
		}
		session.Status = sessionModel.StatusSuccess
		session.Records = records
		session.Tokens = tokens
		return nil
	})
	if errors.Is(err, errorModel.ErrSuperseded) {
		return session, true, nil
	}
	return session, false, err
}

func (s *Service) register(sessionID, uploadID string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.inflight[sessionID]; ok {
		prev.cancel()
	}
	s.inflight[sessionID] = inflightUpload{id: uploadID, cancel: cancel}
}

func (s *Service) isCurrent(sessionID, uploadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[sessionID].id == uploadID
}

// release reports whether uploadID was still the current upload.
func (s *Service) release(sessionID, uploadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.inflight[sessionID]
	if !ok || cur.id != uploadID {
		return false
	}
	delete(s.inflight, sessionID)
	return true
}

func (s *Service) spool(sessionID string, file upload.File) (viewer.Info, error) {
	if s.spooler != nil {
		if _, err := s.spooler.Spool(sessionID, file); err != nil {
			return viewer.Info{}, errorModel.NewAppError("SPOOL", "Could not store the uploaded file", err)
		}
	}
	return viewer.Inspect(bytes.NewReader(file.Data), int64(len(file.Data)))
}

// Clear forgets the session: the stored state and the spooled file are removed
// and an upload in flight is cancelled. The next request sees a fresh session.
func (s *Service) Clear(ctx context.Context, sessionID string) (sessionModel.Session, error) {
	s.mu.Lock()
	if cur, ok := s.inflight[sessionID]; ok {
		cur.cancel()
		delete(s.inflight, sessionID)
	}
	s.mu.Unlock()

	unlock := s.lockSession(sessionID)
	defer unlock()

	s.store.DeleteSession(ctx, sessionID)
	if s.spooler != nil {
		if err := s.spooler.Remove(sessionID); err != nil {
			return sessionModel.New(sessionID), fmt.Errorf("remove document: %w", err)
		}
	}
	s.logger.FromContext(ctx).Info("session cleared")
	return sessionModel.New(sessionID), nil
}

// Document opens the spooled file of the session.
func (s *Service) Document(sessionID string) (*os.File, error) {
	if s.spooler == nil {
		return nil, errorModel.ErrNotFound
	}
	return s.spooler.Open(sessionID)
}
