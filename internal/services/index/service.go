// Package index keeps the numbered folders index document in a vault up to
// date.
package index

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Paintersrp/numdex/internal/constants"
	"github.com/Paintersrp/numdex/internal/numbered"
	"github.com/Paintersrp/numdex/internal/pathutil"
	"github.com/Paintersrp/numdex/internal/vault"
)

// ErrClosed signals that the index service has been shut down and will not
// generate again.
var ErrClosed = errors.New("index service closed")

// Locker guards a generation run against other processes on the same vault.
type Locker interface {
	Lock() error
	Unlock() error
}

type Options struct {
	// IndexPath is the vault-relative document path.
	IndexPath       string
	TimestampFormat string
	Logger          logrus.FieldLogger
	Lock            Locker
}

// Stats captures lightweight instrumentation about generation runs.
type Stats struct {
	LastGenerated time.Time
	Runs          int
	Failures      int
	Folders       int
	LastError     error
}

// Service regenerates the index document for one vault. Generate calls are
// serialized, so at most one run is in flight at a time.
type Service struct {
	genMu sync.Mutex

	mu     sync.RWMutex
	stats  Stats
	closed bool

	store     vault.Store
	indexPath string
	layout    string
	log       logrus.FieldLogger
	lock      Locker

	now func() time.Time
}

// NewService constructs an index service over the given store.
func NewService(store vault.Store, opts Options) *Service {
	indexPath := pathutil.NormalizePath(strings.TrimSpace(opts.IndexPath))
	if indexPath == "" || indexPath == "." {
		indexPath = constants.IndexFileName
	}

	layout := opts.TimestampFormat
	if strings.TrimSpace(layout) == "" {
		layout = constants.DefaultTimestampFormat
	}

	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Service{
		store:     store,
		indexPath: indexPath,
		layout:    layout,
		log:       log,
		lock:      opts.Lock,
		now:       time.Now,
	}
}

// IndexPath returns the vault-relative path of the document.
func (s *Service) IndexPath() string {
	return s.indexPath
}

// Content computes the document text from the current vault listing
// without writing it.
func (s *Service) Content() (string, error) {
	content, _, err := s.content()
	return content, err
}

func (s *Service) content() (string, int, error) {
	root, err := s.store.Root()
	if err != nil {
		return "", 0, fmt.Errorf("list vault: %w", err)
	}

	folders := numbered.Collect(root)
	stamp := s.now().Format(s.layout)

	doc, err := numbered.Document(folders, s.store, stamp)
	if err != nil {
		return "", 0, err
	}

	return doc, len(folders), nil
}

// Generate rebuilds the document and writes it to the index path, creating
// the file if needed. A failed run leaves the previous document in place.
func (s *Service) Generate() error {
	if s.isClosed() {
		return ErrClosed
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return s.record(0, fmt.Errorf("acquire generation lock: %w", err))
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				s.log.WithError(err).Warn("Failed to release generation lock")
			}
		}()
	}

	doc, folders, err := s.content()
	if err != nil {
		return s.record(0, err)
	}

	if err := s.write(doc); err != nil {
		return s.record(0, err)
	}

	s.log.WithFields(logrus.Fields{
		"path":    s.indexPath,
		"folders": folders,
	}).Info("Numbered folders index updated")

	return s.record(folders, nil)
}

func (s *Service) write(doc string) error {
	kind, err := s.store.Kind(s.indexPath)
	if err != nil {
		return fmt.Errorf("stat index %q: %w", s.indexPath, err)
	}

	switch kind {
	case vault.KindFile:
		err = s.store.WriteFile(s.indexPath, []byte(doc))
	case vault.KindNone:
		err = s.store.CreateFile(s.indexPath, []byte(doc))
	default:
		err = vault.ErrIsFolder
	}
	if err != nil {
		return fmt.Errorf("write index %q: %w", s.indexPath, err)
	}

	return nil
}

func (s *Service) record(folders int, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Runs++
	s.stats.LastError = err
	if err != nil {
		s.stats.Failures++
		return err
	}

	s.stats.LastGenerated = s.now()
	s.stats.Folders = folders
	return nil
}

// Refresh runs Generate and logs a failure instead of returning it. It is
// meant for event-driven triggers, where nobody is waiting on the result.
func (s *Service) Refresh(trigger string) {
	err := s.Generate()
	if err == nil || errors.Is(err, ErrClosed) {
		return
	}

	s.log.WithFields(logrus.Fields{
		"trigger": trigger,
		"path":    s.indexPath,
	}).WithError(err).Error("Error generating numbered folders index")
}

// Relevant reports whether ev can change the document.
func Relevant(ev vault.Event) bool {
	switch ev.Op {
	case vault.FolderCreated, vault.FolderDeleted:
		return numbered.IsNumberedFolder(ev.Path)
	case vault.FolderRenamed:
		return numbered.IsNumberedFolder(ev.Path) || numbered.IsNumberedFolder(ev.OldPath)
	case vault.FolderNoteChanged:
		// Any folder that can become a node may gain or lose its link.
		return numbered.IsFolderNote(ev.Path) &&
			numbered.IsNumberedSegment(pathutil.Base(pathutil.Parent(ev.Path)))
	default:
		return false
	}
}

// HandleEvent regenerates the document if ev is relevant and reports
// whether it did.
func (s *Service) HandleEvent(ev vault.Event) bool {
	if !Relevant(ev) {
		s.log.WithField("event", ev.String()).Debug("Ignoring vault event")
		return false
	}

	s.Refresh(ev.String())
	return true
}

// Stats returns instrumentation about generation runs.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats
}

// Close stops the service. Later Generate calls return ErrClosed.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *Service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}
