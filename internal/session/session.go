// Package session holds the currently loaded keybinding file, its projected
// keybinds and the edits made to them. The CLI commands, the editor and the
// file watcher share one Session.
package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"inikeys/internal/errors"
	"inikeys/internal/ini"
	"inikeys/internal/keybind"
	"inikeys/internal/keycode"
	"inikeys/internal/log"
)

// DefaultBackupSuffix is appended to the file name of the backup copy.
const DefaultBackupSuffix = ".bak"

// writeOut is replaced in tests to act between export and write.
var writeOut = os.WriteFile

// Session is safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	doc          *ini.Document
	binds        []keybind.Keybind
	name         string
	path         string
	warning      error
	dirty        bool
	backupSuffix string
	// revision counts loads and edits; a save only marks the session clean
	// when nothing changed while it was writing.
	revision uint64
}

func New() *Session {
	return &Session{backupSuffix: DefaultBackupSuffix}
}

// SetBackupSuffix changes the suffix used by SaveFile for backup copies.
func (s *Session) SetBackupSuffix(suffix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backupSuffix = suffix
}

// Load parses content and replaces the current document. When the content
// holds no binding lines the document is still loaded and a NoBindings
// warning is returned and kept in Warning.
func (s *Session) Load(content, name string) error {
	return s.load(content, name, "")
}

// load replaces the document. A non-empty path replaces the remembered path
// under the same lock.
func (s *Session) load(content, name, path string) error {
	doc := ini.Parse(content)
	binds := keybind.Project(doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.binds = binds
	s.name = name
	if path != "" {
		s.path = path
	}
	s.dirty = false
	s.warning = nil
	s.revision++

	log.LogWithFields(
		log.F("document", name),
		log.F("lines", doc.Len()),
		log.F("bindings", len(binds)),
	).Debug("Loaded document")

	if !doc.HasBindings() {
		s.warning = errors.NewDocumentError("no keybindings found", name, errors.NoBindings, nil)
		log.LogWithError(s.warning).Warn("Document has no bindings")
		return s.warning
	}
	return nil
}

// LoadFile reads path and loads it. The file name becomes the document name.
func (s *Session) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return errors.NewFileError("error reading keybinding file", path, kind, err)
	}

	return s.load(string(data), filepath.Base(path), path)
}

// Export serializes the document with the current keybinds applied.
func (s *Session) Export() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return "", errors.ErrNotLoaded
	}
	return keybind.Serialize(s.doc, s.binds), nil
}

// SaveFile exports the document to path. With backup set, the previous
// content of path, if any, is first copied next to it with the backup suffix.
// An empty path writes back to the file the document was loaded from.
//
// Edits made while the file is being written are not in it, so they leave the
// session dirty.
func (s *Session) SaveFile(path string, backup bool) error {
	s.mu.RLock()
	if s.doc == nil {
		s.mu.RUnlock()
		return errors.ErrNotLoaded
	}
	out := keybind.Serialize(s.doc, s.binds)
	rev := s.revision
	if path == "" {
		path = s.path
	}
	suffix := s.backupSuffix
	s.mu.RUnlock()

	if path == "" {
		return errors.NewFileError("no output path", "", errors.FileOperationFailed, nil)
	}

	if backup {
		if err := createBackup(path, suffix); err != nil {
			return err
		}
	}

	if err := writeOut(path, []byte(out), 0644); err != nil {
		return errors.NewFileError("error writing keybinding file", path, errors.FileOperationFailed, err)
	}

	s.mu.Lock()
	if s.revision == rev {
		s.dirty = false
	}
	s.mu.Unlock()

	log.LogWithFields(log.F("path", path), log.F("backup", backup)).Info("Saved keybindings")
	return nil
}

// createBackup copies path to path+suffix. A missing source is not an error.
func createBackup(path, suffix string) error {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewFileError("backup failed", path, errors.FileAccessDenied, err)
	}
	defer src.Close()

	backupPath := path + suffix
	dst, err := os.Create(backupPath)
	if err != nil {
		return errors.NewFileError("backup failed", backupPath, errors.FileOperationFailed, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.NewFileError("backup failed", backupPath, errors.FileOperationFailed, err)
	}

	log.Debugf("Created backup: %s", backupPath)
	return nil
}

// Update applies fn to the keybind with the given index. When the index is
// declared more than once the last declaration is the one edited.
func (s *Session) Update(index int, fn func(*keybind.Keybind)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return errors.ErrNotLoaded
	}

	i := keybind.Find(s.binds, index)
	if i < 0 {
		return errors.NewBindingError("binding not found", index, errors.BindingNotFound, nil)
	}

	edited := s.binds[i].Clone()
	fn(&edited)

	if err := validate(edited, index); err != nil {
		return err
	}

	edited.KeyName = keycode.CodeToName(edited.Key)
	s.binds[i] = edited
	s.dirty = true
	s.revision++

	log.LogWithFields(
		log.F("binding", index),
		log.F("chord", edited.Chord()),
		log.F("command", edited.CommandName()),
	).Debug("Updated binding")
	return nil
}

func validate(kb keybind.Keybind, index int) error {
	if kb.Index != index {
		return errors.NewBindingError(
			"binding index cannot change", index, errors.InvalidBinding,
			fmt.Errorf("got index %d", kb.Index),
		)
	}
	if kb.Key < keycode.Unbound {
		return errors.NewBindingError(
			"invalid key code", index, errors.InvalidBinding,
			fmt.Errorf("key %d", kb.Key),
		)
	}
	return nil
}

// Bindings returns a copy of the current keybinds.
func (s *Session) Bindings() []keybind.Keybind {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]keybind.Keybind, len(s.binds))
	for i, kb := range s.binds {
		out[i] = kb.Clone()
	}
	return out
}

// Document returns the loaded document, or nil.
func (s *Session) Document() *ini.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Session) FileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Path returns the path given to LoadFile, or "" for content loaded directly.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Loaded reports whether a document is loaded.
func (s *Session) Loaded() bool {
	return s.Document() != nil
}

// Warning returns the soft warning from the last load, if any.
func (s *Session) Warning() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warning
}

// Dirty reports whether there are edits not yet saved.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Reset drops the loaded document and all edits.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = nil
	s.binds = nil
	s.name = ""
	s.path = ""
	s.warning = nil
	s.dirty = false
	s.revision++
}
