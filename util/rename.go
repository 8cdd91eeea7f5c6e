package util

import (
	"strings"
)

// Rename changes the display name of the entry called oldName. Only the
// name changes; the entry keeps its handle, length and backing file.
// Renaming onto another entry's name fails with ErrNameExists.
func (t *PartTable) Rename(oldName, newName string) error {
	if err := validName(newName); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode == ModeJoin {
		if oldName != t.wholeName {
			return ErrNotFound
		}
		t.wholeName = newName
		logger.Debug("whole file renamed", "from", oldName, "to", newName)
		return nil
	}

	i, ok := t.byName[oldName]
	if !ok {
		return ErrNotFound
	}
	if oldName == newName {
		return nil
	}
	if _, taken := t.byName[newName]; taken {
		return ErrNameExists
	}
	delete(t.byName, oldName)
	t.byName[newName] = i
	t.parts[i].Name = newName
	logger.Debug("part renamed", "ordinal", i, "from", oldName, "to", newName)
	return nil
}

// maxNameLen is NAME_MAX on Linux.
const maxNameLen = 255

func validName(name string) error {
	if len(name) > maxNameLen || name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return ErrInvalidName
	}
	return nil
}
