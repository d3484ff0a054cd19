//go:build windows

package fsutil

import "golang.org/x/sys/windows"

// EffectiveMode probes whether the current user can read, write, and
// execute (traverse, for a directory) path. Windows has no access()
// syscall; per spec.md §9's design note, this is implemented as a
// single DACL-backed probe rather than porting a full ACL↔POSIX-mode
// translator. The probe opens path with the desired access mask via
// CreateFile and treats a successful open (immediately closed) as
// permission granted — the same technique the DACL sits behind, without
// duplicating Windows' own security-descriptor evaluation.
func EffectiveMode(path string) (readable, writable, executable bool, err error) {
	readable = canOpen(path, windows.GENERIC_READ)
	writable = canOpen(path, windows.GENERIC_WRITE)
	// There's no GENERIC_EXECUTE concept for directory traversal; probe
	// with a FILE_READ_ATTRIBUTES|FILE_TRAVERSE mask, which Windows
	// denies when the caller can't traverse the path.
	executable = canOpen(path, windows.FILE_READ_ATTRIBUTES|windows.FILE_TRAVERSE)
	return readable, writable, executable, nil
}

func canOpen(path string, access uint32) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	h, err := windows.CreateFile(
		p,
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return false
	}
	_ = windows.CloseHandle(h)
	return true
}
