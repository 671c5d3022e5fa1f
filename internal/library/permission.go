package library

import (
	"os"
)

// RequestPhotoLibraryAccess grants access iff the library directory exists,
// or can be created, and accepts new files. completion runs before return.
func (l *Library) RequestPhotoLibraryAccess(completion func(granted bool)) {
	err := l.ensureWritable()
	if err != nil {
		l.log.Warn("photo library not writable", "dir", l.dir, "error", err)
	}
	completion(err == nil)
}

func (l *Library) ensureWritable() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(l.dir, ".filterlab-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	closeErr := probe.Close()
	if err := os.Remove(name); err != nil {
		return err
	}
	return closeErr
}
