package storage

import (
	"github.com/sirupsen/logrus"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

const mountCheckPeriod = 500 * time.Millisecond

// Media gives read access to the images of the removable media.
// Identifiers are path-like strings ("/bios.jpg") relative to the media root.
type Media struct {
	root string
	fsys fs.FS
}

func NewMedia(root string) *Media {
	return &Media{
		root: root,
		fsys: os.DirFS(root),
	}
}

func NewMediaFS(fsys fs.FS) *Media {
	return &Media{
		root: "<fs>",
		fsys: fsys,
	}
}

func (m *Media) Root() string {
	return m.root
}

// Open returns a stream on the image named by identifier
func (m *Media) Open(identifier string) (io.ReadCloser, error) {
	name := strings.TrimPrefix(identifier, "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: identifier, Err: fs.ErrInvalid}
	}
	return m.fsys.Open(name)
}

// IsMounted reports whether the media root can be read
func (m *Media) IsMounted() bool {
	_, err := fs.Stat(m.fsys, ".")
	return err == nil
}

// WaitMounted waits up to timeout for the media root to become readable.
func (m *Media) WaitMounted(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !m.IsMounted() {
		if !time.Now().Before(deadline) {
			logrus.Warnf("Media %s is not mounted", m.root)
			return false
		}
		logrus.Infof("Waiting for media %s ...", m.root)
		time.Sleep(mountCheckPeriod)
	}
	return true
}
