// Package storage keeps uploaded profile photos on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

const maxPhotoBytes = 2 << 20

var ErrUnsupportedType = errors.New("unsupported image type")
var ErrTooLarge = errors.New("file too large")

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Local stores files under Dir and serves them below URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

func NewLocal(dir, urlPrefix string) *Local {
	return &Local{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// SavePhoto writes r under a generated name keeping the extension of
// filename, and returns the public path.
func (l *Local) SavePhoto(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := xid.New().String() + ext
	path := filepath.Join(l.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, maxPhotoBytes+1))
	closeErr := f.Close()
	if err == nil && n > maxPhotoBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return l.URLPrefix + "/" + name, nil
}
