package service

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore validates and persists uploaded property images under a secure
// root outside any publicly served directory.  Every call is a
// self-contained validate-then-write transaction; there is no state beyond
// the configured root and limits.
type FileStore struct {
	root     string // absolute secure root, .../<base>/properties
	maxBytes int64
	allowed  map[string]bool // extensions without the dot, lowercase
}

// NewFileStore resolves the base directory to an absolute path, appends the
// properties subtree and creates it if absent.
func NewFileStore(baseDir string, maxBytes int64, exts []string) (*FileStore, error) {
	root, err := filepath.Abs(filepath.Join(baseDir, "properties"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &FileStore{root: root, maxBytes: maxBytes, allowed: allowed}, nil
}

// ValidateExtension reports whether the file name carries an allow-listed
// extension.  Case-insensitive.
func (f *FileStore) ValidateExtension(fileName string) bool {
	return f.allowed[extOf(fileName)]
}

// ValidateSize reports whether the declared size is positive and within the
// configured maximum.
func (f *FileStore) ValidateSize(size int64) bool {
	return size > 0 && size <= f.maxBytes
}

// ValidateContent reads the leading bytes of the stream and checks the
// file-format signature expected for the name's extension.  A mismatch is
// rejected regardless of the declared MIME type, which defeats simple
// content-type spoofing.  The stream is rewound before returning.
func (f *FileStore) ValidateContent(r io.ReadSeeker, fileName string) bool {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	head = head[:n]
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return matchesSignature(head, extOf(fileName))
}

// matchesSignature checks the magic bytes for the given extension.
func matchesSignature(head []byte, ext string) bool {
	switch ext {
	case "jpg", "jpeg":
		// JPEG: FF D8 FF
		return len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF
	case "png":
		// PNG: 89 50 4E 47
		return len(head) >= 4 && head[0] == 0x89 && head[1] == 0x50 && head[2] == 0x4E && head[3] == 0x47
	case "gif":
		// GIF: 47 49 46
		return len(head) >= 3 && head[0] == 0x47 && head[1] == 0x49 && head[2] == 0x46
	case "webp":
		// WebP: RIFF....WEBP
		return len(head) >= 12 &&
			head[0] == 'R' && head[1] == 'I' && head[2] == 'F' && head[3] == 'F' &&
			head[8] == 'W' && head[9] == 'E' && head[10] == 'B' && head[11] == 'P'
	}
	return false
}

// Save validates extension, size and content in that order, failing fast
// with a distinct message per violation, then writes the stream under
// prop_<propertyID>/ with a freshly generated opaque name.  The original
// file name is discarded.  On any write failure the partial file is removed
// and a StorageError wrapping the cause is returned.
func (f *FileStore) Save(r io.ReadSeeker, fileName string, size int64, propertyID uint64) (string, error) {
	if !f.ValidateExtension(fileName) {
		return "", validationf("invalid file extension: only image files are allowed")
	}
	if size <= 0 {
		return "", &ValidationError{Message: "file is empty"}
	}
	if size > f.maxBytes {
		return "", validationf("file size exceeds maximum allowed size of %dMB", f.maxBytes/(1<<20))
	}
	if !f.ValidateContent(r, fileName) {
		return "", &ValidationError{Message: "file content does not match declared file type"}
	}

	dir := filepath.Join(f.root, fmt.Sprintf("prop_%d", propertyID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &StorageError{Op: "create property directory", Err: err}
	}

	id := uuid.New()
	stored := hex.EncodeToString(id[:]) + "." + extOf(fileName)
	dest := filepath.Join(dir, stored)
	if !f.withinRoot(dest) {
		return "", &ValidationError{Message: "invalid file path"}
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &StorageError{Op: "create file", Err: err}
	}
	if _, err := io.Copy(out, io.LimitReader(r, f.maxBytes)); err != nil {
		out.Close()
		os.Remove(dest)
		return "", &StorageError{Op: "write file", Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", &StorageError{Op: "close file", Err: err}
	}
	return stored, nil
}

// Delete removes a stored file.  It accepts only names the store itself
// produces — 32 hex digits plus an allowed extension — and treats anything
// else as untrusted input.  Best-effort: all failures collapse to false.
func (f *FileStore) Delete(propertyID uint64, storedName string) bool {
	if !f.IsStoredName(storedName) {
		return false
	}
	dest := filepath.Join(f.root, fmt.Sprintf("prop_%d", propertyID), storedName)
	if !f.withinRoot(dest) {
		return false
	}
	if err := os.Remove(dest); err != nil {
		return false
	}
	return true
}

// Resolve maps a stored name back to its absolute path for serving, with
// the same name-shape and root checks as Delete.  Returns the empty string
// when the name is not one of ours or the file is missing.
func (f *FileStore) Resolve(propertyID uint64, storedName string) string {
	if !f.IsStoredName(storedName) {
		return ""
	}
	dest := filepath.Join(f.root, fmt.Sprintf("prop_%d", propertyID), storedName)
	if !f.withinRoot(dest) {
		return ""
	}
	if _, err := os.Stat(dest); err != nil {
		return ""
	}
	return dest
}

// IsStoredName reports whether a file name has the exact shape this store
// generates: 32 hex characters, a dot and an allowed extension.
func (f *FileStore) IsStoredName(name string) bool {
	base, ext, ok := strings.Cut(name, ".")
	if !ok || !f.allowed[strings.ToLower(ext)] {
		return false
	}
	if len(base) != 32 {
		return false
	}
	_, err := hex.DecodeString(base)
	return err == nil
}

// withinRoot canonicalises the path and verifies it stays under the secure
// root.
func (f *FileStore) withinRoot(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(abs, f.root+string(filepath.Separator))
}

// extOf returns the lowercase extension of a file name without the dot.
func extOf(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}
