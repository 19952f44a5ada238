package works

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"workd/internal/providers"
)

// UploadResult reports the stored filename and size back to the caller.
type UploadResult struct {
	Filename string `json:"filename"`
	Size     int64  `json:"file_size"`
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// SaveUpload streams an uploaded file into a work's directory and records it
// in the manifest under the work's lock. The body is copied to a temp file in
// bounded chunks and aborted once it exceeds the configured size cap; a
// failed upload never leaves a partial file behind. Filenames are
// auto-numbered per type (image2.png, video1.mp4, demo_pc.zip).
func (s *Store) SaveUpload(workID, fileType, platform, originalName string, src io.Reader) (*UploadResult, error) {
	if !validateName(workID) {
		return nil, ErrInvalidID
	}
	ext := extensionOf(originalName)
	if _, ok := s.allowedExts[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", ErrBadExtension, ext)
	}

	defer s.locks.lock(workID).Unlock()

	rec, err := s.Load(workID)
	if err != nil {
		return nil, err
	}

	var saveDir, filename string
	switch fileType {
	case "image":
		saveDir = filepath.Join(s.workDir(workID), "image")
		filename = fmt.Sprintf("image%d.%s", len(rec.Screenshots)+1, ext)
	case "video":
		saveDir = filepath.Join(s.workDir(workID), "video")
		filename = fmt.Sprintf("video%d.%s", len(rec.Videos)+1, ext)
	case "platform":
		if platform == "" {
			return nil, ErrMissingPlatform
		}
		if !validateName(platform) {
			return nil, ErrInvalidName
		}
		saveDir = filepath.Join(s.workDir(workID), "platform", platform)
		filename = fmt.Sprintf("%s_%s.%s", workID, strings.ToLower(platform), ext)
	default:
		return nil, ErrBadFileType
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, err
	}

	size, err := s.streamToFile(filepath.Join(saveDir, filename), src)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case "image":
		if !contains(rec.Screenshots, filename) {
			rec.Screenshots = append(rec.Screenshots, filename)
		}
		if rec.Cover == "" {
			rec.Cover = filename
		}
	case "video":
		if !contains(rec.Videos, filename) {
			rec.Videos = append(rec.Videos, filename)
		}
	case "platform":
		if !contains(rec.Files[platform], filename) {
			rec.Files[platform] = append(rec.Files[platform], filename)
		}
	}
	rec.UpdatedAt = nowStamp()

	if err := s.Save(workID, rec); err != nil {
		return nil, err
	}
	s.logger.Infof(providers.TypePost, "Stored %s upload %s/%s (%d bytes)", fileType, workID, filename, size)
	return &UploadResult{Filename: filename, Size: size}, nil
}

// streamToFile copies src into a temp file next to the destination and
// renames it into place. Exceeding the size cap aborts the copy and deletes
// the partial temp file.
func (s *Store) streamToFile(dst string, src io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	fail := func(err error) (int64, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	written, err := io.Copy(tmp, io.LimitReader(src, s.maxUpload+1))
	if err != nil {
		return fail(err)
	}
	if written > s.maxUpload {
		return fail(fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxUpload))
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	return written, nil
}

// DeleteFile removes a stored file from disk and from the manifest. When the
// deleted image was the cover, the cover falls back to the first remaining
// screenshot.
func (s *Store) DeleteFile(workID, fileType, platform, filename string) error {
	if !validateName(workID) {
		return ErrInvalidID
	}
	if !validateName(filename) {
		return ErrInvalidName
	}

	defer s.locks.lock(workID).Unlock()

	rec, err := s.Load(workID)
	if err != nil {
		return err
	}

	var path string
	switch fileType {
	case "image":
		path = filepath.Join(s.workDir(workID), "image", filename)
	case "video":
		path = filepath.Join(s.workDir(workID), "video", filename)
	case "platform":
		if platform == "" {
			return ErrMissingPlatform
		}
		if !validateName(platform) {
			return ErrInvalidName
		}
		path = filepath.Join(s.workDir(workID), "platform", platform, filename)
	default:
		return ErrBadFileType
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	switch fileType {
	case "image":
		rec.Screenshots = remove(rec.Screenshots, filename)
		if rec.Cover == filename {
			rec.Cover = ""
			if len(rec.Screenshots) > 0 {
				rec.Cover = rec.Screenshots[0]
			}
		}
	case "video":
		rec.Videos = remove(rec.Videos, filename)
	case "platform":
		rec.Files[platform] = remove(rec.Files[platform], filename)
	}
	rec.UpdatedAt = nowStamp()

	return s.Save(workID, rec)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func remove(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
