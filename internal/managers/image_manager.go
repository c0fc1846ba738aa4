package managers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// thumbnailSize bounds both dimensions of a stored profile picture.
const thumbnailSize = 125

// ImageMgr persists uploaded profile pictures under collision-resistant names.
type ImageMgr interface {
	SaveProfilePicture(file io.Reader, originalName string) (string, error)
}

// ImageManager is a concrete implementation of the ImageMgr interface.
// It downscales uploads to a bounded thumbnail and writes them to a shared directory,
// relying on a random name per write rather than locking for collision avoidance.
type ImageManager struct {
	Dir string
}

// NewImageManager creates the picture directory if needed and returns the manager.
func NewImageManager() (ImageMgr, error) {
	log.Info("Initializing image manager")

	dir := os.Getenv("PICTURE_DIR")
	if dir == "" {
		dir = "profile_pics"
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	return &ImageManager{Dir: dir}, nil
}

// SaveProfilePicture decodes the upload, downscales it to fit the thumbnail bounds and
// writes it under a random filename keeping the original extension. It returns the
// generated filename to be stored as the user's image reference.
func (im *ImageManager) SaveProfilePicture(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	thumbnail := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	filename := uuid.New().String() + ext
	if err := imaging.Save(thumbnail, filepath.Join(im.Dir, filename)); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}

	log.Debug("Saved profile picture ", filename)
	return filename, nil
}
