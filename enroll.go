package rollcall

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/abihf/rollcall/capture"
	"github.com/abihf/rollcall/facerec"
)

// ErrInvalidName rejects names that can not be stored as <name>.jpg.
var ErrInvalidName = errors.New("invalid identity name")

// ErrEnrollCancelled is returned when the operator closes the preview
// without taking a picture.
var ErrEnrollCancelled = errors.New("enrollment cancelled")

// ValidateName checks that name maps back to itself through the gallery's
// file naming.
func ValidateName(name string) error {
	if name == "" || strings.TrimSpace(name) != name {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if strings.ContainsAny(name, `./\`) || filepath.Base(name) != name {
		return errors.Wrapf(ErrInvalidName, "%q must not contain dots or path separators", name)
	}
	return nil
}

// Enroll takes a picture of one person and stores it in the reference
// directory as <name>.jpg. Every other reference image that loads under the
// same name (Carol.png, Carol.old.jpeg) is deleted.
func (a *App) Enroll(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		a.notify(KindError, "Invalid name %q.", name)
		return "", err
	}
	if err := os.MkdirAll(a.ImagesDir, 0o755); err != nil {
		a.notify(KindError, "Could not create %s.", a.ImagesDir)
		return "", errors.Wrap(err, "Can not create image directory")
	}

	path := filepath.Join(a.ImagesDir, name+".jpg")
	out := &Outcome{}
	err := a.preview(ctx, out, func(frame *capture.Frame) error {
		faces, err := a.Provider.Encode(frame.Data)
		if err != nil {
			a.notify(KindError, "Face recognition failed.")
			return errors.Wrap(err, "Can not encode picture")
		}
		switch len(faces) {
		case 0:
			a.notify(KindInfo, "No faces detected in the image.")
			return facerec.ErrNoFace
		case 1:
		default:
			a.notify(KindInfo, "More than one face in the image.")
			return facerec.ErrMultipleFaces
		}

		if err := os.WriteFile(path, frame.Data, 0o644); err != nil {
			a.notify(KindError, "Could not save picture.")
			return errors.Wrap(err, "Can not write picture")
		}
		if err := a.removeOtherPictures(name, path); err != nil {
			a.notify(KindError, "Could not remove the previous picture of %s.", name)
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if out.State == StateCancelled {
		return "", ErrEnrollCancelled
	}

	a.log().Info().Str("name", name).Str("file", path).Msg("Identity enrolled")
	a.notify(KindSuccess, "Enrolled %s", name)
	return path, nil
}

func (a *App) removeOtherPictures(name, keep string) error {
	entries, err := os.ReadDir(a.ImagesDir)
	if err != nil {
		return errors.Wrap(err, "Can not read image directory")
	}
	for _, e := range entries {
		if e.IsDir() || !facerec.IsImageFile(e.Name()) || facerec.IdentityName(e.Name()) != name {
			continue
		}
		path := filepath.Join(a.ImagesDir, e.Name())
		if path == keep {
			continue
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "Can not remove %s", path)
		}
		a.log().Info().Str("file", path).Msg("Removed previous picture")
	}
	return nil
}
