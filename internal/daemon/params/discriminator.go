package params

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Locations of the extension descriptor files, relative to the project
// directory, the user home, and the installation directory.
const (
	projectExtensionsFile = ".forge/extensions.toml"
	userExtensionsFile    = ".forge/extensions.toml"
	installExtensionsFile = "conf/extensions.toml"
)

// ErrDigest indicates a filesystem or hashing failure while computing the
// extensions discriminator. The discriminator gates daemon compatibility,
// so the failure is fatal to initialization.
var ErrDigest = errors.New("cannot compute extensions discriminator")

// DigestError wraps a discriminator computation failure.
type DigestError struct {
	// Path is the descriptor file involved, if any.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DigestError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot compute extensions discriminator: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot compute extensions discriminator: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DigestError) Unwrap() error { return e.Err }

// Is implements error matching for DigestError.
func (e *DigestError) Is(target error) bool { return target == ErrDigest }

// ExtensionsDiscriminator computes the content hash distinguishing daemon
// instances by their effective extension configuration. For each existing
// descriptor file, in the fixed order project, user, installation, the
// file's absolute path string immediately followed by its raw content is
// fed into a SHA-1 digest; missing files are skipped. The hex digest
// changes exactly when the set of existing descriptors, their paths, or
// their contents change.
func ExtensionsDiscriminator(projectDir, userHome, home string) (string, error) {
	descriptors := []string{
		filepath.Join(projectDir, filepath.FromSlash(projectExtensionsFile)),
		filepath.Join(userHome, filepath.FromSlash(userExtensionsFile)),
		filepath.Join(home, filepath.FromSlash(installExtensionsFile)),
	}

	digest := sha1.New()
	for _, descriptor := range descriptors {
		abs, err := filepath.Abs(descriptor)
		if err != nil {
			return "", &DigestError{Path: descriptor, Err: err}
		}
		abs = filepath.Clean(abs)

		content, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", &DigestError{Path: abs, Err: err}
		}
		digest.Write([]byte(abs))
		digest.Write(content)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
