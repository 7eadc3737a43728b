package params

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// extFixture lays out the three descriptor locations without any files.
func extFixture(t *testing.T) (projectDir, userHome, home string) {
	t.Helper()
	root := t.TempDir()
	projectDir = filepath.Join(root, "project")
	userHome = filepath.Join(root, "userhome")
	home = filepath.Join(root, "install")

	for _, dir := range []string{
		filepath.Join(projectDir, ".forge"),
		filepath.Join(userHome, ".forge"),
		filepath.Join(home, "conf"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return projectDir, userHome, home
}

func digest(t *testing.T, projectDir, userHome, home string) string {
	t.Helper()
	d, err := ExtensionsDiscriminator(projectDir, userHome, home)
	if err != nil {
		t.Fatalf("ExtensionsDiscriminator() error = %v", err)
	}
	return d
}

func TestExtensionsDiscriminator_Deterministic(t *testing.T) {
	projectDir, userHome, home := extFixture(t)
	write(t, filepath.Join(projectDir, ".forge", "extensions.toml"), "[[extension]]\nid = \"a\"\n")

	first := digest(t, projectDir, userHome, home)
	second := digest(t, projectDir, userHome, home)
	if first != second {
		t.Errorf("digest not deterministic: %q then %q", first, second)
	}
	if len(first) != 40 {
		t.Errorf("digest = %q, want 40 hex characters", first)
	}
}

func TestExtensionsDiscriminator_MissingFilesSkipped(t *testing.T) {
	projectDir, userHome, home := extFixture(t)

	// No descriptors at all still produces a stable digest.
	first := digest(t, projectDir, userHome, home)
	second := digest(t, projectDir, userHome, home)
	if first != second {
		t.Errorf("empty-configuration digest unstable: %q then %q", first, second)
	}
}

func TestExtensionsDiscriminator_ContentChangesDigest(t *testing.T) {
	projectDir, userHome, home := extFixture(t)
	path := filepath.Join(projectDir, ".forge", "extensions.toml")

	write(t, path, "[[extension]]\nid = \"a\"\n")
	before := digest(t, projectDir, userHome, home)

	write(t, path, "[[extension]]\nid = \"b\"\n")
	after := digest(t, projectDir, userHome, home)

	if before == after {
		t.Error("digest unchanged after descriptor content changed")
	}
}

func TestExtensionsDiscriminator_RemovalChangesDigest(t *testing.T) {
	projectDir, userHome, home := extFixture(t)
	path := filepath.Join(userHome, ".forge", "extensions.toml")

	write(t, path, "[[extension]]\nid = \"a\"\n")
	before := digest(t, projectDir, userHome, home)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	after := digest(t, projectDir, userHome, home)

	if before == after {
		t.Error("digest unchanged after descriptor removed")
	}
}

func TestExtensionsDiscriminator_LocationMatters(t *testing.T) {
	projectDir, userHome, home := extFixture(t)
	content := "[[extension]]\nid = \"a\"\n"

	write(t, filepath.Join(projectDir, ".forge", "extensions.toml"), content)
	inProject := digest(t, projectDir, userHome, home)

	if err := os.Remove(filepath.Join(projectDir, ".forge", "extensions.toml")); err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(userHome, ".forge", "extensions.toml"), content)
	inUserHome := digest(t, projectDir, userHome, home)

	// The absolute path participates in the hash, so identical content at
	// a different location is a different configuration.
	if inProject == inUserHome {
		t.Error("digest identical for the same content at different locations")
	}
}

func TestExtensionsDiscriminator_UnreadableDescriptorIsFatal(t *testing.T) {
	projectDir, userHome, home := extFixture(t)

	// A directory at the descriptor path cannot be read as a file.
	if err := os.MkdirAll(filepath.Join(projectDir, ".forge", "extensions.toml"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := ExtensionsDiscriminator(projectDir, userHome, home)
	if !errors.Is(err, ErrDigest) {
		t.Fatalf("ExtensionsDiscriminator() error = %v, want ErrDigest", err)
	}
	var digestErr *DigestError
	if !errors.As(err, &digestErr) {
		t.Fatalf("error = %T, want *DigestError", err)
	}
	if digestErr.Path == "" {
		t.Error("DigestError carries no path")
	}
}
