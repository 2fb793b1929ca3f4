package config

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const filename = "config.toml"

// DefaultBaseDirectoryPath is where git-xl stores configuration and
// data. It defaults to $GITXL_BASE if it is set, otherwise to git-xl
// within the user configuration directory. Commands override this via
// the --base flag.
var DefaultBaseDirectoryPath string

func init() {
	if base := os.Getenv("GITXL_BASE"); base != "" {
		DefaultBaseDirectoryPath = base
	} else if dir, err := os.UserConfigDir(); err == nil {
		DefaultBaseDirectoryPath = filepath.Join(dir, "git-xl")
	} else {
		DefaultBaseDirectoryPath = os.ExpandEnv("$HOME/.git-xl")
	}
}

// Matching algorithms.
const (
	AlgorithmPatience = "patience"
	AlgorithmDifflib  = "difflib"
	AlgorithmMyers    = "myers"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Cache storage types.
const (
	StorageDisk   = "disk"
	StorageMemory = "memory"
	StorageNull   = "null"
	StorageS3     = "s3"
)

type C struct {
	// Lines of context around changes in unified diffs.
	ContextLines int `toml:"context-lines"`

	// One of the Algorithm* constants.
	Algorithm string `toml:"algorithm"`

	// Ceiling for the patience algorithm's nested refinements.
	MaxRecursion int `toml:"max-recursion"`

	// Verify matching blocks after each alignment. Slow, for debugging.
	CheckConsistency bool `toml:"check-consistency"`

	// One of the Color* constants.
	Color string `toml:"color"`

	// Modules merged concurrently.
	Jobs int `toml:"jobs"`

	// Command printing the VBA modules of the workbook given as last
	// argument, in olevba's JSON format.
	ExtractCommand []string `toml:"extract-command"`

	// Command applying a changeset, read as JSON on standard input, to the
	// workbook given as last argument. Without it, merges that change
	// modules cannot be saved.
	WriteCommand []string `toml:"write-command"`

	Cache Cache `toml:"cache"`

	// Directory holding the configuration file and other files.
	// Other directories and files are derived from this.
	base string
}

// Cache configures where extracted modules are kept across invocations.
type Cache struct {
	// One of the Storage* constants.
	Storage string `toml:"storage"`

	// Only makes sense if the storage type is "disk".
	// If the path is relative, it will be assumed relative to the base dir.
	Directory string `toml:"directory"`

	// These only make sense if the storage type is "s3".
	// Credentials come from the named profile of the shared credentials file.
	S3Region  string `toml:"s3-region"`
	S3Bucket  string `toml:"s3-bucket"`
	S3Profile string `toml:"s3-profile"`

	// Hex-encoded AES key, 16, 24 or 32 bytes long. If set, cached
	// modules are encrypted, whatever the storage.
	EncryptionKey string `toml:"encryption-key"`

	encryptionKey []byte
}

// Default returns the configuration used when the base directory holds no
// configuration file.
func Default(base string) *C {
	return &C{
		ContextLines:   3,
		Algorithm:      AlgorithmPatience,
		MaxRecursion:   10,
		Color:          ColorAuto,
		Jobs:           4,
		ExtractCommand: []string{"olevba", "--json"},
		Cache: Cache{
			Storage:   StorageDisk,
			Directory: "cache",
		},
		base: base,
	}
}

// Load loads the configuration from the file called "config.toml" in the
// provided base directory. Keys missing from the file keep their defaults.
func Load(base string) (*C, error) {
	const method = "Load"
	c := Default(base)
	path := filepath.Join(base, filename)
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, errorf(method, "%w", err)
	}
	if fi.Mode()&0077 != 0 {
		return nil, errorf(method, "%q: mode is %#o, want at most %#o",
			path, fi.Mode().Perm(), os.FileMode(0600))
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errorf(method, "%q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errorf(method, "%q: unknown key %q", path, undecoded[0].String())
	}
	if err := c.validate(); err != nil {
		return nil, errorf(method, "%q: %w", path, err)
	}
	return c, nil
}

func (c *C) validate() error {
	switch c.Algorithm {
	case AlgorithmPatience, AlgorithmDifflib, AlgorithmMyers:
	default:
		return errors.New("unknown algorithm " + c.Algorithm)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("unknown color mode " + c.Color)
	}
	switch c.Cache.Storage {
	case StorageDisk, StorageMemory, StorageNull, StorageS3:
	default:
		return errors.New("unknown cache storage " + c.Cache.Storage)
	}
	key, err := hex.DecodeString(c.Cache.EncryptionKey)
	if err != nil {
		return fmt.Errorf("encryption-key: %w", err)
	}
	switch len(key) {
	case 0:
	case 16, 24, 32:
		c.Cache.encryptionKey = key
	default:
		return fmt.Errorf("encryption-key: got %d bytes, want 16, 24 or 32", len(key))
	}
	if c.ContextLines < 0 {
		return errors.New("negative context-lines")
	}
	if c.Jobs < 1 {
		return errors.New("jobs must be at least 1")
	}
	if len(c.ExtractCommand) == 0 {
		return errors.New("empty extract-command")
	}
	return nil
}

// Base returns the base directory the configuration was loaded from.
func (c *C) Base() string {
	return c.base
}

func (c *C) CacheDirectoryPath() string {
	if c.Cache.Directory == "" {
		return filepath.Join(c.base, "cache")
	}
	if filepath.IsAbs(c.Cache.Directory) {
		return c.Cache.Directory
	}
	return filepath.Clean(filepath.Join(c.base, c.Cache.Directory))
}

// EncryptionKeyBytes returns the decoded cache encryption key, empty if
// cached modules are stored in the clear.
func (c *C) EncryptionKeyBytes() []byte {
	return c.Cache.encryptionKey
}

// ConfigFilePath returns the path of the configuration file, which need not
// exist.
func (c *C) ConfigFilePath() string {
	return filepath.Join(c.base, filename)
}

// Initialize generates an initial configuration at the given directory.
func Initialize(baseDir string) error {
	const method = "Initialize"
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return errorf(method, "%q: could not mkdir: %w", baseDir, err)
	}
	path := filepath.Join(baseDir, filename)
	_, err := os.Stat(path)
	if err == nil {
		return errorf(method, "%q: already exists", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return errorf(method, "%q: could not determine if it exists: %w", path, err)
	}
	c := Default(baseDir)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "context-lines = %d\n", c.ContextLines)
	fmt.Fprintf(&buf, "# One of %q, %q or %q.\n", AlgorithmPatience, AlgorithmDifflib, AlgorithmMyers)
	fmt.Fprintf(&buf, "algorithm = %q\n", c.Algorithm)
	fmt.Fprintf(&buf, "max-recursion = %d\n", c.MaxRecursion)
	fmt.Fprintf(&buf, "check-consistency = %t\n", c.CheckConsistency)
	fmt.Fprintf(&buf, "color = %q\n", c.Color)
	fmt.Fprintf(&buf, "jobs = %d\n", c.Jobs)
	fmt.Fprintf(&buf, "extract-command = [%q, %q]\n", c.ExtractCommand[0], c.ExtractCommand[1])
	buf.WriteString("# write-command = [\"xlwriter\"]\n")
	buf.WriteString("\n[cache]\n")
	fmt.Fprintf(&buf, "# One of %q, %q, %q or %q.\n", StorageDisk, StorageMemory, StorageNull, StorageS3)
	fmt.Fprintf(&buf, "storage = %q\n", c.Cache.Storage)
	fmt.Fprintf(&buf, "directory = %q\n", c.Cache.Directory)
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return errorf(method, "could not generate encryption key: %w", err)
	}
	buf.WriteString("# Uncomment to encrypt cached modules, e.g., in a shared bucket.\n")
	fmt.Fprintf(&buf, "# encryption-key = \"%02x\"\n", key)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return errorf(method, "%q: %w", path, err)
	}
	return nil
}
