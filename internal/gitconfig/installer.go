package gitconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Extensions lists the Excel file formats git-xl handles.
var Extensions = []string{"xls", "xlt", "xla", "xlam", "xlsx", "xlsm", "xlsb", "xltx", "xltm"}

func patterns(format string) []string {
	lines := make([]string, len(Extensions))
	for i, ext := range Extensions {
		lines[i] = strings.ReplaceAll(format, "EXT", ext)
	}
	return lines
}

var (
	attributesDiff  = patterns("*.EXT diff=xl")
	attributesMerge = patterns("*.EXT merge=xl")
	// Excel locks open workbooks with files named ~$<name>.
	ignorePatterns = patterns("~$*.EXT")
)

// Mode selects which Git configuration the Installer edits.
type Mode int

const (
	Global Mode = iota
	Local
)

func (m Mode) String() string {
	if m == Local {
		return "local"
	}
	return "global"
}

const mergeDriverName = "xl merge driver for Excel workbooks"

// Installer sets up and tears down the Git configuration for git-xl.
type Installer struct {
	mode Mode
	// Repository directory in local mode, working directory otherwise.
	dir string
	git Runner

	diffCommand  string
	mergeCommand string

	attributesPath string
	ignorePath     string
}

// NewInstaller prepares an installer running the executable at exe as
// drivers. In local mode, dir must be within a Git repository.
func NewInstaller(ctx context.Context, mode Mode, dir, exe string, git Runner) (*Installer, error) {
	const method = "NewInstaller"
	if mode == Local && !IsGitRepository(ctx, git, dir) {
		return nil, errorf(method, "%q: not a Git repository", dir)
	}
	exe = quote(filepath.ToSlash(exe))
	i := &Installer{
		mode:         mode,
		dir:          dir,
		git:          git,
		diffCommand:  exe + " diff",
		mergeCommand: exe + " merge %P %O %A %B",
	}
	var err error
	if i.attributesPath, err = i.filePath(ctx, "core.attributesfile", ".gitattributes"); err != nil {
		return nil, err
	}
	if i.ignorePath, err = i.filePath(ctx, "core.excludesfile", ".gitignore"); err != nil {
		return nil, err
	}
	return i, nil
}

// quote protects paths with blanks from the shell Git runs drivers with.
func quote(s string) string {
	if !strings.ContainsAny(s, " \t'") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (i *Installer) AttributesPath() string {
	return i.attributesPath
}

func (i *Installer) IgnorePath() string {
	return i.ignorePath
}

func (i *Installer) config(ctx context.Context, args ...string) (string, error) {
	full := []string{"config"}
	if i.mode == Global {
		full = append(full, "--global")
	}
	return i.git(ctx, i.dir, append(full, args...)...)
}

// get returns the value of key, empty if unset.
func (i *Installer) get(ctx context.Context, key string) string {
	out, err := i.config(ctx, "--get", key)
	if err != nil {
		// Git fails when the key is not set.
		return ""
	}
	return firstLine(out)
}

// filePath locates a file holding attributes or ignore patterns: in the
// repository in local mode, where the Git configuration points to or next
// to the global Git configuration otherwise.
func (i *Installer) filePath(ctx context.Context, key, name string) (string, error) {
	if i.mode == Local {
		return filepath.Join(i.dir, name), nil
	}
	if configured := i.get(ctx, key); configured != "" {
		return expandHome(configured)
	}
	dir, err := i.globalConfigDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// globalConfigDir returns the directory of the global Git configuration
// file, by looking at the origin of its first entry.
func (i *Installer) globalConfigDir(ctx context.Context) (string, error) {
	out, err := i.git(ctx, i.dir, "config", "--global", "--list", "--show-origin")
	if err == nil {
		if origin, _, ok := strings.Cut(firstLine(out), "\t"); ok && strings.HasPrefix(origin, "file:") {
			return filepath.Dir(strings.TrimPrefix(origin, "file:")), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errorf("Installer.globalConfigDir", "%w", err)
	}
	return home, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errorf("expandHome", "%w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Install registers the drivers, routes workbooks to them and ignores
// Excel's lock files.
func (i *Installer) Install(ctx context.Context) error {
	const method = "Installer.Install"
	for _, kv := range [][2]string{
		{"diff.xl.command", i.diffCommand},
		{"merge.xl.name", mergeDriverName},
		{"merge.xl.driver", i.mergeCommand},
	} {
		if _, err := i.config(ctx, kv[0], kv[1]); err != nil {
			return errorf(method, "%w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(i.attributesPath), 0755); err != nil {
		return errorf(method, "%w", err)
	}
	if _, err := AddLines(i.attributesPath, append(append([]string(nil), attributesDiff...), attributesMerge...)); err != nil {
		return errorf(method, "%w", err)
	}
	if err := os.MkdirAll(filepath.Dir(i.ignorePath), 0755); err != nil {
		return errorf(method, "%w", err)
	}
	if _, err := AddLines(i.ignorePath, ignorePatterns); err != nil {
		return errorf(method, "%w", err)
	}
	if i.mode == Global {
		if _, err := i.config(ctx, "core.attributesfile", i.attributesPath); err != nil {
			return errorf(method, "%w", err)
		}
		if _, err := i.config(ctx, "core.excludesfile", i.ignorePath); err != nil {
			return errorf(method, "%w", err)
		}
	}
	log.WithFields(log.Fields{
		"mode":       i.mode,
		"attributes": i.attributesPath,
		"ignore":     i.ignorePath,
	}).Info("Installed")
	return nil
}

// Uninstall undoes Install, deleting the attributes and ignore files if
// nothing else remains in them.
func (i *Installer) Uninstall(ctx context.Context) error {
	const method = "Installer.Uninstall"
	// Git fails listing a missing configuration file, which has nothing
	// to remove anyway.
	list, _ := i.config(ctx, "--list")
	for _, section := range []string{"diff.xl", "merge.xl"} {
		if hasSection(list, section) {
			if _, err := i.config(ctx, "--remove-section", section); err != nil {
				return errorf(method, "%w", err)
			}
		}
	}
	if err := i.removeLines(ctx, i.attributesPath, append(append([]string(nil), attributesDiff...), attributesMerge...), "core.attributesfile"); err != nil {
		return errorf(method, "%w", err)
	}
	if err := i.removeLines(ctx, i.ignorePath, ignorePatterns, "core.excludesfile"); err != nil {
		return errorf(method, "%w", err)
	}
	log.WithField("mode", i.mode).Info("Uninstalled")
	return nil
}

func (i *Installer) removeLines(ctx context.Context, path string, keys []string, key string) error {
	remaining, err := RemoveLines(path, keys)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return nil
	}
	if i.mode == Global && i.get(ctx, key) != "" {
		if _, err := i.config(ctx, "--unset", key); err != nil {
			return err
		}
	}
	return deleteFile(path)
}

func hasSection(list, section string) bool {
	for _, line := range strings.Split(list, "\n") {
		if strings.HasPrefix(line, section+".") {
			return true
		}
	}
	return false
}
