// The config package encapsulates configuration for the git-xl
// commands.
//
// Configuration, caches and any other runtime state live within a
// dedicated base directory. When loading the configuration, the first
// and only argument is the path to the base directory rather than the
// path to the configuration file. The designated directory may contain
// a TOML file called 'config.toml' that corresponds to the C struct of
// this package. The file is optional: Git invokes the drivers without
// any setup, so a missing file yields the defaults. Paths derived from
// the base directory are exposed as methods of C.
package config
