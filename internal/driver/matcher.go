package driver

import (
	"github.com/xltrail/git-xl/internal/config"
	"github.com/xltrail/git-xl/internal/diff"
)

// Matcher returns the matcher selected by the configuration.
func Matcher(c *config.C) diff.Matcher {
	switch c.Algorithm {
	case config.AlgorithmDifflib:
		return diff.Difflib{}
	case config.AlgorithmMyers:
		return diff.Myers{}
	default:
		return diff.Patience{
			MaxRecursion:     c.MaxRecursion,
			CheckConsistency: c.CheckConsistency,
		}
	}
}
