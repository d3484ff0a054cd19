package planner

import (
	"os"
	"sort"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
)

// validationConfig parameterizes the one set of checks every planner
// shares (spec.md §9's "template-method-via-config" note), instead of
// one base type per subcommand.
type validationConfig struct {
	requireDestReadable   bool
	requireDestWritable   bool
	requireDestExecutable bool
}

// validationResult is the outcome of validateCommon: normalized paths
// on success, or accumulated errors (in which case the walk must be
// skipped entirely per spec.md §4.2.1).
type validationResult struct {
	sources []string
	dest    string
	errs    []error
}

// validateCommon implements spec.md §4.2.1 in order: duplicate sources,
// destination validity, per-source validity, source-equals-dest.
func validateCommon(fs afero.Fs, subcmd action.Subcommand, sources []string, dest string, cfg validationConfig) validationResult {
	var res validationResult

	normDest, err := fsutil.Normalize(dest)
	if err != nil {
		res.errs = append(res.errs, newErr(NoSuchDirectoryToSubcmdInto, subcmd, dest))
		return res
	}
	res.dest = normDest

	seen := make(map[string]bool, len(sources))
	normSources := make([]string, 0, len(sources))
	for _, s := range sources {
		ns, err := fsutil.Normalize(s)
		if err != nil {
			res.errs = append(res.errs, newErr(NoSuchDirectory, subcmd, s))
			continue
		}
		if seen[ns] {
			res.errs = append(res.errs, newErr(DuplicateSource, subcmd, ns))
			continue
		}
		seen[ns] = true
		normSources = append(normSources, ns)
	}
	sort.Strings(normSources)
	res.sources = normSources

	if !isDir(fs, normDest) {
		res.errs = append(res.errs, newErr(NoSuchDirectoryToSubcmdInto, subcmd, normDest))
	} else {
		readable, writable, executable, err := fsutil.EffectiveMode(normDest)
		if err != nil {
			res.errs = append(res.errs, newErr(PermissionDenied, subcmd, normDest))
		} else if (cfg.requireDestReadable && !readable) ||
			(cfg.requireDestWritable && !writable) ||
			(cfg.requireDestExecutable && !executable) {
			res.errs = append(res.errs, newErr(InsufficientPermissionsToSubcmdTo, subcmd, normDest))
		}
	}

	for _, s := range normSources {
		if !isDir(fs, s) {
			res.errs = append(res.errs, newErr(NoSuchDirectory, subcmd, s))
			continue
		}
		readable, _, executable, err := fsutil.EffectiveMode(s)
		if err != nil {
			res.errs = append(res.errs, newErr(PermissionDenied, subcmd, s))
			continue
		}
		if !readable || !executable {
			res.errs = append(res.errs, newErr(InsufficientPermissionsToSubcmdFrom, subcmd, s))
			continue
		}
		if s == normDest {
			res.errs = append(res.errs, newErr(SourceIsSameAsDest, subcmd, s))
		}
	}

	return res
}

func isDir(fs afero.Fs, p string) bool {
	fi, err := fs.Stat(p)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

func exists(fs afero.Fs, p string) (bool, error) {
	_, err := fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
