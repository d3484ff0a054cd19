// Package ignore implements the per-source ignore predicate spec.md
// §4.3 describes: a union of caller-supplied glob patterns and the
// patterns found in a source's ".dploystowignore" file, matched against
// paths relative to the source root.
package ignore

import (
	"bufio"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// IgnoreFileName is the per-source ignore file spec.md §4.3 names.
const IgnoreFileName = ".dploystowignore"

// Matcher answers should-ignore judgments for paths relative to a single
// source root. It is not safe for concurrent use across goroutines
// unless the zero-value mutex protecting its memoization cache is
// respected, which it is by every method here.
type Matcher struct {
	patterns []string

	mu    sync.Mutex
	cache map[string]bool
}

// Option configures a Matcher beyond the patterns spec.md §4.3 mandates.
type Option func(*options)

type options struct {
	defaultPatterns bool
}

// WithDefaultPatterns adds a conventional "ignore VCS metadata" pattern
// (".git" and everything under it) on top of the caller/ignore-file
// patterns spec.md §4.3 requires. It is opt-in and off by default so the
// library's default behavior matches spec.md exactly.
func WithDefaultPatterns() Option {
	return func(o *options) { o.defaultPatterns = true }
}

// New builds a Matcher for the source rooted at root. It reads
// root/.dploystowignore (if present) through fs and unions its patterns
// with callerPatterns and the built-in pattern that always ignores the
// ignore file itself.
func New(fs afero.Fs, root string, callerPatterns []string, opts ...Option) (*Matcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	patterns := make([]string, 0, len(callerPatterns)+2)
	patterns = append(patterns, callerPatterns...)

	fromFile, err := readIgnoreFile(fs, path.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, fromFile...)

	patterns = append(patterns, IgnoreFileName)
	if o.defaultPatterns {
		patterns = append(patterns, ".git", ".git/**")
	}

	return &Matcher{patterns: patterns, cache: make(map[string]bool)}, nil
}

func readIgnoreFile(fs afero.Fs, p string) ([]string, error) {
	f, err := fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// ShouldIgnore reports whether relPath (slash-separated, relative to the
// source root) should be treated as absent by the planner. A path is
// ignored if any pattern matches it directly, or matches any ancestor
// directory of it — ignoring a directory ignores everything inside.
func (m *Matcher) ShouldIgnore(relPath string) bool {
	relPath = path.Clean(filepathToSlash(relPath))

	m.mu.Lock()
	if ignored, ok := m.cache[relPath]; ok {
		m.mu.Unlock()
		return ignored
	}
	m.mu.Unlock()

	ignored := m.matches(relPath)

	m.mu.Lock()
	m.cache[relPath] = ignored
	m.mu.Unlock()

	return ignored
}

func (m *Matcher) matches(relPath string) bool {
	for _, candidate := range ancestorsAndSelf(relPath) {
		for _, pattern := range m.patterns {
			// A leading "/" anchors the pattern to the source root: it
			// matches only the candidate built from the very top of
			// relPath, never a deeper occurrence of the same name.
			anchored := strings.HasPrefix(pattern, "/")
			rooted := strings.TrimPrefix(pattern, "/")

			ok, err := doublestar.Match(rooted, candidate)
			if err == nil && ok {
				return true
			}
			if anchored {
				continue
			}
			// A pattern with no "/" is also matched against the base
			// name of each candidate, so e.g. "*.bak" ignores
			// "sub/dir/file.bak" without needing a "**/" prefix.
			if !strings.Contains(pattern, "/") {
				if ok, err := doublestar.Match(pattern, path.Base(candidate)); err == nil && ok {
					return true
				}
			}
		}
	}
	return false
}

// ancestorsAndSelf returns relPath along with every ancestor directory
// of it, shortest first, e.g. "a/b/c" -> ["a", "a/b", "a/b/c"].
func ancestorsAndSelf(relPath string) []string {
	if relPath == "." || relPath == "" {
		return nil
	}
	parts := strings.Split(relPath, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
