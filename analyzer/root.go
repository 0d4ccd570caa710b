package analyzer

import (
	"context"
	"path"
	"strings"

	"github.com/viant/afs"
)

// packageMarker is the file whose presence in a directory declares that
// directory a package, per spec.md §6's root-inference contract. This
// mirrors the teacher's `projectFiles` marker-filename mechanism
// (analyzer/package.go's go.mod/pom.xml/package.json detection),
// narrowed to the target language's own package marker and replaceable
// via WithProjectFiles with other marker filenames; a directory holding
// none of the markers is never treated as a package.
const packageMarker = "__init__.py"

// inferRoot walks upward from the common ancestor of files, past any
// directory that declares itself a package, stopping at the first
// non-package directory — spec.md §6: "The project root, when omitted,
// is inferred by walking upward from the common ancestor of the inputs
// past any directory that declares itself a package, stopping at the
// first non-package directory."
func (a *Analyzer) inferRoot(ctx context.Context, files []string) (string, error) {
	if a.root != "" {
		return a.root, nil
	}
	if len(files) == 0 {
		return "", nil
	}
	dirs := make([]string, len(files))
	for i, f := range files {
		dirs[i] = path.Dir(f)
	}
	cur := commonAncestor(dirs)
	markers := a.projectFiles
	if len(markers) == 0 {
		markers = []string{packageMarker}
	}
	for cur != "." && cur != "/" && cur != "" {
		if !a.isPackageDir(ctx, cur, markers) {
			break
		}
		parent := path.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return cur, nil
}

func (a *Analyzer) isPackageDir(ctx context.Context, dir string, markers []string) bool {
	fs := a.fs
	if fs == nil {
		fs = afs.New()
	}
	for _, marker := range markers {
		ok, err := fs.Exists(ctx, path.Join(dir, marker))
		if err == nil && ok {
			return true
		}
	}
	return false
}

func commonAncestor(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	parts := strings.Split(strings.Trim(dirs[0], "/"), "/")
	for _, d := range dirs[1:] {
		other := strings.Split(strings.Trim(d, "/"), "/")
		parts = commonPrefix(parts, other)
	}
	return "/" + strings.Join(parts, "/")
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// namespaceOf derives the dotted module namespace for filePath relative
// to root — the prefix every node defined in that file is nested under
// (spec.md §3's "fully-qualified name of a nested definition equals
// <enclosing scope key>.<local name>", rooted at the module).
func namespaceOf(root, filePath string) string {
	rel := strings.TrimPrefix(filePath, root)
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, "/__init__")
	if rel == "__init__" {
		rel = ""
	}
	return strings.ReplaceAll(rel, "/", ".")
}
