package errhandler

import (
	"regexp"
	"strings"
)

// ModulePath is the import-path prefix treated as internal namespace.
const ModulePath = "github.com/smartsupply/inventory-service"

const (
	redactedPath     = "[PATH]"
	redactedInternal = "[INTERNAL]"

	msgUnknownError = "Unknown error"
	msgDatabase     = "Database operation failed"
	msgAuthFailed   = "Authentication failed"
)

var (
	// Drive-letter paths: C:\Users\alice\app.log
	windowsPathRe = regexp.MustCompile(`[A-Za-z]:\\[^\s'"<>|]*`)

	// Absolute unix paths: two or more segments, or one segment with a file
	// extension. The leading group rejects the path part of URLs.
	unixPathRe = regexp.MustCompile(`(^|[\s'"(=:,\[])(/[\w.@+~-]+(?:/[\w.@+~-]*)+|/[\w@+~-]+\.\w+)`)

	// Route prefixes served by this API are not file paths.
	routePrefixes = []string{"/api", "/health", "/metrics", "/swagger"}

	// Go source references inside the module, with optional :line suffix.
	sourceRefRe = regexp.MustCompile(`(?:` + regexp.QuoteMeta(ModulePath) + `/)?(?:internal|cmd)/[\w./-]*\.go(?::\d+)?`)

	// Qualified identifiers such as github.com/.../internal/repo.(*x).Find.
	qualifiedIdentRe = regexp.MustCompile(regexp.QuoteMeta(ModulePath) + `[\w/.()*-]*`)

	// Repo-relative identifiers (internal/repo.Open) and method values as
	// printed in stack frames (repo.(*Store).GetItem).
	shortIdentRe = regexp.MustCompile(`\b(?:internal|cmd)/[\w/]*\w\.[\w.()*]*\w|\b[a-z]\w*\.\(\*[A-Za-z]\w*\)\.\w+`)
)

// Sanitize redacts internal details from exception-derived text before it is
// shown to clients. Steps run in a fixed order:
//
//  1. absolute file paths become [PATH]
//  2. Go source references in the module become [INTERNAL]
//  3. package-qualified identifiers of the module become [INTERNAL]
//  4. text starting with "SQL" becomes "Database operation failed"
//  5. text starting with "Password" or "Token" becomes "Authentication failed"
//
// Blank input yields "Unknown error". Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msgUnknownError
	}

	out := windowsPathRe.ReplaceAllString(msg, redactedPath)
	out = unixPathRe.ReplaceAllStringFunc(out, redactUnixPath)
	out = sourceRefRe.ReplaceAllString(out, redactedInternal)
	out = qualifiedIdentRe.ReplaceAllString(out, redactedInternal)
	out = shortIdentRe.ReplaceAllString(out, redactedInternal)

	lead := strings.ToLower(strings.TrimSpace(out))
	switch {
	case strings.HasPrefix(lead, "sql"):
		return msgDatabase
	case strings.HasPrefix(lead, "password"), strings.HasPrefix(lead, "token"):
		return msgAuthFailed
	}
	return out
}

// redactUnixPath replaces the path in a unixPathRe match, keeping the
// leading delimiter. API routes are left as they are.
func redactUnixPath(m string) string {
	i := strings.IndexByte(m, '/')
	lead, path := m[:i], m[i:]
	for _, p := range routePrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return m
		}
	}
	return lead + redactedPath
}

// sanitizeOr sanitizes msg, or returns fallback when msg is blank.
func sanitizeOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return Sanitize(msg)
}
