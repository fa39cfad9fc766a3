package lines

// codeExtensions lists the extensions whose lines are classified.
//
//nolint:gochecknoglobals // Fixed lookup table
var codeExtensions = map[string]struct{}{
	// C family
	".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".cxx": {}, ".hpp": {}, ".hh": {},
	".cs": {}, ".m": {}, ".mm": {},
	// JVM
	".java": {}, ".kt": {}, ".kts": {}, ".scala": {}, ".groovy": {}, ".gradle": {},
	// Web
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {}, ".ts": {}, ".tsx": {},
	".vue": {}, ".svelte": {}, ".html": {}, ".htm": {}, ".css": {}, ".scss": {},
	".sass": {}, ".less": {},
	// Systems and scripting
	".go": {}, ".rs": {}, ".swift": {}, ".dart": {}, ".zig": {},
	".py": {}, ".rb": {}, ".php": {}, ".pl": {}, ".lua": {}, ".r": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {}, ".ps1": {}, ".bat": {},
	".hs": {}, ".elm": {}, ".ex": {}, ".exs": {}, ".erl": {}, ".clj": {},
	".lisp": {}, ".vb": {}, ".asm": {},
	// Data, config, markup and query
	".json": {}, ".yml": {}, ".yaml": {}, ".toml": {}, ".ini": {}, ".xml": {},
	".sql": {}, ".graphql": {}, ".proto": {}, ".md": {},
}

// IsCodeExtension reports whether ext (lower-cased, with leading dot) is a
// recognized code extension.
func IsCodeExtension(ext string) bool {
	_, ok := codeExtensions[ext]

	return ok
}
