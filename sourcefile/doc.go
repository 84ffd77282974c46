// Package sourcefile supplies option values from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml). Nested keys
// are flattened to dot paths, so a "db: {host: x}" entry fills --db.host.
//
// Example:
//
//	source := sourcefile.New("tool.yaml", sourcefile.Options{Section: "tool"})
//	cli := optkit.New(os.Args).WithSource(source)
package sourcefile
