// Package sourceenv supplies option values from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar. An option
// --max-items is filled by MAX_ITEMS (or APP_MAX_ITEMS with Prefix "APP_").
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "APP_"})
//	cli := optkit.New(os.Args).WithSource(source)
package sourceenv
