// Package optkit parses and validates command-line arguments against a set of declared options.
//
// Quick Start:
//
//	cli := optkit.New(os.Args).Description("Copies things").Interactive(true)
//
//	src, _ := cli.AddOption("-s", optkit.Spec{Alias: "--source", Mandatory: true})
//	dst, _ := cli.AddOption("-d", optkit.Spec{Alias: "--dest", Multi: true, MaxValues: 3})
//	_ = cli.Constrain(src, optkit.OneOf("local", "remote"))
//
//	cli.ParseOrExit()
//
//	fmt.Println(src.Value(), dst.Values())
//
// Options are tagged ("-a value", "--alpha value", "-m v1 v2 v3") or tagless
// (purely positional); a Cli holds one kind or the other, never both.
// Prioritized options (the built-in -h/--help) are searched for before anything
// else and short-circuit every other check when present.
//
// Values are stored verbatim and converted lazily with ValueAs / ValuesAs.
// Struct tags can drive registration through Bind; tag directives:
// key:K, alias:A, desc:text, default:val, mandatory, multi, flag, count:N,
// secret, min:N, max:N, oneof:a,b,c
//
// See example_test.go for detailed usage.
package optkit
