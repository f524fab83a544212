// Package output writes command results in the format chosen with --output.
//
// Supported formats:
//   - text: boxed tables for lists, key-value pairs for single values (default)
//   - table: same as text for lists
//   - json: Pretty-printed JSON
//   - ndjson: Newline-delimited JSON (alias jsonl)
//   - yaml: YAML
//
// The format and the --query (jq) and --jsonpath filters are stored in the
// context by the root command's PersistentPreRunE:
//
//	format, err := output.ParseFormat(formatFlag)
//	if err != nil {
//	    return err
//	}
//	ctx := output.WithFormat(cmd.Context(), format)
//	cmd.SetContext(ctx)
//
// Commands then print lists of API values through PrintList, which renders
// text and table output with the render package and everything else as
// structured data:
//
//	printer := output.NewPrinter(stdout, output.FormatFromContext(ctx))
//	return output.PrintList(ctx, printer, "Projects", projects)
package output
