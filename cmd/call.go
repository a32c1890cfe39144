package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/restbind/endpoint"
	"github.com/s0up4200/restbind/filter"
	"github.com/s0up4200/restbind/request"
)

var (
	namedArgs  []string
	queryArgs  []string
	bodyArg    string
	dryRun     bool
	selectExpr string
	whereExpr  string
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call NAME[.ACTION] [ARGS...]",
	Short: "Call an endpoint or group action",
	Long: `Call a declared endpoint, or an action of a declared group, and print the
result as JSON.

Positional ARGS fill the endpoint's argument names in order. Use --arg to
pass them by name instead. The body is JSON, or @FILE to read it from a file.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: initializeApp,
	RunE:    runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringArrayVarP(&namedArgs, "arg", "a", nil, "named argument as key=value (repeatable)")
	callCmd.Flags().StringArrayVarP(&queryArgs, "query", "q", nil, "query parameter as key=value (repeatable)")
	callCmd.Flags().StringVarP(&bodyArg, "body", "b", "", "request body as JSON or @file")
	callCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "print the request without sending it")
	callCmd.Flags().StringVarP(&selectExpr, "select", "s", "", "expression projecting the result")
	callCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "predicate keeping matching list elements")
}

func runCall(cmd *cobra.Command, args []string) error {
	target, positional := args[0], args[1:]

	ep, err := client.Lookup(target)
	if err != nil {
		return err
	}

	callArgs, err := buildArgs(positional, namedArgs, queryArgs, bodyArg)
	if err != nil {
		return err
	}

	if dryRun {
		spec, err := ep.Build(callArgs)
		if err != nil {
			return err
		}
		return printSpec(cmd.OutOrStdout(), spec)
	}

	logger.Debug().Str("endpoint", target).Msg("Calling endpoint")

	result, err := ep.Call(cmd.Context(), callArgs)
	if err != nil {
		return err
	}

	result, err = project(result, whereExpr, selectExpr)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result)
}

// buildArgs turns command line input into call arguments
func buildArgs(positional, named, query []string, body string) (endpoint.Args, error) {
	var args endpoint.Args

	if len(positional) > 0 && len(named) > 0 {
		return args, fmt.Errorf("use either positional arguments or --arg, not both")
	}
	if len(positional) > 0 {
		args.Positional = make([]any, len(positional))
		for i, p := range positional {
			args.Positional[i] = p
		}
	}

	if len(named) > 0 {
		kv, err := parseKeyValues("--arg", named)
		if err != nil {
			return args, err
		}
		args.Named = make(map[string]any, len(kv))
		for _, k := range sortedKeys(kv) {
			args.Named[k] = joinedOrSingle(kv[k])
		}
	}

	if len(query) > 0 {
		kv, err := parseKeyValues("--query", query)
		if err != nil {
			return args, err
		}
		args.Query = kv
	}

	if body != "" {
		raw, err := readBody(body)
		if err != nil {
			return args, err
		}
		args.Body = raw
	}

	return args, nil
}

// parseKeyValues parses key=value pairs; repeated keys collect values
func parseKeyValues(flag string, pairs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q: expected key=value", flag, pair)
		}
		out[key] = append(out[key], value)
	}
	return out, nil
}

func joinedOrSingle(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}

// readBody reads a JSON body given inline or as @file
func readBody(body string) (json.RawMessage, error) {
	data := []byte(body)
	if path, ok := strings.CutPrefix(body, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// project applies --where then --select to a call result
func project(result any, where, sel string) (any, error) {
	if where == "" && sel == "" {
		return result, nil
	}

	compiler := filter.NewCompiler()
	if where != "" {
		pred, err := compiler.CompilePredicate(where)
		if err != nil {
			return nil, fmt.Errorf("invalid --where: %w", err)
		}
		if result, err = pred.Filter(result); err != nil {
			return nil, err
		}
	}
	if sel != "" {
		selector, err := compiler.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("invalid --select: %w", err)
		}
		if result, err = selector.Select(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func printResult(w io.Writer, result any) error {
	if resp, ok := result.(*request.Response); ok {
		if json.Valid(resp.Body) {
			result = json.RawMessage(resp.Body)
		} else {
			_, err := fmt.Fprintln(w, string(resp.Body))
			return err
		}
	}
	if result == nil {
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printSpec(w io.Writer, spec request.Spec) error {
	fmt.Fprintln(w, spec.String())
	headers := spec.Headers()
	for _, k := range sortedKeys(headers) {
		fmt.Fprintf(w, "%s: %s\n", k, headers[k])
	}
	if body := spec.Body(); len(body) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, string(body))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
