package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/restbind/api"
	"github.com/s0up4200/restbind/endpoint"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List declared endpoints and groups",
	Long:    `List every endpoint and group action declared in the config file with its method, url and arguments.`,
	Args:    cobra.NoArgs,
	PreRunE: initializeApp,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return printSurface(cmd.OutOrStdout(), client.Surface())
}

func printSurface(out io.Writer, surface *api.Surface) error {
	endpoints := surface.EndpointNames()
	groups := surface.GroupNames()
	if len(endpoints) == 0 && len(groups) == 0 {
		fmt.Fprintln(out, "No endpoints declared.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tURL\tARGS")
	for _, name := range endpoints {
		defn, _ := surface.Definition(name)
		writeDefinition(w, name, defn)
	}
	for _, name := range groups {
		group, _ := surface.GroupDeclaration(name)
		for _, action := range group.Actions() {
			defn, _ := group.Definition(action)
			writeDefinition(w, name+"."+action, defn)
		}
	}
	return w.Flush()
}

func writeDefinition(w io.Writer, name string, defn *endpoint.Definition) {
	args := strings.Join(defn.ArgNames(), ", ")
	if args == "" {
		args = "-"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, defn.Method(), defn.URL(), args)
}
