package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skerry/internal/app"
	"skerry/internal/types"
)

type showOptions struct {
	Dir     string
	Section string
}

func newShowCommand() *cobra.Command {
	opts := showOptions{}
	cmd := &cobra.Command{
		Use:       "show [hosts|versioning|types|interfaces|all]",
		Short:     "Print a section of the parsed schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"hosts", "versioning", "types", "interfaces", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Section = "all"
			if len(args) == 1 {
				opts.Section = args[0]
			}
			return runShow(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Schema directory")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	return cmd
}

func runShow(ctx context.Context, cmd *cobra.Command, opts showOptions) error {
	service := app.NewService()
	result, err := service.Parse(ctx, app.ParseRequest{
		Dir: resolveString(cmd, opts.Dir, "dir", "dir"),
	})
	if err != nil {
		return err
	}
	schema := result.Schema
	switch opts.Section {
	case "hosts":
		printHosts(schema.Hosts)
	case "versioning":
		printVersioning(schema.Versioning)
	case "types":
		printTypes(schema.Types)
	case "interfaces":
		printInterfaces(schema.Interfaces)
	case "all":
		printHosts(schema.Hosts)
		printVersioning(schema.Versioning)
		printTypes(schema.Types)
		printInterfaces(schema.Interfaces)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown section: " + opts.Section)
	}
	return nil
}

func printHosts(hosts []types.Host) {
	fmt.Println("hosts:")
	for _, host := range hosts {
		fmt.Printf("  %s: %s\n", host.Env, host.Address)
	}
}

func printVersioning(versioning types.Versioning) {
	fmt.Println("versioning:")
	fmt.Printf("  format: %s\n", versioning.Format)
	if versioning.Header != "" {
		fmt.Printf("  header: %s\n", versioning.Header)
	}
}

func printTypes(results []types.TypeResult) {
	fmt.Println("types:")
	for i, item := range results {
		if item.Err != nil {
			fmt.Printf("  <declaration %d failed: %v>\n", i, item.Err)
			continue
		}
		fmt.Println(item.Decl.String())
	}
}

func printInterfaces(results []types.InterfaceResult) {
	fmt.Println("interfaces:")
	for i, item := range results {
		if item.Err != nil {
			fmt.Printf("  <declaration %d failed: %v>\n", i, item.Err)
			continue
		}
		fmt.Println(item.Decl.String())
	}
}
