package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skerry/internal/app"
)

type validateOptions struct {
	Dir string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse the schema and report every invalid declaration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Schema directory")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := app.NewService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		Dir: resolveString(cmd, opts.Dir, "dir", "dir"),
	})
	for _, failure := range result.Failures {
		fmt.Println(failure)
	}
	if err != nil {
		return err
	}
	fmt.Printf("validated: %d host(s), %d type(s), %d interface(s)\n",
		result.Hosts, result.Types, result.Interfaces)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.GetString(key) != "" {
		return viper.GetString(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
