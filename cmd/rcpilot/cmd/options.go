package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcpilot/rcpilot/internal/catalog"
)

var (
	optionsService  string
	optionsCategory string
	optionsAll      bool
	exportFormat    string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Inspect and change daemon options",
}

var optionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List options, optionally filtered by service and category",
	RunE:  runOptionsList,
}

var optionsGetCmd = &cobra.Command{
	Use:   "get <service> <option>",
	Short: "Show one option in detail",
	Args:  cobra.ExactArgs(2),
	RunE:  runOptionsGet,
}

var optionsSetCmd = &cobra.Command{
	Use:   "set <service> <option> <value>",
	Short: "Validate and save an option value",
	Args:  cobra.ExactArgs(3),
	RunE:  runOptionsSet,
}

var optionsUnsetCmd = &cobra.Command{
	Use:   "unset <service> <option>",
	Short: "Restore an option to its default",
	Args:  cobra.ExactArgs(2),
	RunE:  runOptionsUnset,
}

var optionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export non-default options as YAML or JSON",
	RunE:  runOptionsExport,
}

func init() {
	optionsListCmd.Flags().StringVar(&optionsService, "service", "", "only this service")
	optionsListCmd.Flags().StringVar(&optionsCategory, "category", "", "only this category")
	optionsListCmd.Flags().BoolVar(&optionsAll, "all", false, "include options at their default value")
	optionsExportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "output format (yaml or json)")

	optionsCmd.AddCommand(optionsListCmd, optionsGetCmd, optionsSetCmd, optionsUnsetCmd, optionsExportCmd)
	rootCmd.AddCommand(optionsCmd)
}

func runOptionsList(cmd *cobra.Command, args []string) error {
	app, err := buildApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	grouped, err := app.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tCATEGORY\tOPTION\tVALUE")
	for _, service := range grouped.Services() {
		if optionsService != "" && !strings.EqualFold(service, optionsService) {
			continue
		}
		for _, category := range grouped.Categories(service) {
			if optionsCategory != "" && !strings.EqualFold(category, optionsCategory) {
				continue
			}
			for _, d := range grouped[service][category] {
				if !optionsAll && d.IsDefault(d.ValueStr) {
					continue
				}
				value := d.ValueStr
				if d.Sensitive || d.IsPassword {
					value = "***"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", service, category, d.Name, value)
			}
		}
	}
	return w.Flush()
}

func runOptionsGet(cmd *cobra.Command, args []string) error {
	app, err := buildApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.loadCatalog(cmd.Context()); err != nil {
		return err
	}

	d, key, err := findOption(app, args[0], args[1])
	if err != nil {
		return err
	}

	value := d.ValueStr
	if d.Sensitive || d.IsPassword {
		value = "***"
	}
	fmt.Printf("Name:     %s\n", d.Name)
	fmt.Printf("Field:    %s\n", d.FieldName)
	fmt.Printf("Key:      %s\n", key)
	fmt.Printf("Type:     %s\n", d.Type)
	fmt.Printf("Value:    %s\n", value)
	fmt.Printf("Default:  %s\n", d.DefaultStr)
	fmt.Printf("Required: %t\n", d.Required)
	fmt.Printf("Advanced: %t\n", d.Advanced)
	if len(d.Examples) > 0 {
		fmt.Println("Examples:")
		for _, ex := range d.Examples {
			fmt.Printf("  %s\t%s\n", ex.Value, ex.Help)
		}
	}
	if d.Help != "" {
		fmt.Printf("\n%s\n", d.Help)
	}
	return nil
}

func runOptionsSet(cmd *cobra.Command, args []string) error {
	app, err := buildApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.loadCatalog(cmd.Context()); err != nil {
		return err
	}

	_, key, err := findOption(app, args[0], args[1])
	if err != nil {
		return err
	}

	ctl, ok := app.engine.Control(key)
	if !ok {
		return fmt.Errorf("no control for %q", key)
	}
	if err := app.engine.SetValue(key, args[2]); err != nil {
		return err
	}
	if issue := ctl.Issue(); issue != nil {
		return fmt.Errorf("invalid value for %s: %s", args[1], issue.Message)
	}
	if !ctl.Dirty() {
		fmt.Printf("%s already set to %q\n", args[1], args[2])
		return nil
	}
	if err := app.engine.Save(cmd.Context(), key); err != nil {
		return err
	}
	fmt.Printf("Saved %s = %q\n", args[1], args[2])
	return nil
}

func runOptionsUnset(cmd *cobra.Command, args []string) error {
	app, err := buildApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.loadCatalog(cmd.Context()); err != nil {
		return err
	}

	d, key, err := findOption(app, args[0], args[1])
	if err != nil {
		return err
	}

	ctl, ok := app.engine.Control(key)
	if !ok {
		return fmt.Errorf("no control for %q", key)
	}
	if err := app.engine.SetValue(key, d.DefaultStr); err != nil {
		return err
	}
	if !ctl.Dirty() {
		fmt.Printf("%s is already at its default\n", args[1])
		return nil
	}
	if err := app.engine.Save(cmd.Context(), key); err != nil {
		return err
	}
	fmt.Printf("Restored %s to its default\n", args[1])
	return nil
}

func runOptionsExport(cmd *cobra.Command, args []string) error {
	app, err := buildApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	grouped, err := app.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	// service -> field -> value, non-defaults only
	out := map[string]map[string]string{}
	for _, service := range grouped.Services() {
		for _, category := range grouped.Categories(service) {
			for _, d := range grouped[service][category] {
				if d.IsDefault(d.ValueStr) {
					continue
				}
				if out[service] == nil {
					out[service] = map[string]string{}
				}
				out[service][d.FieldName] = d.ValueStr
			}
		}
	}

	switch strings.ToLower(exportFormat) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "yml":
		return yaml.NewEncoder(os.Stdout).Encode(out)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
}

// findOption resolves a service and option name (flag name or field name,
// case-insensitive) to its descriptor and save key.
func findOption(app *app, service, name string) (catalog.OptionDescriptor, string, error) {
	grouped := app.engine.Catalog()
	var svcMatch string
	for _, s := range grouped.Services() {
		if strings.EqualFold(s, service) {
			svcMatch = s
			break
		}
	}
	if svcMatch == "" {
		known := grouped.Services()
		sort.Strings(known)
		return catalog.OptionDescriptor{}, "", fmt.Errorf("unknown service %q (known: %s)", service, strings.Join(known, ", "))
	}
	for _, category := range grouped.Categories(svcMatch) {
		for _, d := range grouped[svcMatch][category] {
			if strings.EqualFold(d.Name, name) || strings.EqualFold(d.FieldName, name) {
				return d, catalog.Key(svcMatch, category, d.Name), nil
			}
		}
	}
	return catalog.OptionDescriptor{}, "", fmt.Errorf("service %q has no option %q", service, name)
}
