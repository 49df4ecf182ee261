package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydrotools/summaflow/pkg/config"
)

var configType string

// NewConfigCmd creates the `config` command and its subcommands for editing
// the model's configuration files in place.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit model configuration files",
		Long: `Inspect and edit the model's configuration files: the file manager,
model decisions, output control and trial parameter tables. Edits
preserve the file's layout and comments; untouched lines are written
back byte for byte.`,
	}
	configCmd.PersistentFlags().StringVarP(&configType, "type", "t", "",
		"File format: filemanager, decisions, output or params (default: guessed from the file name)")

	configCmd.AddCommand(&cobra.Command{
		Use:   "get <file> <name>",
		Short: "Print one option value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEditable(args[0])
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[1])
			if err != nil {
				return err
			}
			fmt.Println(formatConfigValue(v))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <file> <name> <value>",
		Short: "Set one option value and write the file back",
		Long: `Set one option value and write the file back.

Examples:
  summaflow config set settings/modelDecisions.txt stomResist Jarvis
  summaflow config set settings/localParamInfo.txt albedoMax 0.9
  summaflow config set settings/outputControl.txt scalarSWE 1,1,0,0,0,0,0`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEditable(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Set(args[1], parseConfigValue(args[2])); err != nil {
				return err
			}
			return saveEditable(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "remove <file> <name>",
		Short: "Remove one option line and write the file back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEditable(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Remove(args[1]); err != nil {
				return err
			}
			return saveEditable(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "render <file>",
		Short: "Print the file as it would be written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEditable(args[0])
			if err != nil {
				return err
			}
			fmt.Print(cfg.Render())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate <file-manager>",
		Short: "Check the file manager's referenced files and layer thresholds",
		Long: `Check that every file the file manager references exists, and that the
snow-layer thresholds in the local parameter table form a monotonic,
non-overlapping partition.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fm, err := config.LoadFileManager(args[0])
			if err != nil {
				return err
			}
			if err := fm.Validate(); err != nil {
				return err
			}
			if path := fm.LocalParamsPath(); path != "" {
				params, err := config.LoadTrialParams(path)
				if err != nil {
					return err
				}
				if err := config.ValidateLayerParams(params); err != nil {
					return err
				}
			}
			fmt.Println(successStyle.Sprint("ok"))
			return nil
		},
	})

	return configCmd
}

// loadEditable picks the parser from --type or the file name.
func loadEditable(path string) (config.Editable, error) {
	kind := configType
	if kind == "" {
		kind = configKind(path)
	}
	switch kind {
	case "filemanager":
		fm, err := config.LoadFileManager(path)
		if err != nil {
			return nil, err
		}
		return fm, nil
	case "decisions":
		d, err := config.LoadDecisions(path)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "output":
		oc, err := config.LoadOutputControl(path)
		if err != nil {
			return nil, err
		}
		return oc, nil
	case "params":
		p, err := config.LoadTrialParams(path)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, fmt.Errorf("cannot tell the format of %s, pass --type", path)
	}
	return nil, fmt.Errorf("unknown config type %q (valid: filemanager, decisions, output, params)", kind)
}

type saver interface {
	Save() error
}

func saveEditable(cfg config.Editable) error {
	s, ok := cfg.(saver)
	if !ok {
		return fmt.Errorf("%s cannot be written back", cfg.Path())
	}
	return s.Save()
}

// parseConfigValue turns a CLI argument into the value type the target file
// expects: a number, a comma-separated number list, or a plain string.
func parseConfigValue(arg string) interface{} {
	if strings.Contains(arg, ",") {
		parts := strings.Split(arg, ",")
		ints := make([]int, 0, len(parts))
		floats := make([]float64, 0, len(parts))
		allInts, allFloats := true, true
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if n, err := strconv.Atoi(p); err == nil {
				ints = append(ints, n)
			} else {
				allInts = false
			}
			if f, err := strconv.ParseFloat(p, 64); err == nil {
				floats = append(floats, f)
			} else {
				allFloats = false
			}
		}
		if allInts {
			return ints
		}
		if allFloats {
			return floats
		}
		return arg
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	return arg
}

func formatConfigValue(v interface{}) string {
	switch val := v.(type) {
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
