package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrHelp = errors.New("help requested")

// ProcessCommandLineArgs builds the configuration from args (without the program name).
// --config is applied first so the other flags override the file.
func ProcessCommandLineArgs(args []string) (*Config, error) {
	cfg := DefaultConfig()

	for i := 0; i < len(args); i++ {
		if args[i] != "--config" {
			continue
		}
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
			return nil, errors.New("--config needs a file path")
		}

		var err error
		cfg, err = LoadConfig(args[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", args[i+1])
		}
		break
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			i++
		} else if arg == "--no-validation" {
			cfg.Validation = false
		} else if arg == "--debug" {
			cfg.Log.Level = "debug"
		} else if arg == "--help" || arg == "-h" {
			return nil, ErrHelp
		} else {
			return nil, errors.Newf("unrecognized option: %s", arg)
		}
	}

	return cfg, nil
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "\nOptions")
	fmt.Fprintln(w, "\t--config <file>")
	fmt.Fprintln(w, "\t\tLoad window, validation and logging settings from a YAML file")
	fmt.Fprintln(w, "\t--no-validation")
	fmt.Fprintln(w, "\t\tDo not enable the Khronos validation layer")
	fmt.Fprintln(w, "\t--debug")
	fmt.Fprintln(w, "\t\tLog at debug level, including surface selection fallbacks")
	fmt.Fprintln(w, "\t--help, -h")
	fmt.Fprintln(w, "\t\tPrint these options and exit")
}
