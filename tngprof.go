/*package main contains the command line interface of tngprof, a toolkit
for computing stacked radial gas profiles of galaxy clusters in the
IllustrisTNG simulations.*/
package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/cpellner/tngprof/cmd"
	"github.com/cpellner/tngprof/version"
)

var helpStrings = map[string]string{
	"check": `The check mode compares the global configuration and the
on-disk simulation data against user-supplied expectations. Run it after
writing a new global config file.`,
	"select": `The select mode chooses the halos an analysis runs over,
either by mass range or by explicit IDs, and writes the halo catalog that
the downstream modes read from stdin.`,
	"prof": `The prof mode computes per-halo radial gas profiles: a 2D
radius-temperature histogram or density profiles split by temperature
regime. It reads a halo catalog from stdin and writes one .npz archive per
halo.`,
	"vel": `The vel mode computes per-halo radial velocity profiles of the
gas, relative to the halo bulk motion. It reads a halo catalog from stdin
and writes one .npz archive per halo.`,
	"stack": `The stack mode aggregates the per-halo archives of a prof or
vel run into cluster-mass-binned stacks and writes a summary table to
stdout.`,
	"replot": `The replot mode re-renders the figures of an earlier prof or
vel run from its archives, without touching the simulation data.`,
	"gallery": `The gallery mode collects the per-halo archives of a run
into a single scrollable HTML page of interactive charts.`,

	"config":         new(cmd.GlobalConfig).ExampleConfig(),
	"check.config":   cmd.ModeNames["check"].ExampleConfig(),
	"select.config":  cmd.ModeNames["select"].ExampleConfig(),
	"prof.config":    cmd.ModeNames["prof"].ExampleConfig(),
	"vel.config":     cmd.ModeNames["vel"].ExampleConfig(),
	"stack.config":   cmd.ModeNames["stack"].ExampleConfig(),
	"replot.config":  cmd.ModeNames["replot"].ExampleConfig(),
	"gallery.config": cmd.ModeNames["gallery"].ExampleConfig(),
}

var modeDescriptions = `My help modes are:
tngprof help
tngprof help [ check | select | prof | vel | stack | replot | gallery ]
tngprof help [ config | check.config | select.config | prof.config |
               vel.config | stack.config | replot.config | gallery.config ]

My analysis modes are:
tngprof check   [flags] ____.yaml [____.check.config]
tngprof select  [flags] ____.yaml [____.select.config]
tngprof prof    [flags] ____.yaml [____.prof.config]
tngprof vel     [flags] ____.yaml [____.vel.config]
tngprof stack   [flags] ____.yaml [____.stack.config]
tngprof replot  [flags] ____.yaml [____.replot.config]
tngprof gallery [flags] ____.yaml [____.gallery.config]

The global ____.yaml argument may be replaced by setting the environment
variable $TNGPROF_GLOBAL_CONFIG. The prof, vel and stack modes read a halo
catalog from stdin, as written by select.`

func main() {
	args := os.Args
	if len(args) <= 1 {
		fmt.Fprintf(
			os.Stderr, "I was not supplied with a mode.\nFor help, type "+
				"'tngprof help'.\n",
		)
		os.Exit(1)
	}

	if args[1] == "help" {
		switch len(args) - 2 {
		case 0:
			fmt.Println(modeDescriptions)
		case 1:
			text, ok := helpStrings[args[2]]
			if !ok {
				fmt.Printf("I don't recognize the help target '%s'.\n",
					args[2])
			} else {
				fmt.Println(text)
			}
		default:
			fmt.Println("The help mode can only take a single argument.")
		}
		os.Exit(0)
	} else if args[1] == "version" {
		fmt.Printf("tngprof version %s\n", version.SourceVersion)
		os.Exit(0)
	}

	mode, ok := cmd.ModeNames[args[1]]
	if !ok {
		fmt.Fprintf(
			os.Stderr, "You passed me the mode '%s', which I don't "+
				"recognize.\nFor help, type 'tngprof help'.\n", args[1],
		)
		os.Exit(1)
	}

	var lines []string
	switch args[1] {
	case "prof", "vel", "stack":
		var err error
		lines, err = stdinLines()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}
	}

	gConfigName, modeConfigName, flags, err := splitArgs(args)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	gConfig := &cmd.GlobalConfig{}
	if err = gConfig.ReadConfig(gConfigName); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}
	if err = gConfig.EnsureOutputDirs(); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	if err = mode.ReadConfig(modeConfigName, flags); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	out, err := mode.Run(gConfig, lines)
	for i := range out {
		fmt.Println(out[i])
	}
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}
}

// stdinLines reads stdin and splits it into lines.
func stdinLines() ([]string, error) {
	bs, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("Error reading stdin: %s.", err.Error())
	}
	lines := strings.Split(string(bs), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// splitArgs pulls the global config name, the optional mode config name
// and the remaining flag tokens out of the argument list. Config files sit
// at the end of the list: the global YAML config first, then the mode
// .config file. $TNGPROF_GLOBAL_CONFIG replaces the YAML argument.
func splitArgs(args []string) (
	gConfigName, modeConfigName string, flags []string, err error,
) {
	gConfigName = os.Getenv("TNGPROF_GLOBAL_CONFIG")

	end := len(args)
	if end > 2 && isModeConfig(args[end-1]) {
		modeConfigName = args[end-1]
		end--
	}
	if end > 2 && isGlobalConfig(args[end-1]) {
		if gConfigName != "" {
			return "", "", nil, fmt.Errorf("$TNGPROF_GLOBAL_CONFIG has " +
				"been set, so you may not also pass a global config file " +
				"as a parameter.")
		}
		gConfigName = args[end-1]
		end--
	}

	if gConfigName == "" {
		return "", "", nil, fmt.Errorf("No global config file was " +
			"provided, either as a parameter or through " +
			"$TNGPROF_GLOBAL_CONFIG.")
	}

	return gConfigName, modeConfigName, args[2:end], nil
}

// isModeConfig returns true if the given string is a mode config file name.
func isModeConfig(s string) bool {
	return strings.HasSuffix(s, ".config")
}

// isGlobalConfig returns true if the given string is a global config file
// name.
func isGlobalConfig(s string) bool {
	return strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}
