package flags

import (
	"github.com/urfave/cli/v2"
)

// LoggingFlags returns the logging flags shared by every command.
func LoggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "log-level",
			Category: "LOGGING",
			Usage:    "one of debug, info, warn, error",
			Value:    "info",
			EnvVars:  []string{"WF_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:     "no-color",
			Category: "LOGGING",
			Usage:    "disable colored log output",
			EnvVars:  []string{"WF_NO_COLOR"},
		},
	}
}

// InvocationFlags returns the flags that describe a plugin invocation.
func InvocationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:     "invocation",
			Category: "INVOCATION",
			Aliases:  []string{"i"},
			Usage:    "load the invocation from a YAML or JSON `FILE`",
			EnvVars:  []string{"WF_INVOCATION"},
		},
		&cli.StringFlag{
			Name:     "workflow",
			Category: "INVOCATION",
			Usage:    "workflow name passed to the plugin",
			EnvVars:  []string{"WF_WORKFLOW"},
		},
		&cli.StringSliceFlag{
			Name:     "param",
			Category: "INVOCATION",
			Aliases:  []string{"p"},
			Usage:    "add an input parameter (`NAME=VALUE`, VALUE is JSON or a bare string)",
		},
		&cli.StringSliceFlag{
			Name:     "plugin-option",
			Category: "INVOCATION",
			Usage:    "add a plugin option (`NAME=VALUE`)",
		},
		&cli.StringSliceFlag{
			Name:     "artifact",
			Category: "INVOCATION",
			Aliases:  []string{"a"},
			Usage:    "stage a local file as input artifact (`NAME=PATH`)",
		},
	}
}

// OutputFlags returns the flags that control what is kept after a run.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "collect",
			Category: "OUTPUT",
			Aliases:  []string{"c"},
			Usage:    "copy output artifacts matching `GLOB` to -output-dir",
		},
		&cli.PathFlag{
			Name:     "output-dir",
			Category: "OUTPUT",
			Aliases:  []string{"o"},
			Usage:    "destination for collected artifacts",
			Value:    ".",
			EnvVars:  []string{"WF_OUTPUT_DIR"},
		},
		&cli.BoolFlag{
			Name:     "keep",
			Category: "OUTPUT",
			Usage:    "keep the working directory after the run",
			EnvVars:  []string{"WF_KEEP"},
		},
	}
}
