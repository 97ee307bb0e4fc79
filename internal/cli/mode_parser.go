package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeServer = "server"
	ModeClient = "demo-client"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeServer, "serve":
		return ModeServer, true
	case ModeClient, "client":
		return ModeClient, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `server --port=3001`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, "\033[36m") // switch the color to cyan

	fmt.Fprintln(w, `Usage:
  ./order-up --mode=<service> [flags]

Services (modes):
  server         HTTP API + realtime notification endpoint
  demo-client    connects to a server and prints received order events

Examples:
  ./order-up --mode=server --port=3000 --config=configs/config.yaml
  ./order-up --mode=demo-client --url=ws://localhost:3000/ws --role=admin
  ./order-up --mode=demo-client --url=ws://localhost:3000/ws --role=customer --user-id=<customer-uuid>`)

	fmt.Fprint(w, "\033[0m") // switch back to normal
}

func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./order-up --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
