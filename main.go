package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.platform.alem.school/amibragim/order-up/cmd/democlient"
	"git.platform.alem.school/amibragim/order-up/cmd/server"
	"git.platform.alem.school/amibragim/order-up/internal/cli"
)

func main() {
	// check for help flag first
	if len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		cli.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	// parse all command-line arguments
	mode, svcArgs, err := cli.ParseMode(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	// ensure that mode is not empty
	if mode == "" {
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	// create context cancelled on SIGINT/SIGTERM signals ensuring graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// run the service specified by the mode flag
	switch mode {
	case cli.ModeServer:
		fs := flag.NewFlagSet(cli.ModeServer, flag.ContinueOnError)
		port := fs.Int("port", 0, "HTTP port for the API (overrides config)")
		configPath := fs.String("config", "configs/config.yaml", "Path to the YAML config file")
		cli.AttachUsage(fs, cli.ModeServer)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *port < 0 || *port > 65535 {
			fmt.Fprintln(os.Stderr, "Error: --port must be between 1 and 65535")
			fs.Usage()
			os.Exit(2)
		}

		if err := server.Run(ctx, *configPath, *port); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	case cli.ModeClient:
		fs := flag.NewFlagSet(cli.ModeClient, flag.ContinueOnError)
		url := fs.String("url", "ws://localhost:3000/ws", "WebSocket URL of the server")
		role := fs.String("role", "admin", "Client role: admin or customer")
		userID := fs.String("user-id", "", "Customer id (required when --role=customer)")
		cli.AttachUsage(fs, cli.ModeClient)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *role != "admin" && *role != "customer" {
			fmt.Fprintln(os.Stderr, "Error: --role must be admin or customer")
			fs.Usage()
			os.Exit(2)
		}
		if *role == "customer" && *userID == "" {
			fmt.Fprintln(os.Stderr, "Error: --user-id is required when --role=customer")
			fs.Usage()
			os.Exit(2)
		}

		if err := democlient.Run(ctx, *url, *role, *userID); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}
}
