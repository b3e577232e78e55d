package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sessionExcluded are the root subcommands that cannot run inside a session
var sessionExcluded = map[string]bool{
	"interactive": true,
	"serve":       true,
	"completion":  true,
	"help":        true,
}

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the same
store connection. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := make(map[string]*cobra.Command)
			for _, sub := range cmd.Parent().Commands() {
				if !sessionExcluded[sub.Name()] {
					commands[sub.Name()] = sub
				}
			}

			return runSession(os.Stdin, os.Stdout, commands)
		},
	}
}

// runSession reads command lines from in until EOF, exit or quit
func runSession(in io.Reader, out io.Writer, commands map[string]*cobra.Command) error {
	fmt.Fprintln(out, "\n🚀 Starting interactive session...")
	fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		parts, err := parseCommandLine(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(out, "❌ Error parsing command: %v\n\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}

		name := parts[0]
		switch name {
		case "exit", "quit":
			fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		case "help":
			printInteractiveHelp(out, commands)
			continue
		}

		target, ok := commands[name]
		if !ok {
			fmt.Fprintf(out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
			continue
		}

		if err := runInSession(target, parts[1:]); err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runInSession runs a command's RunE directly so PersistentPreRunE does not
// initialize the app a second time. Flags are reset to their defaults first.
func runInSession(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}

	if cmd.RunE != nil {
		return cmd.RunE(cmd, args)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, args)
	}
	return nil
}

func printInteractiveHelp(out io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(out, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %-30s %s\n", commands[name].Use, commands[name].Short)
	}

	fmt.Fprintln(out, "\n  help                           Show this help message")
	fmt.Fprintln(out, "  exit, quit                     Exit the interactive session")
}

// parseCommandLine splits a line into arguments. Single or double quotes group
// words, so school names with spaces can be passed as one argument.
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	inArg := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if inArg {
		args = append(args, current.String())
	}

	return args, nil
}
