package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status    *StatusCommand
	Search    *SearchCommand
	Delete    *DeleteCommand
	Prune     *PruneCommand
	Purge     *PurgeCommand
	Add       *AddCommand
	Bookmarks *BookmarksCommand
	Settings  *SettingsCommand
	Serve     *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "historyremover"
	parser.LongDescription = "Search your browsing history and selectively delete it."

	cmds := &commands{
		Status:    &StatusCommand{globals: &globals, version: version},
		Search:    &SearchCommand{globals: &globals},
		Delete:    &DeleteCommand{globals: &globals},
		Prune:     &PruneCommand{globals: &globals},
		Purge:     &PurgeCommand{globals: &globals},
		Add:       &AddCommand{globals: &globals},
		Bookmarks: &BookmarksCommand{globals: &globals},
		Settings:  &SettingsCommand{globals: &globals},
		Serve:     &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show database statistics", "Show history database statistics, configuration summary and daemon health.", cmds.Status)
	parser.AddCommand("search", "Search history with filters", "Search browsing history by text, then narrow the results by domain, keyword, regex, time, protocol and path.", cmds.Search)
	parser.AddCommand("delete", "Delete matching history", "Delete every URL matched by the given filters, or the URLs given as arguments.", cmds.Delete)
	parser.AddCommand("prune", "Delete a time range", "Delete all history older than a duration, or within a time range preset.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL history", "Delete ALL browsing history. Destructive operation with safety prompt.", cmds.Purge)
	parser.AddCommand("add", "Record a visit", "Record a visit to a URL in the local history database, optionally bookmarking it.", cmds.Add)
	parser.AddCommand("bookmarks", "List bookmarked URLs", "List the deduplicated URLs of every bookmark.", cmds.Bookmarks)
	parser.AddCommand("settings", "Show or change settings", "Show the persisted settings, or change them with flags.", cmds.Settings)
	parser.AddCommand("serve", "Start the historyremover daemon", "Start the historyremover daemon (local HTTP service).", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the historyremover CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("historyremover %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
