package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/eventmap/cmd/add"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/canonicalize"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/check"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/completion"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/countries"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/duplicates"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/gaps"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/list"
	"github.com/agentstation/eventmap/cmd/eventmap/cmd/reconcile"
)

// CreateReconcileCommand creates the reconcile command with app dependencies.
func (a *App) CreateReconcileCommand() *cobra.Command {
	return reconcile.NewCommand(a)
}

// CreateCheckCommand creates the check command with app dependencies.
func (a *App) CreateCheckCommand() *cobra.Command {
	return check.NewCommand(a)
}

// CreateCanonicalizeCommand creates the canonicalize command with app dependencies.
func (a *App) CreateCanonicalizeCommand() *cobra.Command {
	return canonicalize.NewCommand(a)
}

// CreateDuplicatesCommand creates the duplicates command with app dependencies.
func (a *App) CreateDuplicatesCommand() *cobra.Command {
	return duplicates.NewCommand(a)
}

// CreateListCommand creates the list command with app dependencies.
func (a *App) CreateListCommand() *cobra.Command {
	return list.NewCommand(a)
}

// CreateCountriesCommand creates the countries command with app dependencies.
func (a *App) CreateCountriesCommand() *cobra.Command {
	return countries.NewCommand(a)
}

// CreateImportCommand creates the import command with app dependencies.
func (a *App) CreateImportCommand() *cobra.Command {
	return gaps.NewCommand(a)
}

// CreateAddCommand creates the add command with app dependencies.
func (a *App) CreateAddCommand() *cobra.Command {
	return add.NewCommand(a)
}

// CreateCompletionCommand creates the completion command.
func (a *App) CreateCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("eventmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
