package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jsm-panel/internal/board"
	"github.com/dt-pm-tools/jsm-panel/internal/workflow"
)

// newDecisionCmd builds the approve and reject commands, which differ only in
// the transition they look for.
func newDecisionCmd(intent workflow.Intent, short string) *cobra.Command {
	var (
		dryRun  bool
		request string
	)

	cmd := &cobra.Command{
		Use:   string(intent) + " <subtask-key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			key := strings.ToUpper(args[0])

			if dryRun {
				transitions, err := svc.client.GetTransitions(ctx, key)
				if err != nil {
					return fmt.Errorf("fetching transitions: %w", err)
				}
				chosen, err := workflow.Select(transitions, intent)
				if err != nil {
					return fmt.Errorf("%w; available transitions: %s", err, workflow.Describe(transitions))
				}
				fmt.Fprintf(os.Stderr, "Dry run: would run '%s' (-> %s) on %s\n", chosen.Name, chosen.To.Name, key)
				return nil
			}

			run := func(ctx context.Context) error {
				chosen, err := svc.gateway.RunTransition(ctx, key, intent)
				if err != nil {
					return fmt.Errorf("%s %s: %w", intent, key, err)
				}
				fmt.Fprintf(os.Stderr, "%s: '%s' (-> %s)\n", key, chosen.Name, chosen.To.Name)
				return nil
			}

			if request == "" {
				return run(ctx)
			}

			// Show the request's board as it stands after the transition.
			model := board.NewModel(svc.strategy, strings.ToUpper(request))
			if err := model.Apply(ctx, run); err != nil {
				return err
			}
			return board.Render(os.Stdout, model, board.RenderOptions{Panel: appConfig.Panel})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the transition that would run without running it")
	cmd.Flags().StringVar(&request, "request", "", "request key whose board is shown after the transition")
	return cmd
}

func init() {
	rootCmd.AddCommand(newDecisionCmd(workflow.Approve, "Approve a subtask by running its approval or completion transition"))
	rootCmd.AddCommand(newDecisionCmd(workflow.Reject, "Reject a subtask by moving it to Pending, or rejecting it outright"))
}
