package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/gitlab-cli/internal/gitlab"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
	"github.com/salmonumbrella/gitlab-cli/internal/validate"
)

var mergeRequestStates = []string{
	gitlab.StateOpened,
	gitlab.StateClosed,
	gitlab.StateMerged,
	gitlab.StateLocked,
	gitlab.StateAll,
}

func newMergeRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "merge-request",
		Aliases: []string{"mr", "merge-requests"},
		Short:   "List and open merge requests",
	}
	cmd.AddCommand(newMergeRequestListCmd())
	cmd.AddCommand(newMergeRequestOpenCmd())
	return cmd
}

func newMergeRequestListCmd() *cobra.Command {
	var projectID, state string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List merge requests of a project",
		Long: `List the merge requests of a project. Open merge requests are listed
unless --state says otherwise.

Only the first page of results is shown.

Example:
  glc mr list -p group/app
  glc mr list -p 42 --state merged`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := projectArg(projectID)
			if err != nil {
				return err
			}
			if err := validate.OneOf("state", state, mergeRequestStates...); err != nil {
				return err
			}

			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			mrs, err := client.ListMergeRequests(ctx, project, state)
			if err != nil {
				return wrapAPIError(err, "list merge requests", "project", project)
			}

			return output.PrintList(ctx, printerForContext(ctx), "Merge Requests", mrs)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project-id", "p", "", "Project ID, path or URL (required)")
	cmd.Flags().StringVar(&state, "state", gitlab.StateOpened, "opened|closed|merged|locked|all")
	flagAlias(cmd.Flags(), "project-id", "project")
	_ = cmd.RegisterFlagCompletionFunc("state", cobra.FixedCompletions(mergeRequestStates, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func newMergeRequestOpenCmd() *cobra.Command {
	var (
		projectID string
		iid       int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:     "open",
		Aliases: []string{"o"},
		Short:   "Open a merge request in the browser",
		Long: `Open a merge request's web page in your default browser.

--mr-id is the merge request number shown in the project (the IID).

Example:
  glc mr open -p group/app -m 17`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := projectArg(projectID)
			if err != nil {
				return err
			}
			if err := validate.PositiveInt("mr-id", iid); err != nil {
				return err
			}

			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			mr, err := client.GetMergeRequest(ctx, project, iid)
			if err != nil {
				return wrapAPIError(err, "get merge request", "merge request", project+"!"+strconv.Itoa(iid))
			}

			return openWebURL(ctx, "merge request", mr.WebURL, noBrowser)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project-id", "p", "", "Project ID, path or URL (required)")
	cmd.Flags().IntVarP(&iid, "mr-id", "m", 0, "Merge request IID (required)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the URL instead of opening it")
	flagAlias(cmd.Flags(), "project-id", "project")
	return cmd
}
