package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/gitlab-cli/internal/gitlab"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p", "projects"},
		Short:   "List and open projects",
	}
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectOpenCmd())
	return cmd
}

func newProjectListCmd() *cobra.Command {
	var (
		search     string
		membership bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List projects",
		Long: `List projects visible to the authenticated user.

Only the first page of results is shown. Narrow the list with --search-name.

Example:
  glc project list
  glc project list -s backend --membership`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			projects, err := client.ListProjects(ctx, &gitlab.ListProjectsOptions{
				Search:     search,
				Membership: membership,
			})
			if err != nil {
				return wrapAPIError(err, "list projects", "", "")
			}

			return output.PrintList(ctx, printerForContext(ctx), "Projects", projects)
		},
	}

	cmd.Flags().StringVarP(&search, "search-name", "s", "", "Only projects whose name matches")
	cmd.Flags().BoolVar(&membership, "membership", false, "Only projects you are a member of")
	flagAlias(cmd.Flags(), "search-name", "search")
	return cmd
}

func newProjectOpenCmd() *cobra.Command {
	var (
		projectID string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:     "open",
		Aliases: []string{"o"},
		Short:   "Open a project in the browser",
		Long: `Open a project's web page in your default browser.

Example:
  glc project open -p 42
  glc project open -p group/app --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := projectArg(projectID)
			if err != nil {
				return err
			}

			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			p, err := client.GetProject(ctx, project)
			if err != nil {
				return wrapAPIError(err, "get project", "project", project)
			}

			return openWebURL(ctx, "project", p.WebURL, noBrowser)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project-id", "p", "", "Project ID, path or URL (required)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the URL instead of opening it")
	flagAlias(cmd.Flags(), "project-id", "project")
	return cmd
}
