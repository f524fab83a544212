package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/gitlab"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
	"github.com/salmonumbrella/gitlab-cli/internal/ui"
	"github.com/salmonumbrella/gitlab-cli/internal/validate"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Aliases: []string{"b", "branches"},
		Short:   "List and create repository branches",
	}
	cmd.AddCommand(newBranchListCmd())
	cmd.AddCommand(newBranchCreateCmd())
	return cmd
}

func newBranchListCmd() *cobra.Command {
	var projectID, search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List branches of a project",
		Long: `List the branches of a project.

Only the first page of results is shown. Narrow the list with --search-name.

Example:
  glc branch list -p group/app
  glc branch list -p 42 -s feature`,
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

			branches, err := client.ListBranches(ctx, project, search)
			if err != nil {
				return wrapAPIError(err, "list branches", "project", project)
			}

			return output.PrintList(ctx, printerForContext(ctx), "Branch List", branches)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project-id", "p", "", "Project ID, path or URL (required)")
	cmd.Flags().StringVarP(&search, "search-name", "s", "", "Only branches whose name matches")
	flagAlias(cmd.Flags(), "project-id", "project")
	flagAlias(cmd.Flags(), "search-name", "search")
	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	var projectID, name, base string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"c", "new"},
		Short:   "Create a branch",
		Long: `Create a branch from a base branch, tag or commit SHA.

Without --base-branch the project's default branch is used.

Example:
  glc branch create -p group/app -n feature/login -b main
  glc branch create -p 42 -n hotfix/crash`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := projectArg(projectID)
			if err != nil {
				return err
			}
			if err := validate.BranchName("name", name); err != nil {
				return err
			}

			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			if base == "" {
				p, err := client.GetProject(ctx, project)
				if err != nil {
					return wrapAPIError(err, "get project", "project", project)
				}
				if p.DefaultBranch == "" {
					return errors.NewUserError("project has no default branch", "Pass --base-branch")
				}
				base = p.DefaultBranch
			}

			branch, err := client.CreateBranch(ctx, project, name, base)
			if err != nil {
				return wrapAPIError(err, fmt.Sprintf("create branch %q from %q", name, base), "project", project)
			}

			if err := output.PrintList(ctx, printerForContext(ctx), "New Branch Created", []gitlab.Branch{*branch}); err != nil {
				return err
			}
			if !output.QuietFromContext(ctx) {
				ui.FromContext(ctx).Success("Created branch %s from %s", branch.Name, base)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project-id", "p", "", "Project ID, path or URL (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the new branch (required)")
	cmd.Flags().StringVarP(&base, "base-branch", "b", "", "Branch, tag or SHA to branch from (default: project default branch)")
	flagAlias(cmd.Flags(), "project-id", "project")
	flagAlias(cmd.Flags(), "base-branch", "ref")
	return cmd
}
