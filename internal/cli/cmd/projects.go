package cmd

import (
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Long:  `Create a project. The generated API key is printed once; store it safely.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		p, err := c.CreateProject(cmd.Context(), args[0])
		if err != nil {
			out.Error("Failed to create project: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(p)
			return
		}

		out.Success("Project created")
		out.KeyValue("ID", p.ID)
		out.KeyValue("Name", p.Name)
		out.KeyValue("API Key", p.APIKey)
	},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		list, err := c.ListProjects(cmd.Context())
		if err != nil {
			out.Error("Failed to list projects: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(list)
			return
		}

		out.Header("Projects")
		for _, p := range list.Projects {
			out.KeyValue(p.ID, p.Name)
		}
		out.Info("%d project(s)", list.Count)
	},
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		p, err := c.GetProject(cmd.Context(), args[0])
		if err != nil {
			out.Error("Failed to get project: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(p)
			return
		}

		out.KeyValue("ID", p.ID)
		out.KeyValue("Name", p.Name)
		out.KeyValue("API Key", p.APIKey)
		out.KeyValue("Created", p.CreatedAt.Format("2006-01-02 15:04:05"))
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		p, err := c.UpdateProject(cmd.Context(), args[0], args[1])
		if err != nil {
			out.Error("Failed to rename project: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(p)
			return
		}
		out.Success("Project renamed to %s", p.Name)
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		if err := c.DeleteProject(cmd.Context(), args[0]); err != nil {
			out.Error("Failed to delete project: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(map[string]string{"status": "deleted"})
			return
		}
		out.Success("Project deleted")
	},
}

func init() {
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsRenameCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}
