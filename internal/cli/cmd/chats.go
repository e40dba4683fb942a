package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var chatTitle string

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Manage chats",
	Long:  `Manage the chats of the configured project. Requires --project and --api-key.`,
}

var chatsDirectCmd = &cobra.Command{
	Use:   "direct <user-a> <user-b>",
	Short: "Get or create the direct chat for a user pair",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		res, err := c.CreateDirectChat(cmd.Context(), args[0], args[1])
		if err != nil {
			out.Error("Failed to create direct chat: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(res)
			return
		}

		if res.Existed {
			out.Info("Chat already existed")
		} else {
			out.Success("Chat created")
		}
		out.KeyValue("ID", res.Chat.ID)
		out.KeyValue("Users", strings.Join(res.Chat.Users, ", "))
	},
}

var chatsGroupCmd = &cobra.Command{
	Use:   "group <user>...",
	Short: "Create a group chat",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		chat, err := c.CreateGroupChat(cmd.Context(), args, chatTitle)
		if err != nil {
			out.Error("Failed to create group chat: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(chat)
			return
		}

		out.Success("Group chat created")
		out.KeyValue("ID", chat.ID)
		out.KeyValue("Users", strings.Join(chat.Users, ", "))
		if chat.Title != "" {
			out.KeyValue("Title", chat.Title)
		}
	},
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's chats",
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		list, err := c.ListChats(cmd.Context())
		if err != nil {
			out.Error("Failed to list chats: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(list)
			return
		}

		out.Header("Chats")
		for _, chat := range list.Chats {
			label := chat.Type + " " + strings.Join(chat.Users, ", ")
			if chat.Title != "" {
				label += " (" + chat.Title + ")"
			}
			out.KeyValue(chat.ID, label)
		}
		out.Info("%d chat(s)", list.Count)
	},
}

var chatsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a chat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		chat, err := c.GetChat(cmd.Context(), args[0])
		if err != nil {
			out.Error("Failed to get chat: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(chat)
			return
		}

		out.KeyValue("ID", chat.ID)
		out.KeyValue("Type", chat.Type)
		out.KeyValue("Users", strings.Join(chat.Users, ", "))
		if chat.Title != "" {
			out.KeyValue("Title", chat.Title)
		}
		out.KeyValue("Created", chat.CreatedAt.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	chatsGroupCmd.Flags().StringVar(&chatTitle, "title", "", "group chat title")

	chatsCmd.AddCommand(chatsDirectCmd)
	chatsCmd.AddCommand(chatsGroupCmd)
	chatsCmd.AddCommand(chatsListCmd)
	chatsCmd.AddCommand(chatsGetCmd)
	rootCmd.AddCommand(chatsCmd)
}
