package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"
)

var messageFilter string

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Send and read messages",
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <chat-id> <sender-id> <text>",
	Short: "Append a message to a chat",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		m, err := c.AddMessage(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			out.Error("Failed to send message: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(m)
			return
		}

		out.Success("Message sent")
		out.KeyValue("ID", m.ID)
		out.KeyValue("Seq", fmt.Sprintf("%d", m.Seq))
	},
}

var messagesListCmd = &cobra.Command{
	Use:   "list <chat-id>",
	Short: "List a chat's messages in order",
	Long: `List a chat's messages in append order. With --filter, each message is
run through a jq expression and only matching messages are shown, e.g.
--filter '.sender_id == "alice"'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		var code *gojq.Code
		if messageFilter != "" {
			var err error
			code, err = compileJqFilter(messageFilter)
			if err != nil {
				out.Error("Invalid filter: %v", err)
				return
			}
		}

		list, err := c.ListMessages(cmd.Context(), args[0])
		if err != nil {
			out.Error("Failed to list messages: %v", err)
			return
		}

		shown := 0
		for _, m := range list.Messages {
			if code != nil {
				data, err := json.Marshal(m)
				if err != nil || !matchesJqFilter(code, data) {
					continue
				}
			}
			shown++

			if jsonOutput {
				out.JSON(m)
				continue
			}
			fmt.Printf("%4d  %s  %-12s %s\n",
				m.Seq,
				m.Timestamp.Format("15:04:05"),
				m.SenderID,
				m.Text,
			)
		}

		if !jsonOutput {
			out.Info("%d of %d message(s)", shown, list.Count)
		}
	},
}

func init() {
	messagesListCmd.Flags().StringVar(&messageFilter, "filter", "", "jq expression to filter messages")

	messagesCmd.AddCommand(messagesSendCmd)
	messagesCmd.AddCommand(messagesListCmd)
	rootCmd.AddCommand(messagesCmd)
}
