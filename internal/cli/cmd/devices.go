package cmd

import (
	"github.com/spf13/cobra"
)

var devicePlatform string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage push devices",
}

var devicesRegisterCmd = &cobra.Command{
	Use:   "register <user-id> <token>",
	Short: "Register a push token for a user",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		d, err := c.RegisterDevice(cmd.Context(), args[0], args[1], devicePlatform)
		if err != nil {
			out.Error("Failed to register device: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(d)
			return
		}

		out.Success("Device registered")
		out.KeyValue("ID", d.ID)
		out.KeyValue("User", d.UserID)
	},
}

var devicesListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's registered devices",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		list, err := c.ListDevices(cmd.Context(), args[0])
		if err != nil {
			out.Error("Failed to list devices: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(list)
			return
		}

		out.Header("Devices")
		for _, d := range list.Devices {
			label := d.Token
			if d.Platform != "" {
				label += " (" + d.Platform + ")"
			}
			out.KeyValue(d.ID, label)
		}
		out.Info("%d device(s)", list.Count)
	},
}

func init() {
	devicesRegisterCmd.Flags().StringVar(&devicePlatform, "platform", "", "device platform (ios, android, web)")

	devicesCmd.AddCommand(devicesRegisterCmd)
	devicesCmd.AddCommand(devicesListCmd)
	rootCmd.AddCommand(devicesCmd)
}
