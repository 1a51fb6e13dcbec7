package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, complete, and remove tasks in the active plan",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task under the current cursor position",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt("level")
		notes, _ := cmd.Flags().GetString("notes")
		var notesPtr *string
		if notes != "" {
			notesPtr = &notes
		}
		resp, err := getClient().AddTask(cmd.Context(), id, strings.Join(args, " "), level, notesPtr)
		if err != nil {
			return err
		}
		printEnvelope(fmt.Sprintf("Added task at index %s", resp.Result.Index), resp)
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <index>",
	Short: "Complete the task at an index (cascades to its subtree)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		summary, _ := cmd.Flags().GetString("summary")
		leaseSet := cmd.Flags().Changed("lease")
		leaseVal, _ := cmd.Flags().GetUint8("lease")

		var summaryPtr *string
		if summary != "" {
			summaryPtr = &summary
		}
		var leasePtr *uint8
		if leaseSet {
			leasePtr = &leaseVal
		}
		resp, err := getClient().Complete(cmd.Context(), id, args[0], leasePtr, force, summaryPtr)
		if err != nil {
			return err
		}
		if resp.Result {
			printEnvelope(fmt.Sprintf("Completed %s", args[0]), resp)
		} else {
			printEnvelope(fmt.Sprintf("Task %s was not completed", args[0]), resp)
		}
		return nil
	},
}

var taskUncompleteCmd = &cobra.Command{
	Use:   "uncomplete <index>",
	Short: "Re-open a completed task (children keep their state)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().Uncomplete(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		if resp.Result.Changed {
			printEnvelope(fmt.Sprintf("Re-opened %s", args[0]), resp)
		} else {
			printEnvelope(fmt.Sprintf("Task %s was not completed; nothing changed", args[0]), resp)
		}
		return nil
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a task and its entire subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().RemoveTask(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		printEnvelope(fmt.Sprintf("Removed %s (%q)", args[0], resp.Result.Removed.Description), resp)
		return nil
	},
}

var taskNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read, set, or delete a task's notes",
}

var taskNotesGetCmd = &cobra.Command{
	Use:   "get <index>",
	Short: "Read a task's notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		view, err := getClient().GetNotes(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		if view.Notes == nil {
			fmt.Printf("No notes on %s\n", args[0])
			return nil
		}
		fmt.Println(*view.Notes)
		return nil
	},
}

var taskNotesSetCmd = &cobra.Command{
	Use:   "set <index> <notes>",
	Short: "Store notes on a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().SetNotes(cmd.Context(), id, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printEnvelope(fmt.Sprintf("Stored notes on %s", args[0]), resp)
		return nil
	},
}

var taskNotesDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a task's notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().DeleteNotes(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		printEnvelope(fmt.Sprintf("Cleared notes on %s", args[0]), resp)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().Int("level", 0, "abstraction level index (0 = planning)")
	taskAddCmd.Flags().String("notes", "", "free-form notes attached to the task")
	taskCompleteCmd.Flags().Uint8("lease", 0, "lease token from 'scatterbrain lease'")
	taskCompleteCmd.Flags().Bool("force", false, "skip lease and summary checks")
	taskCompleteCmd.Flags().String("summary", "", "completion summary (required unless --force)")

	taskNotesCmd.AddCommand(taskNotesGetCmd, taskNotesSetCmd, taskNotesDeleteCmd)
	taskCmd.AddCommand(taskAddCmd, taskCompleteCmd, taskUncompleteCmd, taskRemoveCmd, taskNotesCmd)
	rootCmd.AddCommand(taskCmd)
}
