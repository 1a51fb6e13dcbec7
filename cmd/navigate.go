package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <index>",
	Short: "Move the cursor to the task at an index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().Move(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		headline := fmt.Sprintf("Moved to %s", args[0])
		if resp.Result != nil {
			headline = fmt.Sprintf("Moved to %s: %s", args[0], *resp.Result)
		}
		printEnvelope(headline, resp)
		return nil
	},
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the task at the cursor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().Current(cmd.Context(), id)
		if err != nil {
			return err
		}
		if resp.Result == nil {
			printEnvelope("The cursor is at the root; no task is selected.", resp)
			return nil
		}
		cur := resp.Result
		headline := fmt.Sprintf("[%s] %s", cur.Index, cur.Description)
		if cur.LevelName != "" {
			headline += fmt.Sprintf("  (level: %s)", cur.LevelName)
		}
		fmt.Println(styleHeading.Render(headline))
		for i, ancestor := range cur.History {
			fmt.Println(styleIndex.Render(fmt.Sprintf("%*s%s", 2*i, "", ancestor)))
		}
		printEnvelope("", resp)
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the distilled context for the active plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().Context(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Print(renderContext(resp.DistilledContext))
		return nil
	},
}

var leaseCmd = &cobra.Command{
	Use:   "lease <index>",
	Short: "Generate the lease token needed to complete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().GenerateLease(cmd.Context(), id, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Lease %d granted for %s\n", resp.Result.Token, args[0])
		if len(resp.Result.Suggestions) > 0 {
			fmt.Println(styleHeading.Render("Before completing, verify:"))
			for _, suggestion := range resp.Result.Suggestions {
				fmt.Println("  - " + suggestion)
			}
		}
		printEnvelope("", resp)
		return nil
	},
}

var levelCmd = &cobra.Command{
	Use:   "level <index> <level>",
	Short: "Pin a task to an explicit abstraction level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[1], err)
		}
		resp, err := getClient().ChangeLevel(cmd.Context(), id, args[0], level)
		if err != nil {
			return err
		}
		printEnvelope(fmt.Sprintf("Pinned %s to level %d", args[0], level), resp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd, currentCmd, contextCmd, leaseCmd, levelCmd)
}
