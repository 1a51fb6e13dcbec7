package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create, list, inspect, and delete plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create <prompt>",
	Short: "Create a new plan for a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		notes, _ := cmd.Flags().GetString("notes")
		var notesPtr *string
		if notes != "" {
			notesPtr = &notes
		}
		id, err := getClient().CreatePlan(cmd.Context(), prompt, notesPtr)
		if err != nil {
			return err
		}
		fmt.Printf("Created plan %s\n", id)
		fmt.Printf("Activate it with: export %s=%s\n", planIDEnvVar, id)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live plan IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := getClient().ListPlans(cmd.Context())
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Println("No plans. Create one with 'scatterbrain plan create <prompt>'.")
			return nil
		}
		for _, id := range plans {
			fmt.Println(id)
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active plan's tree and history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		resp, err := getClient().GetPlan(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", styleHeading.Render("Plan "+id+":"), resp.Result.Prompt)
		if resp.Result.Notes != nil {
			fmt.Println(styleIndex.Render(*resp.Result.Notes))
		}
		fmt.Print(renderContext(resp.DistilledContext))
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID()
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete plan %s and all of its tasks", id),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := getClient().DeletePlan(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted plan %s\n", id)
		return nil
	},
}

func init() {
	planCreateCmd.Flags().String("notes", "", "free-form notes attached to the plan")
	planDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	planCmd.AddCommand(planCreateCmd, planListCmd, planShowCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
