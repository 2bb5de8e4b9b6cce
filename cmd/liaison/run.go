package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kestrelops/liaison/internal/collab"
	"github.com/kestrelops/liaison/internal/workflow"
	"github.com/kestrelops/liaison/pkg/api"
)

var (
	runRepo       string
	runPRNumber   int
	runIssue      int
	runAttendees  []string
	runProject    string
	runDesc       string
	runTeam       []string
	runTitle      string
	runSeverity   string
	runResponders []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one workflow against the loopback platform",
	Long: `Execute a single workflow in-process against the built-in
loopback platform. No credentials are needed; artifacts are fabricated
deterministically. Useful for trying out workflows and templates.`,
}

var runReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Schedule a code review",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd.Context(),
			func(ctx context.Context, orch *workflow.Orchestrator,
				uc api.UserContext, corr api.CorrelationID,
			) api.Result {
				return orch.ScheduleReview(ctx, api.ReviewRequest{
					Repo:           runRepo,
					PRNumber:       runPRNumber,
					IssueNumber:    runIssue,
					ExtraAttendees: runAttendees,
				}, uc, corr)
			})
	},
}

var runKickoffCmd = &cobra.Command{
	Use:   "kickoff",
	Short: "Launch a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd.Context(),
			func(ctx context.Context, orch *workflow.Orchestrator,
				uc api.UserContext, corr api.CorrelationID,
			) api.Result {
				return orch.LaunchProject(ctx, api.KickoffRequest{
					ProjectName: runProject,
					Description: runDesc,
					TeamMembers: runTeam,
				}, uc, corr)
			})
	},
}

var runIncidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Coordinate an incident response",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd.Context(),
			func(ctx context.Context, orch *workflow.Orchestrator,
				uc api.UserContext, corr api.CorrelationID,
			) api.Result {
				return orch.RespondToIncident(ctx, api.IncidentRequest{
					Title:       runTitle,
					Description: runDesc,
					Severity:    api.Severity(runSeverity),
					Repo:        runRepo,
					Responders:  runResponders,
				}, uc, corr)
			})
	},
}

func init() {
	runReviewCmd.Flags().StringVar(&runRepo, "repo", "",
		"repository (owner/name)")
	runReviewCmd.Flags().IntVar(&runPRNumber, "pr", 0,
		"pull request number")
	runReviewCmd.Flags().IntVar(&runIssue, "issue", 0,
		"linked issue number")
	runReviewCmd.Flags().StringSliceVar(&runAttendees, "attendee", nil,
		"extra attendee email (repeatable)")

	runKickoffCmd.Flags().StringVar(&runProject, "name", "",
		"project name")
	runKickoffCmd.Flags().StringVar(&runDesc, "description", "",
		"project description")
	runKickoffCmd.Flags().StringSliceVar(&runTeam, "member", nil,
		"team member email (repeatable)")

	runIncidentCmd.Flags().StringVar(&runTitle, "title", "",
		"incident title")
	runIncidentCmd.Flags().StringVar(&runDesc, "description", "",
		"incident description")
	runIncidentCmd.Flags().StringVar(&runSeverity, "severity", "medium",
		"severity (low, medium, high, critical)")
	runIncidentCmd.Flags().StringVar(&runRepo, "repo", "",
		"tracking issue repository")
	runIncidentCmd.Flags().StringSliceVar(&runResponders, "responder",
		nil, "responder email (repeatable)")

	runCmd.AddCommand(runReviewCmd)
	runCmd.AddCommand(runKickoffCmd)
	runCmd.AddCommand(runIncidentCmd)
}

type workflowFunc func(
	context.Context, *workflow.Orchestrator, api.UserContext,
	api.CorrelationID,
) api.Result

func runWorkflow(ctx context.Context, fn workflowFunc) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	loop := collab.NewLoopback()
	orch, err := workflow.New(cfg, workflow.Dependencies{
		SourceControl: loop,
		Chat:          loop,
		Documents:     loop,
		Scheduling:    loop,
	})
	if err != nil {
		return err
	}

	if err := orch.Initialize(ctx); err != nil {
		return err
	}
	defer orch.Cleanup(ctx)

	corr := api.CorrelationID(uuid.NewString())
	res := fn(ctx, orch, api.UserContext{}, corr)
	printResult(res, corr)

	if !res.Success {
		return fmt.Errorf("workflow failed at %s", res.FailedStep)
	}
	return nil
}

func printResult(res api.Result, corr api.CorrelationID) {
	if res.Success {
		fmt.Printf("%s %s\n", color.GreenString("✓"), res.Message)
	} else {
		fmt.Printf("%s %s\n", color.RedString("✗"), res.Message)
	}
	fmt.Printf("  correlation: %s\n", corr)
	fmt.Printf("  elapsed:     %s\n", res.Elapsed.Round(time.Millisecond))

	if len(res.Details) == 0 {
		return
	}

	keys := make([]string, 0, len(res.Details))
	for k := range res.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("  artifacts:")
	for _, k := range keys {
		data, err := json.Marshal(res.Details[k])
		if err != nil {
			continue
		}
		fmt.Printf("    %s: %s\n", color.CyanString(k), data)
	}
}
