// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// supervisorctl is a command-line tool for controlling a running
// supervisord instance.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sandrun/jobsupervisor/pkg/client"
)

var (
	version    = "0.1"
	apiURL     = "http://localhost:8090"
	jsonOutput = false

	apiClient *client.Client
)

func main() {
	if env := os.Getenv("SUPERVISOR_API"); env != "" {
		apiURL = strings.TrimSuffix(env, "/")
	}

	var filteredArgs []string
	for _, arg := range os.Args[1:] {
		if arg == "-json" {
			jsonOutput = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	apiClient = client.New(apiURL)

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	cmd := filteredArgs[0]
	args := filteredArgs[1:]

	var err error
	switch cmd {
	case "start":
		err = cmdStart(args)
	case "status":
		err = cmdStatus(args)
	case "output":
		err = cmdOutput(args)
	case "cancel":
		err = cmdCancel(args)
	case "sessions":
		err = cmdSessions(args)
	case "cleanup":
		err = cmdCleanup(args)
	case "version", "-v", "--version":
		fmt.Printf("supervisorctl %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: supervisorctl [-json] <command> [args]

Commands:
  start <session> <prompt>        Start a job in a session
  status <session> <job-id>       Show a job's status
  output <session> <job-id>       Read a job's accumulated output
  cancel <session> <job-id>       Cancel a running job
  sessions                        List all sessions
  cleanup [-delete-workspaces]    Remove idle sessions
  version                         Show version
  help                            Show this help message

Environment:
  SUPERVISOR_API   Base URL of the supervisord API (default: http://localhost:8090)`)
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func cmdStart(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: supervisorctl start <session> <prompt>")
	}

	ctx := context.Background()
	resp, err := apiClient.Jobs.Start(ctx, client.StartRequest{
		SessionKey: args[0],
		Prompt:     strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Printf("Started job %s (session: %s, status: %s)\n", resp.JobID, resp.SessionKey, resp.Status)
	return nil
}

func cmdStatus(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: supervisorctl status <session> <job-id>")
	}

	ctx := context.Background()
	resp, err := apiClient.Jobs.Status(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if !resp.Found {
		fmt.Println(resp.Message)
		return nil
	}

	fmt.Printf("%-12s %s\n", "Job", resp.JobID)
	fmt.Printf("%-12s %s\n", "Status", resp.Status)
	fmt.Printf("%-12s %.1fs\n", "Elapsed", resp.ElapsedSeconds)
	fmt.Printf("%-12s %d bytes\n", "Output", resp.OutputSize)
	if resp.ExitCode != nil {
		fmt.Printf("%-12s %d\n", "Exit code", *resp.ExitCode)
	}
	if resp.Error != "" {
		fmt.Printf("%-12s %s\n", "Error", resp.Error)
	}
	return nil
}

func cmdOutput(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: supervisorctl output <session> <job-id> [offset] [limit]")
	}

	var offset, limit int64
	if len(args) > 2 {
		offset, _ = strconv.ParseInt(args[2], 10, 64)
	}
	if len(args) > 3 {
		limit, _ = strconv.ParseInt(args[3], 10, 64)
	}

	ctx := context.Background()
	resp, err := apiClient.Jobs.Output(ctx, args[0], args[1], offset, limit)
	if err != nil {
		return err
	}

	if !resp.Found {
		fmt.Println(resp.Message)
		return nil
	}

	os.Stdout.Write(resp.Content)
	return nil
}

func cmdCancel(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: supervisorctl cancel <session> <job-id>")
	}

	ctx := context.Background()
	resp, err := apiClient.Jobs.Cancel(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Println(resp.Message)
	return nil
}

func cmdSessions(args []string) error {
	ctx := context.Background()
	resp, err := apiClient.Sessions.List(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Printf("%-30s %-12s %-10s %s\n", "SESSION", "AGE", "MESSAGES", "ACTIVE JOB")
	fmt.Println(strings.Repeat("-", 70))
	for _, s := range resp.Sessions {
		activeJob := "-"
		if s.ActiveJob != nil {
			activeJob = fmt.Sprintf("%s (%s)", s.ActiveJob.JobID, s.ActiveJob.Status)
		}
		fmt.Printf("%-30s %-12.0fs %-10d %s\n", s.SessionKey, s.AgeSeconds, s.MessageCount, activeJob)
	}
	return nil
}

func cmdCleanup(args []string) error {
	deleteWorkspaces := false
	for _, a := range args {
		if a == "-delete-workspaces" {
			deleteWorkspaces = true
		}
	}

	ctx := context.Background()
	resp, err := apiClient.Sessions.Cleanup(ctx, deleteWorkspaces)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Println(resp.Message)
	return nil
}
