package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
	"venuectl/internal/deploy"
)

func newFirmwareCommand(ctx *commandContext) *cobra.Command {
	firmwareCmd := &cobra.Command{
		Use:   "firmware",
		Short: "Compile and flash controller firmware",
	}

	firmwareCmd.AddCommand(newFirmwareCompileCommand(ctx))
	firmwareCmd.AddCommand(newFirmwareFlashCommand(ctx))

	return firmwareCmd
}

func newFirmwareCompileCommand(ctx *commandContext) *cobra.Command {
	var hostnames []string
	var template string
	var defines []string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile firmware for controllers, streaming build output",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := cleanHostnames(hostnames)
			if len(targets) == 0 {
				return errors.New("at least one --host is required")
			}
			if strings.TrimSpace(template) == "" {
				return errors.New("--template is required")
			}

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			req := api.CompileRequest{Hostnames: targets, Template: template, Defines: defines}
			open := func(streamCtx context.Context) (io.ReadCloser, error) {
				return apiClient.OpenCompileStream(streamCtx, req)
			}
			return runDeployment(cmd, ctx, "compile", targets, open)
		},
	}

	cmd.Flags().StringArrayVar(&hostnames, "host", nil, "Target controller hostname (repeatable)")
	cmd.Flags().StringVar(&template, "template", "", "Firmware template name")
	cmd.Flags().StringArrayVar(&defines, "define", nil, "Extra build define KEY=VALUE (repeatable)")
	return cmd
}

func newFirmwareFlashCommand(ctx *commandContext) *cobra.Command {
	var hostnames []string
	var binaryPath string
	var otaPort int
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "flash",
		Short: "Flash firmware over the air, streaming per-device progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := cleanHostnames(hostnames)
			if len(targets) == 0 {
				return errors.New("at least one --host is required")
			}
			if strings.TrimSpace(binaryPath) == "" {
				return errors.New("--binary is required")
			}

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			req := api.OTARequest{
				Hostnames:  targets,
				BinaryPath: binaryPath,
				Port:       otaPort,
				TimeoutSec: timeoutSec,
			}
			open := func(streamCtx context.Context) (io.ReadCloser, error) {
				return apiClient.OpenOTAStream(streamCtx, req)
			}
			return runDeployment(cmd, ctx, "flash", targets, open)
		},
	}

	cmd.Flags().StringArrayVar(&hostnames, "host", nil, "Target controller hostname (repeatable)")
	cmd.Flags().StringVar(&binaryPath, "binary", "", "Compiled firmware binary path on the backend")
	cmd.Flags().IntVar(&otaPort, "ota-port", 0, "OTA port override")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Per-device flash timeout in seconds")
	return cmd
}

// runDeployment drives one compile or flash stream to completion: it takes
// the cross-process deploy lock, prints log lines as they arrive, and
// renders per-target results when the stream resolves. Interrupt cancels
// the operation.
func runDeployment(cmd *cobra.Command, ctx *commandContext, operation string, targets []string, open deploy.StreamFunc) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	lock := deploy.NewLock(cfg.Deploy.LockPath)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, deploy.ErrLocked) {
			return fmt.Errorf("%w (lock: %s)", err, lock.Path())
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	out := cmd.OutOrStdout()
	consumer := deploy.NewConsumer(
		deploy.WithLogger(ctx.ensureLogger()),
		deploy.WithSink(func(line string) {
			fmt.Fprintln(out, line)
		}),
	)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if cfg.Deploy.TimeoutSeconds > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, time.Duration(cfg.Deploy.TimeoutSeconds)*time.Second)
		defer cancelTimeout()
	}

	if err := consumer.Start(runCtx, targets, open); err != nil {
		return fmt.Errorf("start %s: %w", operation, err)
	}

	select {
	case <-runCtx.Done():
		consumer.Cancel()
		<-consumer.Done()
	case <-consumer.Done():
	}

	snap := consumer.Snapshot()
	fmt.Fprintln(out)
	renderDeploymentResults(out, snap)

	switch snap.Status {
	case deploy.StatusSuccess:
		return nil
	case deploy.StatusCancelled:
		return fmt.Errorf("%s cancelled", operation)
	default:
		if snap.Err != "" {
			return fmt.Errorf("%s failed: %s", operation, snap.Err)
		}
		return fmt.Errorf("%s failed", operation)
	}
}

func renderDeploymentResults(out io.Writer, snap deploy.Snapshot) {
	rows := make([][]string, 0, len(snap.Targets))
	for _, target := range snap.Targets {
		progress := snap.Progress[target]
		// Display caps the bar at 100 even when the backend reported more.
		if progress > 100 {
			progress = 100
		}
		outcome := "no result"
		detail := "-"
		if result, ok := snap.Results[target]; ok {
			if result.Success {
				outcome = "ok"
			} else {
				outcome = "failed"
			}
			detail = orDash(result.Message)
		}
		rows = append(rows, []string{target, fmt.Sprintf("%d%%", progress), outcome, detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Target", "Progress", "Outcome", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "Status: %s\n", snap.Status)
}

func cleanHostnames(hostnames []string) []string {
	targets := make([]string, 0, len(hostnames))
	for _, hostname := range hostnames {
		hostname = strings.TrimSpace(hostname)
		if hostname != "" {
			targets = append(targets, hostname)
		}
	}
	return targets
}
