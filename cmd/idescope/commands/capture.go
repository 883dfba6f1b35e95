package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idescope/idescope/internal/ide"
	"github.com/idescope/idescope/internal/window"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture IDE windows or screen regions",
	Long: `Capture a single window, a screen region, or the full IDE with
every panel annotated by role. Output is written to a file.`,
	Example: `  # Capture a window by handle
  idescope capture --window 0x3a00007 --out shot.png

  # Capture a window with a role annotation
  idescope capture --window 0x3a00007 --annotate --out shot.png

  # Capture a screen region
  idescope capture --region 100,100,800,600 --out region.png

  # Capture the main window plus one panel per role
  idescope capture --full --out ide.png`,
	RunE: runCapture,
}

var (
	captureWindow   string
	captureRegion   string
	captureFull     bool
	captureAnnotate bool
	captureOut      string
)

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringVarP(&captureWindow, "window", "w", "", "window handle to capture (hex or decimal)")
	captureCmd.Flags().StringVarP(&captureRegion, "region", "r", "", "screen region to capture as x,y,width,height")
	captureCmd.Flags().BoolVar(&captureFull, "full", false, "capture the main window and one panel per role")
	captureCmd.Flags().BoolVarP(&captureAnnotate, "annotate", "a", false, "draw a role outline and label on the capture")
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "capture.png", "output file path")
}

func runCapture(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}

	service, err := ide.New(configMgr.Get())
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer service.Close()

	ctx := context.Background()

	switch {
	case captureFull:
		return captureFullIDE(ctx, service)
	case captureRegion != "":
		return captureScreenRegion(ctx, service)
	case captureWindow != "":
		return captureSingleWindow(ctx, service)
	default:
		return fmt.Errorf("one of --window, --region, or --full is required")
	}
}

func captureSingleWindow(ctx context.Context, service *ide.Service) error {
	handle, err := parseWindowHandle(captureWindow)
	if err != nil {
		return err
	}

	if captureAnnotate {
		spec := service.CaptureWithAnnotation(ctx, handle)
		if spec.Empty() {
			return fmt.Errorf("capture of window 0x%x produced no pixels", uint32(handle))
		}
		if err := service.SaveCapture(spec.Capture, captureOut); err != nil {
			return err
		}
		fmt.Printf("Saved %s capture (%dx%d) to %s\n", spec.Role, spec.Width, spec.Height, captureOut)
		return nil
	}

	shot := service.CaptureWindow(ctx, handle)
	if shot.Empty() {
		return fmt.Errorf("capture of window 0x%x produced no pixels", uint32(handle))
	}
	if err := service.SaveCapture(shot, captureOut); err != nil {
		return err
	}
	fmt.Printf("Saved capture (%dx%d) to %s\n", shot.Width, shot.Height, captureOut)
	return nil
}

func captureScreenRegion(ctx context.Context, service *ide.Service) error {
	x, y, w, h, err := parseRegion(captureRegion)
	if err != nil {
		return err
	}

	shot := service.CaptureRegion(ctx, x, y, w, h)
	if shot.Empty() {
		return fmt.Errorf("region capture produced no pixels")
	}
	if err := service.SaveCapture(shot, captureOut); err != nil {
		return err
	}
	fmt.Printf("Saved region capture (%dx%d) to %s\n", shot.Width, shot.Height, captureOut)
	return nil
}

func captureFullIDE(ctx context.Context, service *ide.Service) error {
	result := service.CaptureFullIDE(ctx)
	if result == nil || result.Primary.Empty() {
		return fmt.Errorf("full IDE capture produced no pixels")
	}

	if err := service.SaveCapture(result.Primary, captureOut); err != nil {
		return err
	}
	fmt.Printf("Saved main window capture to %s\n", captureOut)

	base := strings.TrimSuffix(captureOut, ".png")
	base = strings.TrimSuffix(base, ".jpg")
	for _, panel := range result.Panels {
		path := fmt.Sprintf("%s-%s.%s", base, panel.Role, panel.Format)
		if err := service.SaveCapture(panel.Capture, path); err != nil {
			return err
		}
		fmt.Printf("Saved %s panel to %s\n", panel.Role, path)
	}
	return nil
}

func parseWindowHandle(raw string) (window.Handle, error) {
	v, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q", raw)
	}
	return window.Handle(v), nil
}

func parseRegion(raw string) (x, y, w, h int, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("region must be x,y,width,height, got %q", raw)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid region component %q", p)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
