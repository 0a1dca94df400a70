package identity

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// BrowserPresenter presents the consent flow by opening the URL in the
// user's default browser.
type BrowserPresenter struct{}

func (BrowserPresenter) Present(ctx context.Context, authURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", authURL)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", authURL)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", authURL)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
