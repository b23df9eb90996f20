package tools

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/orin-ai/orin"
)

// System reports host diagnostics. The status and scan commands return fixed
// nominal banners; info inspects the Go runtime.
type System struct{}

// NewSystem creates a system diagnostics tool.
func NewSystem() *System {
	return &System{}
}

func (t *System) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "SYSTEM",
		Description: "Internal device diagnostics and controls",
	}
}

func (t *System) Run(ctx context.Context, params map[string]any) (string, error) {
	switch optionalString(params, "command", "") {
	case "status":
		return "All Systems Nominal. Battery: 85%. Network: Secure.", nil
	case "scan":
		return "Scanning environment... Threat Level: SAFE.", nil
	case "info":
		return systemInfo(), nil
	default:
		return "Command executed successfully.", nil
	}
}

func systemInfo() string {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	info := []string{
		fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("Cores: %d", runtime.NumCPU()),
		fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()),
		fmt.Sprintf("Memory: ~%dMB in use", mem.Alloc/1024/1024),
		fmt.Sprintf("Runtime: %s", runtime.Version()),
	}
	return strings.Join(info, "\n")
}
