package azdo

import (
	"fmt"
	"runtime"
)

// Version is reported in the User-Agent header.
var Version = "0.1.0"

// UserAgent composes the User-Agent header. The MCP client name, when known,
// is appended so the service can attribute traffic to the calling assistant.
func UserAgent(clientName, clientVersion string) string {
	ua := fmt.Sprintf("azdo-mcp/%s (%s; %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if clientName == "" {
		return ua
	}
	if clientVersion == "" {
		return ua + " " + clientName
	}
	return ua + " " + clientName + "/" + clientVersion
}
