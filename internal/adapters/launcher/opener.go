package launcher

import (
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"runtime"

	"diagrammer/internal/domain"
)

// Opener opens diagrams served by the HTTP API in the system browser
type Opener struct {
	baseURL string
}

// NewOpener creates an opener for a server listening on addr. A host-less
// addr such as ":8080" is reached through localhost.
func NewOpener(addr string) *Opener {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return &Opener{baseURL: "http://" + addr}
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return &Opener{baseURL: "http://" + net.JoinHostPort(host, port)}
}

// OpenDiagram opens the snapshot URL of kind
func (o *Opener) OpenDiagram(kind domain.DiagramKind) error {
	u, err := o.BuildURL(kind)
	if err != nil {
		return err
	}
	return openURL(u)
}

// BuildURL returns the API URL serving the snapshot of kind
func (o *Opener) BuildURL(kind domain.DiagramKind) (string, error) {
	if kind == domain.KindUnknown {
		return "", fmt.Errorf("unknown diagram kind")
	}
	return o.baseURL + "/api/" + url.PathEscape(kind.String()), nil
}

func openURL(u string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "linux":
		cmd = exec.Command("xdg-open", u)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Start()
}
