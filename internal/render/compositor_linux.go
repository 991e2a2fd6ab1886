//go:build linux

// Package render provides Ebiten-based presentation for go-canvas.
// This file implements X11 compositor detection on Linux, used to decide
// whether a transparent preview window will actually composite.
package render

import (
	"os"
	"os/exec"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// CompositorStatus represents the detected compositor state.
type CompositorStatus int

const (
	// CompositorUnknown means we couldn't determine compositor status.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositor is running (transparency will work).
	CompositorActive
	// CompositorInactive means no compositor detected (transparency may fail).
	CompositorInactive
)

// String returns a human-readable compositor status.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// DetectCompositor checks if an X11 compositor is currently running.
// It first checks the _NET_WM_CM_S0 selection (the EWMH compositor
// hint), then falls back to looking for known compositor processes.
func DetectCompositor() CompositorStatus {
	if status := detectCompositorAtom(); status != CompositorUnknown {
		return status
	}
	return detectCompositorProcess()
}

// detectCompositorAtom checks for the _NET_WM_CM_S0 selection owner.
// EWMH-compliant compositors own this selection for screen 0.
func detectCompositorAtom() CompositorStatus {
	conn, err := xgb.NewConn()
	if err != nil {
		return CompositorUnknown
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		return CompositorUnknown
	}

	const atomName = "_NET_WM_CM_S0"
	atomReply, err := xproto.InternAtom(conn, false, uint16(len(atomName)), atomName).Reply()
	if err != nil || atomReply == nil {
		return CompositorUnknown
	}

	owner, err := xproto.GetSelectionOwner(conn, atomReply.Atom).Reply()
	if err != nil {
		return CompositorUnknown
	}
	if owner.Owner != xproto.WindowNone {
		return CompositorActive
	}
	return CompositorInactive
}

// detectCompositorProcess looks for well-known compositor processes.
func detectCompositorProcess() CompositorStatus {
	compositors := []string{
		"picom", "compton", "xcompmgr", "compiz",
		"kwin_x11", "mutter", "xfwm4", "marco",
	}
	for _, name := range compositors {
		if err := exec.Command("pgrep", "-x", name).Run(); err == nil {
			return CompositorActive
		}
	}
	return CompositorInactive
}

// IsWayland reports whether the session is Wayland rather than X11.
// Wayland compositors always composite, so transparency works there.
func IsWayland() bool {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
}

// CheckTransparencySupport returns a warning message when transparency
// was requested but is unlikely to work, or "" when the environment
// supports it.
func CheckTransparencySupport(transparent bool) string {
	if !transparent {
		return ""
	}
	if IsWayland() {
		return ""
	}
	if DetectCompositor() == CompositorInactive {
		return "transparency requested but no X11 compositor detected; " +
			"the window background may render opaque (try picom or compton)"
	}
	return ""
}
