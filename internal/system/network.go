package system

import (
	"fmt"
	"net"
	"strings"
)

// LocalIPv4 returns the first non-loopback IPv4 address of an up interface.
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok {
				if ip4 := ipn.IP.To4(); ip4 != nil {
					return ip4.String(), nil
				}
			}
		}
	}
	return "", fmt.Errorf("no IPv4 address found")
}

// SetupURL is the address of the settings page for a server on listen.
// A listen address without a host is completed with host.
func SetupURL(listen, host string) string {
	h, port, err := net.SplitHostPort(listen)
	if err != nil {
		h, port = "", strings.TrimPrefix(listen, ":")
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = host
	}
	if h == "" {
		h = "localhost"
	}
	if port == "" || port == "80" {
		return "http://" + h + "/"
	}
	return "http://" + net.JoinHostPort(h, port) + "/"
}
