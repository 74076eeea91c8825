package net

import (
	"log"
	"net"
)

// routeTarget is only used to pick an outgoing route; nothing is sent.
const routeTarget = "8.8.8.8:80"

var loopback = net.IPv4(127, 0, 0, 1).To4()

// GetOutgoingIP returns the local address other machines on the LAN should
// use to reach this one. It is shown as the relay address and stamped on
// signatures stored locally.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", routeTarget)
	if err != nil {
		// No default route, e.g. an isolated site network.
		return lanIPv4().String(), nil
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP.To4() != nil {
		return addr.IP.String(), nil
	}
	return lanIPv4().String(), nil
}

// lanIPv4 is the first IPv4 address on an interface that is up and not a
// loopback, or 127.0.0.1 when there is none.
func lanIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("[HOST] Listing interfaces: %v", err)
		return loopback
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
			if ipnet, ok := a.(*net.IPNet); ok {
				if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
					return ip
				}
			}
		}
	}
	log.Println("[HOST] No LAN address found, using loopback")
	return loopback
}
