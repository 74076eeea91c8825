package net

import (
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_signpad._tcp"

// Advertise announces a receiving host on port. Shut the returned server
// down to withdraw it.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, []net.IP{lanIPv4()}, []string{"SignaturePad"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[HOST] Advertising %s as %s on port %d", serviceType, host, port)
	return server, nil
}

// Browse returns the "ip:port" addresses of hosts answering within timeout.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var (
		found []string
		seen  = make(map[string]bool)
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4, e.Port)
			if !seen[addr] {
				seen[addr] = true
				found = append(found, addr)
			}
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	err := mdns.Query(params)
	close(entries)
	wg.Wait()
	if err != nil {
		return found, fmt.Errorf("mdns lookup: %w", err)
	}
	return found, nil
}
