package generator

import (
	"github.com/brianvoe/gofakeit/v6"
)

// PaloAltoFirewall emits perimeter traffic events covering lateral movement
// between the victim host and internal servers.
type PaloAltoFirewall struct {
	faker *gofakeit.Faker
}

func (g *PaloAltoFirewall) Name() string       { return "paloalto_firewall" }
func (g *PaloAltoFirewall) SourceType() string { return "paloalto:firewall" }
func (g *PaloAltoFirewall) Index() string      { return "network" }

func (g *PaloAltoFirewall) Description() string {
	return "Palo Alto firewall traffic logs for internal lateral movement"
}

func (g *PaloAltoFirewall) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	srcIP := g.faker.IPv4Address()
	if host, ok := IdentityParam(overrides, "victim_host"); ok {
		srcIP = host.IP
	}
	dstIP := g.faker.IPv4Address()
	if server, ok := IdentityParam(overrides, "file_server"); ok {
		dstIP = server.IP
	}

	lateralPorts := []int{445, 3389, 5985, 135, 22}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		port := lateralPorts[i%len(lateralPorts)]
		events = append(events, map[string]interface{}{
			"type":            "TRAFFIC",
			"subtype":         "end",
			"src":             srcIP,
			"dst":             dstIP,
			"sport":           g.faker.Number(49152, 65535),
			"dport":           port,
			"proto":           "tcp",
			"action":          "allow",
			"app":             appForPort(port),
			"bytes_sent":      g.faker.Number(1_000, 500_000),
			"bytes_received":  g.faker.Number(1_000, 500_000),
			"session_end_reason": "tcp-fin",
			"rule":            "intrazone-default",
			"from_zone":       "trust",
			"to_zone":         "trust",
		})
	}
	return events, nil
}

func appForPort(port int) string {
	switch port {
	case 445:
		return "ms-ds-smb"
	case 3389:
		return "ms-rdp"
	case 5985:
		return "ms-wmi"
	case 135:
		return "msrpc"
	case 22:
		return "ssh"
	default:
		return "unknown-tcp"
	}
}
