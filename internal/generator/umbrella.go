package generator

import (
	"github.com/brianvoe/gofakeit/v6"
)

// CiscoUmbrellaDNS emits DNS-layer events. The c2_domain identity keeps the
// beacon destination stable so downstream correlation can chain phases.
type CiscoUmbrellaDNS struct {
	faker *gofakeit.Faker
}

func (g *CiscoUmbrellaDNS) Name() string       { return "cisco_umbrella_dns" }
func (g *CiscoUmbrellaDNS) SourceType() string { return "cisco:umbrella:dns" }
func (g *CiscoUmbrellaDNS) Index() string      { return "network" }

func (g *CiscoUmbrellaDNS) Description() string {
	return "Cisco Umbrella DNS queries including C2 beacon lookups"
}

func (g *CiscoUmbrellaDNS) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	c2Domain := g.faker.DomainName()
	if c2, ok := IdentityParam(overrides, "c2_domain"); ok {
		c2Domain = c2.Domain
	}
	clientIP := g.faker.IPv4Address()
	if host, ok := IdentityParam(overrides, "victim_host"); ok {
		clientIP = host.IP
	}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		// Beacons dominate; a few benign lookups keep the stream honest.
		domain := c2Domain
		action := "Blocked"
		categories := []string{"Command and Control", "Malware"}
		if i%5 == 4 {
			domain = g.faker.DomainName()
			action = "Allowed"
			categories = []string{"Business Services"}
		}

		events = append(events, map[string]interface{}{
			"identity":        clientIP,
			"internalIp":      clientIP,
			"externalIp":      g.faker.IPv4Address(),
			"domain":          domain,
			"queryType":       g.faker.RandomString([]string{"A", "AAAA", "TXT"}),
			"action":          action,
			"categories":      categories,
			"responseCode":    "NOERROR",
			"returnedIp":      g.faker.IPv4Address(),
			"policyIdentity":  "roaming-client",
		})
	}
	return events, nil
}
