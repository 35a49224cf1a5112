package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// ZscalerWeb emits web-proxy transaction events, used for staging and
// exfiltration traffic toward the C2 domain.
type ZscalerWeb struct {
	faker *gofakeit.Faker
}

func (g *ZscalerWeb) Name() string       { return "zscaler_web" }
func (g *ZscalerWeb) SourceType() string { return "zscaler:web" }
func (g *ZscalerWeb) Index() string      { return "proxy" }

func (g *ZscalerWeb) Description() string {
	return "Zscaler web proxy transactions including large outbound transfers"
}

func (g *ZscalerWeb) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	c2Domain := g.faker.DomainName()
	if c2, ok := IdentityParam(overrides, "c2_domain"); ok {
		c2Domain = c2.Domain
	}
	username := g.faker.Username()
	if victim, ok := IdentityParam(overrides, "victim_user"); ok {
		username = victim.Username
	}
	clientIP := g.faker.IPv4Address()
	if host, ok := IdentityParam(overrides, "victim_host"); ok {
		clientIP = host.IP
	}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, map[string]interface{}{
			"login":         username,
			"clientIP":      clientIP,
			"serverIP":      g.faker.IPv4Address(),
			"url":           fmt.Sprintf("https://%s/upload", c2Domain),
			"host":          c2Domain,
			"requestMethod": "POST",
			"status":        200,
			"requestSize":   g.faker.Number(5_000_000, 50_000_000),
			"responseSize":  g.faker.Number(200, 2000),
			"urlCategory":   "Miscellaneous",
			"action":        "Allowed",
			"userAgent":     g.faker.UserAgent(),
			"contentType":   "application/octet-stream",
		})
	}
	return events, nil
}
