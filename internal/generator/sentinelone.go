package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// SentinelOneDetection emits EDR detection findings referencing the
// correlated victim host and user, closing the narrative loop for a phase.
type SentinelOneDetection struct {
	faker *gofakeit.Faker
}

func (g *SentinelOneDetection) Name() string       { return "sentinelone_detection" }
func (g *SentinelOneDetection) SourceType() string { return "sentinelone:alert" }
func (g *SentinelOneDetection) Index() string      { return "edr" }

func (g *SentinelOneDetection) Description() string {
	return "SentinelOne EDR detection findings with MITRE tactic attribution"
}

func (g *SentinelOneDetection) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	hostname := g.faker.DomainName()
	if host, ok := IdentityParam(overrides, "victim_host"); ok {
		hostname = host.Hostname
	}
	username := g.faker.Username()
	if victim, ok := IdentityParam(overrides, "victim_user"); ok {
		username = victim.Username
	}

	findings := []struct {
		name     string
		severity string
		tactic   string
	}{
		{"Ransomware behavior detected", "critical", "Impact"},
		{"Credential dumping via LSASS access", "high", "Credential Access"},
		{"Suspicious encoded PowerShell", "high", "Execution"},
		{"Persistence via registry run key", "medium", "Persistence"},
		{"Mass file rename activity", "critical", "Impact"},
	}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		finding := findings[i%len(findings)]
		events = append(events, map[string]interface{}{
			"alertId":        g.faker.UUID(),
			"eventType":      "threat",
			"threatName":     finding.name,
			"severity":       finding.severity,
			"confidence":     "malicious",
			"mitreTactic":    finding.tactic,
			"agentComputerName": hostname,
			"agentOsType":    "windows",
			"originatorUser": username,
			"mitigationStatus": "not_mitigated",
			"description": fmt.Sprintf("%s on %s (user %s)", finding.name, hostname, username),
		})
	}
	return events, nil
}
