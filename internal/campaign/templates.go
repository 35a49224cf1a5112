package campaign

import (
	"fmt"
	"sort"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/entity"
)

// Library holds the validated built-in campaign templates plus any
// user-loaded definitions, keyed by campaign ID.
type Library struct {
	campaigns map[string]*Campaign
}

// NewLibrary validates and indexes the built-in templates against the given
// registries. A template that fails validation is a programming error.
func NewLibrary(generators GeneratorCatalog, catalog *entity.Catalog) (*Library, error) {
	lib := &Library{campaigns: make(map[string]*Campaign)}
	for _, tpl := range templates() {
		c := tpl
		if err := Validate(&c, generators, catalog); err != nil {
			return nil, fmt.Errorf("builtin template: %w", err)
		}
		lib.campaigns[c.ID] = &c
	}
	return lib, nil
}

// Add validates and indexes a user-supplied campaign.
func (l *Library) Add(c *Campaign, generators GeneratorCatalog, catalog *entity.Catalog) error {
	if err := Validate(c, generators, catalog); err != nil {
		return err
	}
	if _, exists := l.campaigns[c.ID]; exists {
		return fmt.Errorf("%w: duplicate campaign id %q", ErrInvalidCampaign, c.ID)
	}
	l.campaigns[c.ID] = c
	return nil
}

// Get returns a campaign by ID.
func (l *Library) Get(id string) (*Campaign, bool) {
	c, ok := l.campaigns[id]
	return c, ok
}

// List returns all campaigns sorted by ID.
func (l *Library) List() []*Campaign {
	out := make([]*Campaign, 0, len(l.campaigns))
	for _, c := range l.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// templates returns the built-in campaign narratives. Weights in each phase
// sum to 1.0; roles reference the default entity catalog.
func templates() []Campaign {
	return []Campaign{
		{
			ID:          "ransomware",
			Name:        "Ransomware Intrusion",
			Description: "Phishing delivery, execution, C2 beaconing, lateral movement, then mass encryption",
			Severity:    "critical",
			Techniques:  []string{"T1566.001", "T1059.001", "T1071.004", "T1021.002", "T1486"},
			Phases: []Phase{
				{
					Name:        "initial-access",
					Duration:    minutes(30),
					EventBudget: 20,
					Generators: []GeneratorWeight{
						{GeneratorID: "proofpoint_email", Weight: 0.6},
						{GeneratorID: "okta_authentication", Weight: 0.4},
					},
					Roles: []string{"victim_user", "mail_sender", "phishing_domain", "attacker_ip"},
				},
				{
					Name:        "execution",
					Duration:    minutes(20),
					EventBudget: 30,
					Generators: []GeneratorWeight{
						{GeneratorID: "crowdstrike_process", Weight: 1.0},
					},
					Roles: []string{"victim_user", "victim_host"},
				},
				{
					Name:        "command-and-control",
					Duration:    minutes(60),
					EventBudget: 40,
					Generators: []GeneratorWeight{
						{GeneratorID: "cisco_umbrella_dns", Weight: 0.7},
						{GeneratorID: "zscaler_web", Weight: 0.3},
					},
					Roles: []string{"victim_user", "victim_host", "c2_domain"},
				},
				{
					Name:        "lateral-movement",
					Duration:    minutes(45),
					EventBudget: 35,
					Generators: []GeneratorWeight{
						{GeneratorID: "paloalto_firewall", Weight: 0.8},
						{GeneratorID: "crowdstrike_process", Weight: 0.2},
					},
					Roles: []string{"victim_user", "victim_host", "file_server"},
				},
				{
					Name:        "impact",
					Duration:    minutes(15),
					EventBudget: 25,
					Generators: []GeneratorWeight{
						{GeneratorID: "sentinelone_detection", Weight: 1.0},
					},
					Roles: []string{"victim_user", "victim_host"},
				},
			},
		},
		{
			ID:          "credential-theft",
			Name:        "Credential Theft and Account Takeover",
			Description: "Password spraying followed by successful takeover and data staging",
			Severity:    "high",
			Techniques:  []string{"T1110.003", "T1078", "T1567"},
			Phases: []Phase{
				{
					Name:        "password-spray",
					Duration:    minutes(90),
					EventBudget: 60,
					Generators: []GeneratorWeight{
						{GeneratorID: "okta_authentication", Weight: 1.0},
					},
					Roles:  []string{"victim_user", "attacker_ip"},
					Params: map[string]interface{}{"outcome": "FAILURE"},
				},
				{
					Name:        "takeover",
					Duration:    minutes(10),
					EventBudget: 5,
					Generators: []GeneratorWeight{
						{GeneratorID: "okta_authentication", Weight: 1.0},
					},
					Roles:  []string{"victim_user", "attacker_ip"},
					Params: map[string]interface{}{"outcome": "SUCCESS"},
				},
				{
					Name:        "exfiltration",
					Duration:    minutes(40),
					EventBudget: 25,
					Generators: []GeneratorWeight{
						{GeneratorID: "zscaler_web", Weight: 1.0},
					},
					Roles: []string{"victim_user", "c2_domain"},
				},
			},
		},
		{
			ID:          "insider-threat",
			Name:        "Insider Data Staging",
			Description: "A privileged user staging internal shares and moving data outbound",
			Severity:    "high",
			Techniques:  []string{"T1074", "T1048"},
			Phases: []Phase{
				{
					Name:        "collection",
					Duration:    minutes(60),
					EventBudget: 30,
					Generators: []GeneratorWeight{
						{GeneratorID: "paloalto_firewall", Weight: 0.5},
						{GeneratorID: "crowdstrike_process", Weight: 0.5},
					},
					Roles: []string{"admin_user", "victim_host", "file_server"},
				},
				{
					Name:        "exfiltration",
					Duration:    minutes(30),
					EventBudget: 20,
					Generators: []GeneratorWeight{
						{GeneratorID: "zscaler_web", Weight: 1.0},
					},
					Roles: []string{"admin_user", "c2_domain"},
				},
			},
		},
		{
			ID:          "phishing-takeover",
			Name:        "Phishing-led Session Takeover",
			Description: "Credential phish, replayed session, and beaconing from the compromised workstation",
			Severity:    "medium",
			Techniques:  []string{"T1566.002", "T1550.004", "T1071.001"},
			Phases: []Phase{
				{
					Name:        "phish",
					Duration:    minutes(20),
					EventBudget: 15,
					Generators: []GeneratorWeight{
						{GeneratorID: "proofpoint_email", Weight: 1.0},
					},
					Roles: []string{"victim_user", "mail_sender", "phishing_domain"},
				},
				{
					Name:        "session-replay",
					Duration:    minutes(15),
					EventBudget: 10,
					Generators: []GeneratorWeight{
						{GeneratorID: "okta_authentication", Weight: 1.0},
					},
					Roles:  []string{"victim_user", "attacker_ip"},
					Params: map[string]interface{}{"outcome": "SUCCESS"},
				},
				{
					Name:        "beacon",
					Duration:    minutes(60),
					EventBudget: 30,
					Generators: []GeneratorWeight{
						{GeneratorID: "cisco_umbrella_dns", Weight: 1.0},
					},
					Roles: []string{"victim_host", "c2_domain"},
				},
			},
		},
	}
}
