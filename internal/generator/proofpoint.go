package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// ProofpointEmail emits email-gateway message events carrying a phishing
// lure. The mail_sender and phishing_domain identities keep the sender and
// landing page consistent across the campaign.
type ProofpointEmail struct {
	faker *gofakeit.Faker
}

func (g *ProofpointEmail) Name() string       { return "proofpoint_email" }
func (g *ProofpointEmail) SourceType() string { return "proofpoint:email" }
func (g *ProofpointEmail) Index() string      { return "email" }

func (g *ProofpointEmail) Description() string {
	return "Proofpoint email gateway events with phishing lure URLs"
}

func (g *ProofpointEmail) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	senderEmail := g.faker.Email()
	if sender, ok := IdentityParam(overrides, "mail_sender"); ok {
		senderEmail = sender.Email
	}
	recipient := g.faker.Email()
	if victim, ok := IdentityParam(overrides, "victim_user"); ok {
		recipient = victim.Email
	}
	lureDomain := g.faker.DomainName()
	if phish, ok := IdentityParam(overrides, "phishing_domain"); ok {
		lureDomain = phish.Domain
	}

	subjects := []string{
		"Urgent: password expiry notice",
		"Invoice overdue - action required",
		"Shared document awaiting review",
		"IT helpdesk: verify your account",
	}

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, map[string]interface{}{
			"guid":          g.faker.UUID(),
			"eventType":     "message",
			"sender":        senderEmail,
			"recipient":     []string{recipient},
			"subject":       g.faker.RandomString(subjects),
			"headerFrom":    fmt.Sprintf("%q <%s>", g.faker.Name(), senderEmail),
			"senderIP":      g.faker.IPv4Address(),
			"phishScore":    g.faker.Number(70, 100),
			"spamScore":     g.faker.Number(0, 40),
			"quarantined":   false,
			"threatsInfoMap": []map[string]interface{}{
				{
					"threat":         fmt.Sprintf("https://%s/login", lureDomain),
					"threatType":     "url",
					"classification": "phish",
					"threatStatus":   "active",
				},
			},
			"messageParts": []map[string]interface{}{
				{
					"contentType": "text/html",
					"disposition": "inline",
				},
			},
		})
	}
	return events, nil
}
