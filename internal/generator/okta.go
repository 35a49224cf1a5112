package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// OktaAuthentication emits Okta System Log style authentication events.
// The victim_user identity, when present, is the account under attack so the
// same username appears in every phase that references it.
type OktaAuthentication struct {
	faker *gofakeit.Faker
}

func (g *OktaAuthentication) Name() string       { return "okta_authentication" }
func (g *OktaAuthentication) SourceType() string { return "okta:system" }
func (g *OktaAuthentication) Index() string      { return "identity" }

func (g *OktaAuthentication) Description() string {
	return "Okta System Log authentication events (failed and successful logons)"
}

func (g *OktaAuthentication) Generate(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	username := g.faker.Username()
	email := g.faker.Email()
	if victim, ok := IdentityParam(overrides, "victim_user"); ok {
		username = victim.Username
		email = victim.Email
	}
	sourceIP := g.faker.IPv4Address()
	if attacker, ok := IdentityParam(overrides, "attacker_ip"); ok {
		sourceIP = attacker.IP
	}
	outcome := StringParam(overrides, "outcome", "FAILURE")

	events := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		reason := ""
		if outcome == "FAILURE" {
			reason = g.faker.RandomString([]string{
				"INVALID_CREDENTIALS",
				"VERIFICATION_ERROR",
				"LOCKED_OUT",
			})
		}

		events = append(events, map[string]interface{}{
			"eventType":      "user.session.start",
			"displayMessage": "User login to Okta",
			"uuid":           g.faker.UUID(),
			"severity":       "WARN",
			"actor": map[string]interface{}{
				"alternateId": email,
				"displayName": username,
				"type":        "User",
			},
			"client": map[string]interface{}{
				"ipAddress": sourceIP,
				"userAgent": map[string]interface{}{
					"rawUserAgent": g.faker.UserAgent(),
					"os":           g.faker.RandomString([]string{"Windows 10", "Mac OS X", "Linux"}),
				},
				"geographicalContext": map[string]interface{}{
					"city":    g.faker.City(),
					"country": g.faker.Country(),
				},
			},
			"outcome": map[string]interface{}{
				"result": outcome,
				"reason": reason,
			},
			"transaction": map[string]interface{}{
				"id": g.faker.UUID(),
			},
			"message": fmt.Sprintf("Authentication attempt for %s from %s", username, sourceIP),
		})
	}
	return events, nil
}
