// Package entity owns the pool of synthetic identities reused across a
// campaign so that the credential compromised in one phase is the same
// identity moving laterally in the next.
package entity

// Kind classifies what a role resolves to.
type Kind string

const (
	KindUser    Kind = "user"
	KindHost    Kind = "host"
	KindAddress Kind = "address"
	KindDomain  Kind = "domain"
	KindEmail   Kind = "email"
)

// Identity is one synthetic actor or asset. All fields are populated at
// allocation time and never mutated afterwards.
type Identity struct {
	Role      string `json:"role"`
	Kind      Kind   `json:"kind"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	IP        string `json:"ip"`
	MAC       string `json:"mac,omitempty"`
	Domain    string `json:"domain,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	UID       string `json:"uid"`
}

// Catalog maps role names to the kind of identity they allocate. It is built
// once and passed by reference; nothing mutates it after construction.
type Catalog struct {
	kinds map[string]Kind
}

// DefaultCatalog returns the role catalog the builtin campaigns draw from.
func DefaultCatalog() *Catalog {
	return &Catalog{kinds: map[string]Kind{
		"victim_user":       KindUser,
		"admin_user":        KindUser,
		"service_account":   KindUser,
		"victim_host":       KindHost,
		"file_server":       KindHost,
		"domain_controller": KindHost,
		"attacker_ip":       KindAddress,
		"c2_ip":             KindAddress,
		"proxy_ip":          KindAddress,
		"c2_domain":         KindDomain,
		"phishing_domain":   KindDomain,
		"mail_sender":       KindEmail,
	}}
}

// Registered reports whether a role can be allocated.
func (c *Catalog) Registered(role string) bool {
	_, ok := c.kinds[role]
	return ok
}

// KindOf returns the kind a role allocates.
func (c *Catalog) KindOf(role string) (Kind, bool) {
	k, ok := c.kinds[role]
	return k, ok
}

// Roles returns all registered role names.
func (c *Catalog) Roles() []string {
	roles := make([]string, 0, len(c.kinds))
	for role := range c.kinds {
		roles = append(roles, role)
	}
	return roles
}
