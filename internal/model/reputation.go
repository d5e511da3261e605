package model

// Privacy mirrors the privacy block returned by the IP reputation service.
type Privacy struct {
	VPN     bool   `json:"vpn"`
	Proxy   bool   `json:"proxy"`
	Tor     bool   `json:"tor"`
	Relay   bool   `json:"relay"`
	Hosting bool   `json:"hosting"`
	Service string `json:"service,omitempty"`
}

// Reputation is the subset of an IP lookup response the gate cares about.
type Reputation struct {
	IP      string   `json:"ip"`
	Country string   `json:"country,omitempty"`
	Privacy *Privacy `json:"privacy,omitempty"`
}

// Blocked reports whether the address is an anonymizing endpoint.
// Hosting alone does not block.
func (r *Reputation) Blocked() bool {
	if r == nil || r.Privacy == nil {
		return false
	}
	p := r.Privacy
	return p.VPN || p.Proxy || p.Tor || p.Relay
}
